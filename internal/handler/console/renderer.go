// Package console renders regime reports for terminal output.
package console

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"MarketRegime/internal/domain/models"
	"MarketRegime/pkg/util"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer writes a report to w.
type Renderer interface {
	Render(w io.Writer, r *models.Report) error
}

// NewRenderer returns the renderer for format ("text" or "json").
func NewRenderer(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return TextRenderer{}, nil
	case FormatJSON:
		return JSONRenderer{Indent: "  "}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}

// JSONRenderer writes the report as a JSON document.
type JSONRenderer struct {
	Indent string
}

func (j JSONRenderer) Render(w io.Writer, r *models.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", j.Indent)
	return enc.Encode(r)
}

// TextRenderer writes the sectioned calculation report followed by the level banner.
type TextRenderer struct{}

var (
	rule   = strings.Repeat("-", 50)
	banner = strings.Repeat("#", 50)
)

func (TextRenderer) Render(w io.Writer, r *models.Report) error {
	var b bytes.Buffer
	s, f, th, win, ro := r.Snapshot, r.Flags, r.Thresholds, r.Windows, r.Roles

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "[REGIME REPORT] as of %s (period %s, %d observations)\n",
		util.FormatDay(r.AsOf), r.Period, s.Observations)

	fmt.Fprintf(&b, "\n1. Condition: Market distortion (%s/%s)\n", ro.DistortionNumerator, ro.DistortionDenominator)
	fmt.Fprintf(&b, "   - Gap vs MA%d: %s (threshold: %s)\n", win.DistortionBaseline, pct(s.Distortion.Gap), pct(th.Distortion))
	fmt.Fprintf(&b, "   >>> CONDITION: %s\n", flag(f.DistortionCondition))

	fmt.Fprintf(&b, "\n2. Trigger A: Credit crunch (%s/%s)\n", ro.CreditNumerator, ro.CreditDenominator)
	fmt.Fprintf(&b, "   - Current ratio: %.4f\n", s.Credit.Ratio)
	fmt.Fprintf(&b, "   - %dd trend: %s\n", win.CreditLookback, choose(f.Credit.Downtrend, "Bearish", "Bullish"))
	fmt.Fprintf(&b, "   - At %dd low?: %s\n", win.CreditLookback, choose(f.Credit.AtLow, "YES", "NO"))
	fmt.Fprintf(&b, "   - %s context: %s\n", ro.Benchmark,
		choose(f.Credit.BenchmarkAbove, fmt.Sprintf("High (>MA%d)", win.BenchmarkMA), "Low"))
	fmt.Fprintf(&b, "   >>> TRIGGER A: %s\n", flag(f.TriggerA))

	fmt.Fprintf(&b, "\n3. Trigger B: Liquidity shock (%s)\n", ro.Funding)
	fmt.Fprintf(&b, "   - %d-day change: %s (threshold: %s)\n", win.FundingChange, pct(s.FundingChange), pct(th.FundingShock))
	fmt.Fprintf(&b, "   >>> TRIGGER B: %s\n", flag(f.TriggerB))

	fmt.Fprintln(&b, "\n4. Trigger C: Bad rate spike (filter applied)")
	fmt.Fprintf(&b, "   - %s %dd change: %s (threshold: %s)\n", ro.CreditDenominator, win.RateChange, pct(s.RateChange), pct(th.RateShock))
	fmt.Fprintf(&b, "   - %s %dd change: %s\n", ro.Benchmark, win.BenchmarkChange, pct(s.Benchmark.Change))
	fmt.Fprintf(&b, "   >>> TRIGGER C: %s\n", flag(f.TriggerC))
	fmt.Fprintln(&b, rule)

	fmt.Fprintf(&b, "\n%s\n", banner)
	fmt.Fprintf(&b, "   LEVEL %d: %s (%s)\n", int(r.Level), r.Level, r.Headline)
	fmt.Fprintln(&b, banner)
	fmt.Fprintf(&b, "\n[MESSAGE]\n%s\n\n", r.Message)
	fmt.Fprintln(&b, banner)

	_, err := w.Write(b.Bytes())
	return err
}

func pct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v*100)
}

func flag(v bool) string {
	return choose(v, "[TRUE]", "[FALSE]")
}

func choose(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}
