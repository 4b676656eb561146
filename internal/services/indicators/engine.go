package indicators

import (
	"errors"
	"fmt"

	"MarketRegime/internal/domain/models"
)

// Engine derives the indicator snapshot from an aligned price table.
// It keeps no state between calls.
type Engine struct {
	windows models.Windows
}

// NewEngine builds an engine; zero windows fall back to the defaults.
func NewEngine(w models.Windows) *Engine {
	d := models.DefaultWindows()
	if w.DistortionBaseline <= 0 {
		w.DistortionBaseline = d.DistortionBaseline
	}
	if w.CreditLookback <= 0 {
		w.CreditLookback = d.CreditLookback
	}
	if w.BenchmarkMA <= 0 {
		w.BenchmarkMA = d.BenchmarkMA
	}
	if w.BenchmarkChange <= 0 {
		w.BenchmarkChange = d.BenchmarkChange
	}
	if w.FundingChange <= 0 {
		w.FundingChange = d.FundingChange
	}
	if w.RateChange <= 0 {
		w.RateChange = d.RateChange
	}
	return &Engine{windows: w}
}

// Windows returns the effective windows.
func (e *Engine) Windows() models.Windows { return e.windows }

// RequiredObservations is the longest history any indicator needs.
func (e *Engine) RequiredObservations() int {
	w := e.windows
	req := w.DistortionBaseline
	for _, n := range []int{w.CreditLookback, w.BenchmarkMA, w.BenchmarkChange + 1, w.FundingChange + 1, w.RateChange + 1} {
		if n > req {
			req = n
		}
	}
	return req
}

// ComputeSnapshot evaluates every indicator at the latest row of table.
func (e *Engine) ComputeSnapshot(table *models.AlignedTable, roles models.InstrumentRoles) (models.IndicatorSnapshot, error) {
	var snap models.IndicatorSnapshot
	if table.Len() == 0 {
		return snap, models.ErrEmptyAlignedTable
	}
	cols, err := columns(table, roles)
	if err != nil {
		return snap, err
	}
	n := table.Len()
	w := e.windows

	// Distortion: ratio against its long baseline.
	if err := need("distortion baseline", w.DistortionBaseline, n); err != nil {
		return snap, err
	}
	dRatio, err := Ratio(cols[roles.DistortionNumerator], cols[roles.DistortionDenominator])
	if err != nil {
		return snap, fmt.Errorf("distortion ratio: %w", err)
	}
	dBase, err := RollingMean(dRatio, w.DistortionBaseline)
	if err != nil {
		return snap, err
	}
	if snap.Distortion.Ratio, err = Last("distortion ratio", dRatio); err != nil {
		return snap, err
	}
	if snap.Distortion.Baseline, err = Last("distortion baseline", dBase); err != nil {
		return snap, err
	}
	snap.Distortion.Gap = snap.Distortion.Ratio/snap.Distortion.Baseline - 1

	// Credit: ratio with trailing mean and minimum.
	if err := need("credit lookback", w.CreditLookback, n); err != nil {
		return snap, err
	}
	cRatio, err := Ratio(cols[roles.CreditNumerator], cols[roles.CreditDenominator])
	if err != nil {
		return snap, fmt.Errorf("credit ratio: %w", err)
	}
	cMA, err := RollingMean(cRatio, w.CreditLookback)
	if err != nil {
		return snap, err
	}
	cMin, err := RollingMin(cRatio, w.CreditLookback)
	if err != nil {
		return snap, err
	}
	if snap.Credit.Ratio, err = Last("credit ratio", cRatio); err != nil {
		return snap, err
	}
	if snap.Credit.MA, err = Last("credit mean", cMA); err != nil {
		return snap, err
	}
	if snap.Credit.Min, err = Last("credit min", cMin); err != nil {
		return snap, err
	}

	// Market context.
	bench := cols[roles.Benchmark]
	if err := need("benchmark ma", w.BenchmarkMA, n); err != nil {
		return snap, err
	}
	if err := need("benchmark change", w.BenchmarkChange+1, n); err != nil {
		return snap, err
	}
	bMA, err := RollingMean(bench, w.BenchmarkMA)
	if err != nil {
		return snap, err
	}
	bChg, err := PctChange(bench, w.BenchmarkChange)
	if err != nil {
		return snap, err
	}
	snap.Benchmark.Price = bench[n-1]
	if snap.Benchmark.MA, err = Last("benchmark ma", bMA); err != nil {
		return snap, err
	}
	if snap.Benchmark.Change, err = Last("benchmark change", bChg); err != nil {
		return snap, err
	}

	// Funding shock proxies.
	if err := need("funding change", w.FundingChange+1, n); err != nil {
		return snap, err
	}
	if err := need("rate change", w.RateChange+1, n); err != nil {
		return snap, err
	}
	fChg, err := PctChange(cols[roles.Funding], w.FundingChange)
	if err != nil {
		return snap, err
	}
	rChg, err := PctChange(cols[roles.CreditDenominator], w.RateChange)
	if err != nil {
		return snap, err
	}
	if snap.FundingChange, err = Last("funding change", fChg); err != nil {
		return snap, err
	}
	if snap.RateChange, err = Last("rate change", rChg); err != nil {
		return snap, err
	}

	snap.AsOf = table.LatestTime()
	snap.Observations = n
	return snap, nil
}

func need(indicator string, required, available int) error {
	if available < required {
		return &models.InsufficientHistoryError{Indicator: indicator, Required: required, Available: available}
	}
	return nil
}

func columns(table *models.AlignedTable, roles models.InstrumentRoles) (map[string][]float64, error) {
	out := make(map[string][]float64, 6)
	var errs []error
	for _, sym := range []string{
		roles.DistortionNumerator, roles.DistortionDenominator,
		roles.CreditNumerator, roles.CreditDenominator,
		roles.Benchmark, roles.Funding,
	} {
		if _, done := out[sym]; done {
			continue
		}
		col, ok := table.Column(sym)
		if !ok {
			errs = append(errs, fmt.Errorf("%w: %q", models.ErrUnknownInstrument, sym))
			continue
		}
		out[sym] = col
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}
