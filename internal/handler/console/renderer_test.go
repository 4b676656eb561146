package console

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"MarketRegime/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *models.Report {
	return &models.Report{
		RunID:      "run-1",
		AsOf:       time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Period:     "2y",
		Roles:      models.DefaultRoles(),
		Thresholds: models.DefaultThresholds(),
		Windows:    models.DefaultWindows(),
		Snapshot: models.IndicatorSnapshot{
			Observations:  480,
			Distortion:    models.DistortionReading{Ratio: 1.38, Baseline: 1.2, Gap: 0.15},
			Credit:        models.CreditReading{Ratio: 0.7912, MA: 0.80, Min: 0.7912},
			Benchmark:     models.BenchmarkReading{Price: 5600, MA: 5500, Change: -0.012},
			FundingChange: -0.0345,
			RateChange:    -0.005,
		},
		Flags: models.TriggerFlags{
			DistortionCondition: true,
			TriggerA:            true,
			TriggerB:            true,
			Credit:              models.CreditDetail{Downtrend: true, AtLow: true, BenchmarkAbove: true},
		},
		Level:    models.LevelCritical,
		Rule:     "credit_or_funding",
		Headline: "System unwinding",
		Message:  "Credit contraction (A) or liquidity drain (B) in progress. Immediate exit recommended.",
	}
}

func TestTextRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, TextRenderer{}.Render(&buf, sampleReport()))
	out := buf.String()

	for _, want := range []string{
		"as of 2025-03-14 (period 2y, 480 observations)",
		"1. Condition: Market distortion (XLG/RSP)",
		"Gap vs MA200: +15.00% (threshold: +15.00%)",
		">>> CONDITION: [TRUE]",
		"Current ratio: 0.7912",
		"20d trend: Bearish",
		"At 20d low?: YES",
		"^GSPC context: High (>MA50)",
		">>> TRIGGER A: [TRUE]",
		"3. Trigger B: Liquidity shock (JPY=X)",
		"5-day change: -3.45% (threshold: -3.00%)",
		"IEF 10d change: -0.50% (threshold: -2.00%)",
		"^GSPC 10d change: -1.20%",
		">>> TRIGGER C: [FALSE]",
		"LEVEL 5: CRITICAL (System unwinding)",
		"[MESSAGE]\nCredit contraction (A)",
	} {
		assert.Contains(t, out, want)
	}
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSONRenderer{}.Render(&buf, sampleReport()))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "CRITICAL", got["level"])
	assert.Equal(t, "credit_or_funding", got["rule"])
	assert.Equal(t, true, got["flags"].(map[string]interface{})["trigger_b"])
}

func TestNewRenderer(t *testing.T) {
	r, err := NewRenderer("")
	require.NoError(t, err)
	assert.IsType(t, TextRenderer{}, r)

	r, err = NewRenderer("JSON")
	require.NoError(t, err)
	assert.IsType(t, JSONRenderer{}, r)

	_, err = NewRenderer("yaml")
	assert.Error(t, err)
}
