package indicators

import (
	"fmt"
	"math"

	"MarketRegime/internal/domain/models"
)

// Ratio computes a[i]/b[i] on a shared index.
func Ratio(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("ratio: length mismatch %d vs %d", len(a), len(b))
	}
	out := make([]float64, len(a))
	for i := range a {
		if b[i] == 0 {
			return nil, fmt.Errorf("ratio: zero denominator at index %d", i)
		}
		out[i] = a[i] / b[i]
	}
	return out, nil
}

// RollingMean returns the trailing mean over window observations, aligned to the
// input index. Indexes with fewer than window observations hold NaN.
func RollingMean(values []float64, window int) ([]float64, error) {
	if err := checkWindow("rolling mean", values, window); err != nil {
		return nil, err
	}
	out := undefined(len(values))
	for i := window - 1; i < len(values); i++ {
		out[i] = windowMean(values[i-window+1 : i+1])
	}
	return out, nil
}

// RollingMin returns the trailing minimum over window observations, aligned to
// the input index. Indexes with fewer than window observations hold NaN.
func RollingMin(values []float64, window int) ([]float64, error) {
	if err := checkWindow("rolling min", values, window); err != nil {
		return nil, err
	}
	out := undefined(len(values))
	for i := window - 1; i < len(values); i++ {
		m := values[i-window+1]
		for _, v := range values[i-window+2 : i+1] {
			if v < m {
				m = v
			}
		}
		out[i] = m
	}
	return out, nil
}

// PctChange returns values[i]/values[i-periods] - 1. The first periods indexes hold NaN.
func PctChange(values []float64, periods int) ([]float64, error) {
	if periods <= 0 {
		return nil, fmt.Errorf("pct change: periods must be positive, got %d", periods)
	}
	if len(values) <= periods {
		return nil, &models.InsufficientHistoryError{
			Indicator: "pct change",
			Required:  periods + 1,
			Available: len(values),
		}
	}
	out := undefined(len(values))
	for i := periods; i < len(values); i++ {
		prev := values[i-periods]
		if prev == 0 {
			return nil, fmt.Errorf("pct change: zero base at index %d", i-periods)
		}
		out[i] = values[i]/prev - 1
	}
	return out, nil
}

// Last returns the final value of a derived series and fails if it is undefined.
func Last(name string, values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, &models.InsufficientHistoryError{Indicator: name, Required: 1, Available: 0}
	}
	v := values[len(values)-1]
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s: latest value is not finite", name)
	}
	return v, nil
}

// windowMean averages around the first element with compensated summation so
// flat windows come back exactly.
func windowMean(w []float64) float64 {
	base := w[0]
	var sum, c float64
	for _, v := range w[1:] {
		y := (v - base) - c
		t := sum + y
		c = (t - sum) - y
		sum = t
	}
	return base + sum/float64(len(w))
}

func checkWindow(name string, values []float64, window int) error {
	if window <= 0 {
		return fmt.Errorf("%s: window must be positive, got %d", name, window)
	}
	if len(values) < window {
		return &models.InsufficientHistoryError{Indicator: name, Required: window, Available: len(values)}
	}
	return nil
}

func undefined(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
