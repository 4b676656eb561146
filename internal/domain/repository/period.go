package repository

import (
	"fmt"
	"time"
)

// Period is a lookback range such as "2y" or "6mo".
type Period string

const (
	Period6M  Period = "6mo"
	Period1Y  Period = "1y"
	Period2Y  Period = "2y"
	Period5Y  Period = "5y"
	Period10Y Period = "10y"
)

// IsValidPeriod returns true if p is a supported period.
func IsValidPeriod(p Period) bool {
	switch p {
	case Period6M, Period1Y, Period2Y, Period5Y, Period10Y:
		return true
	default:
		return false
	}
}

// DefaultPeriod returns the default lookback.
func DefaultPeriod() Period { return Period2Y }

// NormalizePeriod converts a raw string to a valid period (or default).
func NormalizePeriod(s string) Period {
	if s == "" {
		return DefaultPeriod()
	}
	p := Period(s)
	if IsValidPeriod(p) {
		return p
	}
	return DefaultPeriod()
}

// Start returns the first calendar day covered by p when looking back from now.
func (p Period) Start(now time.Time) (time.Time, error) {
	now = now.UTC()
	switch p {
	case Period6M:
		return now.AddDate(0, -6, 0), nil
	case Period1Y:
		return now.AddDate(-1, 0, 0), nil
	case Period2Y:
		return now.AddDate(-2, 0, 0), nil
	case Period5Y:
		return now.AddDate(-5, 0, 0), nil
	case Period10Y:
		return now.AddDate(-10, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported period: %s", p)
	}
}
