package models

import "time"

// DistortionReading is the concentration-vs-equal-weight ratio against its long baseline.
type DistortionReading struct {
	Ratio    float64 `json:"ratio"`
	Baseline float64 `json:"baseline"`
	Gap      float64 `json:"gap"`
}

// CreditReading is the high-yield vs duration ratio with its trailing mean and minimum.
type CreditReading struct {
	Ratio float64 `json:"ratio"`
	MA    float64 `json:"ma"`
	Min   float64 `json:"min"`
}

// BenchmarkReading is the market context instrument.
type BenchmarkReading struct {
	Price  float64 `json:"price"`
	MA     float64 `json:"ma"`
	Change float64 `json:"change"`
}

// IndicatorSnapshot holds the latest-index values of every derived series.
// All fields are defined; the engine fails instead of producing gaps.
type IndicatorSnapshot struct {
	AsOf          time.Time         `json:"as_of"`
	Observations  int               `json:"observations"`
	Distortion    DistortionReading `json:"distortion"`
	Credit        CreditReading     `json:"credit"`
	Benchmark     BenchmarkReading  `json:"benchmark"`
	FundingChange float64           `json:"funding_change"`
	RateChange    float64           `json:"rate_change"`
}

// InstrumentRoles maps semantic roles to tracked instruments.
type InstrumentRoles struct {
	DistortionNumerator   string `yaml:"distortion_numerator" json:"distortion_numerator" default:"XLG" validate:"required"`
	DistortionDenominator string `yaml:"distortion_denominator" json:"distortion_denominator" default:"RSP" validate:"required"`
	CreditNumerator       string `yaml:"credit_numerator" json:"credit_numerator" default:"HYG" validate:"required"`
	CreditDenominator     string `yaml:"credit_denominator" json:"credit_denominator" default:"IEF" validate:"required"`
	Benchmark             string `yaml:"benchmark" json:"benchmark" default:"^GSPC" validate:"required"`
	Funding               string `yaml:"funding" json:"funding" default:"JPY=X" validate:"required"`
}

// Instruments returns the distinct instruments referenced by the roles, in role order.
func (r InstrumentRoles) Instruments() []string {
	seen := make(map[string]struct{}, 6)
	out := make([]string, 0, 6)
	for _, s := range []string{
		r.DistortionNumerator, r.DistortionDenominator,
		r.CreditNumerator, r.CreditDenominator,
		r.Benchmark, r.Funding,
	} {
		if _, ok := seen[s]; ok || s == "" {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Windows are the observation counts used by the rolling computations.
type Windows struct {
	DistortionBaseline int `yaml:"distortion_baseline" json:"distortion_baseline" default:"200" validate:"gte=1"`
	CreditLookback     int `yaml:"credit_lookback" json:"credit_lookback" default:"20" validate:"gte=1"`
	BenchmarkMA        int `yaml:"benchmark_ma" json:"benchmark_ma" default:"50" validate:"gte=1"`
	BenchmarkChange    int `yaml:"benchmark_change" json:"benchmark_change" default:"10" validate:"gte=1"`
	FundingChange      int `yaml:"funding_change" json:"funding_change" default:"5" validate:"gte=1"`
	RateChange         int `yaml:"rate_change" json:"rate_change" default:"10" validate:"gte=1"`
}

// DefaultWindows returns the standard windows.
func DefaultWindows() Windows {
	return Windows{
		DistortionBaseline: 200,
		CreditLookback:     20,
		BenchmarkMA:        50,
		BenchmarkChange:    10,
		FundingChange:      5,
		RateChange:         10,
	}
}

// DefaultRoles returns the standard instrument assignment.
func DefaultRoles() InstrumentRoles {
	return InstrumentRoles{
		DistortionNumerator:   "XLG",
		DistortionDenominator: "RSP",
		CreditNumerator:       "HYG",
		CreditDenominator:     "IEF",
		Benchmark:             "^GSPC",
		Funding:               "JPY=X",
	}
}
