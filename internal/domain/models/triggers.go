package models

// Thresholds configures the trigger predicates.
type Thresholds struct {
	// Distortion gap at or above which the market counts as distorted.
	Distortion float64 `yaml:"distortion" json:"distortion" default:"0.15"`
	// LowTolerance widens the "at rolling minimum" test to absorb float noise.
	LowTolerance float64 `yaml:"low_tolerance" json:"low_tolerance" default:"0.0001" validate:"gte=0"`
	// FundingShock is the funding proxy change below which trigger B fires.
	FundingShock float64 `yaml:"funding_shock" json:"funding_shock" default:"-0.03"`
	// RateShock is the credit denominator change below which trigger C may fire.
	RateShock float64 `yaml:"rate_shock" json:"rate_shock" default:"-0.02"`
	// BenchmarkFilter requires the benchmark change to be below it for trigger C.
	BenchmarkFilter float64 `yaml:"benchmark_filter" json:"benchmark_filter"`
}

// DefaultThresholds returns the standard thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Distortion:      0.15,
		LowTolerance:    0.0001,
		FundingShock:    -0.03,
		RateShock:       -0.02,
		BenchmarkFilter: 0.0,
	}
}

// CreditDetail keeps the sub-predicates of trigger A for reporting.
type CreditDetail struct {
	Downtrend      bool `json:"downtrend"`
	AtLow          bool `json:"at_low"`
	BenchmarkAbove bool `json:"benchmark_above_ma"`
}

// RateDetail keeps the sub-predicates of trigger C for reporting.
type RateDetail struct {
	RateShock     bool `json:"rate_shock"`
	BenchmarkDown bool `json:"benchmark_down"`
}

// TriggerFlags is the fixed set of boolean predicates over a snapshot.
type TriggerFlags struct {
	DistortionCondition bool         `json:"distortion_condition"`
	TriggerA            bool         `json:"trigger_a"`
	TriggerB            bool         `json:"trigger_b"`
	TriggerC            bool         `json:"trigger_c"`
	Credit              CreditDetail `json:"credit"`
	Rate                RateDetail   `json:"rate"`
}
