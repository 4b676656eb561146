// Package triggers turns an indicator snapshot into the named stress predicates.
package triggers

import "MarketRegime/internal/domain/models"

// Evaluator applies a fixed set of thresholds. It is safe for concurrent use.
type Evaluator struct {
	th models.Thresholds
}

func NewEvaluator(th models.Thresholds) *Evaluator { return &Evaluator{th: th} }

// Thresholds returns the configured thresholds.
func (e *Evaluator) Thresholds() models.Thresholds { return e.th }

// Evaluate is Evaluate(snap, e.Thresholds()).
func (e *Evaluator) Evaluate(snap models.IndicatorSnapshot) models.TriggerFlags {
	return Evaluate(snap, e.th)
}

// Evaluate computes the trigger flags. The snapshot must be fully defined.
func Evaluate(snap models.IndicatorSnapshot, th models.Thresholds) models.TriggerFlags {
	var f models.TriggerFlags

	f.DistortionCondition = snap.Distortion.Gap >= th.Distortion

	// A: credit stress while the benchmark still trades above its mean.
	f.Credit = models.CreditDetail{
		Downtrend:      snap.Credit.Ratio < snap.Credit.MA,
		AtLow:          AtRollingMin(snap.Credit.Ratio, snap.Credit.Min, th.LowTolerance),
		BenchmarkAbove: snap.Benchmark.Price > snap.Benchmark.MA,
	}
	f.TriggerA = f.Credit.Downtrend && f.Credit.AtLow && f.Credit.BenchmarkAbove

	// B: funding currency surge.
	f.TriggerB = snap.FundingChange < th.FundingShock

	// C: rates spike with stocks falling; rate rises with rising stocks are ignored.
	f.Rate = models.RateDetail{
		RateShock:     snap.RateChange < th.RateShock,
		BenchmarkDown: snap.Benchmark.Change < th.BenchmarkFilter,
	}
	f.TriggerC = f.Rate.RateShock && f.Rate.BenchmarkDown

	return f
}

// AtRollingMin reports whether v sits on its rolling minimum within tolerance.
func AtRollingMin(v, low, tolerance float64) bool {
	return v <= low*(1+tolerance)
}
