package metrics

import (
	"MarketRegime/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations *prometheus.CounterVec
	level       prometheus.Gauge
	triggers    *prometheus.GaugeVec
	indicators  *prometheus.GaugeVec
	errorsTotal *prometheus.CounterVec
	latency     *prometheus.HistogramVec
}

// New creates a recorder registered on reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regime_evaluations_total",
				Help: "Completed regime evaluations by resolved level",
			},
			[]string{"level"},
		),
		level: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "regime_risk_level",
				Help: "Risk level of the latest evaluation (1 normal, 3 overheated, 4 warning, 5 critical)",
			},
		),
		triggers: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "regime_trigger_active",
				Help: "1 if the named trigger fired in the latest evaluation",
			},
			[]string{"trigger"},
		),
		indicators: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "regime_indicator_value",
				Help: "Latest value of each snapshot indicator",
			},
			[]string{"indicator"},
		),
		errorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "regime_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "regime_operation_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvaluation counts one evaluation and publishes its level.
func (r *Recorder) RecordEvaluation(level models.RiskLevel) {
	r.evaluations.WithLabelValues(level.String()).Inc()
	r.level.Set(float64(level))
}

// RecordFlags publishes each trigger as 0/1.
func (r *Recorder) RecordFlags(f models.TriggerFlags) {
	r.triggers.WithLabelValues("distortion").Set(boolGauge(f.DistortionCondition))
	r.triggers.WithLabelValues("a").Set(boolGauge(f.TriggerA))
	r.triggers.WithLabelValues("b").Set(boolGauge(f.TriggerB))
	r.triggers.WithLabelValues("c").Set(boolGauge(f.TriggerC))
}

// RecordSnapshot publishes the snapshot values.
func (r *Recorder) RecordSnapshot(s models.IndicatorSnapshot) {
	set := func(name string, v float64) { r.indicators.WithLabelValues(name).Set(v) }
	set("distortion_ratio", s.Distortion.Ratio)
	set("distortion_baseline", s.Distortion.Baseline)
	set("distortion_gap", s.Distortion.Gap)
	set("credit_ratio", s.Credit.Ratio)
	set("credit_ma", s.Credit.MA)
	set("credit_min", s.Credit.Min)
	set("benchmark_price", s.Benchmark.Price)
	set("benchmark_ma", s.Benchmark.MA)
	set("benchmark_change", s.Benchmark.Change)
	set("funding_change", s.FundingChange)
	set("rate_change", s.RateChange)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
