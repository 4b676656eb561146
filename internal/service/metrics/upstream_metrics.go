package metrics

import (
	"context"
	"time"

	"MarketRegime/internal/domain/models"
	"MarketRegime/internal/domain/repository"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// UpstreamMetrics tracks latency and failures of market data fetches.
type UpstreamMetrics struct {
	latency *prometheus.HistogramVec
	errors  *prometheus.CounterVec
}

// NewUpstreamMetrics registers the upstream collectors on reg.
// A nil reg uses the default registerer.
func NewUpstreamMetrics(reg prometheus.Registerer) *UpstreamMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &UpstreamMetrics{
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "regime",
				Subsystem: "upstream",
				Name:      "fetch_seconds",
				Help:      "Latency of series fetches by source",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		errors: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "regime",
				Subsystem: "upstream",
				Name:      "errors_total",
				Help:      "Failed series fetches by source and symbol",
			},
			[]string{"source", "symbol"},
		),
	}
}

func (m *UpstreamMetrics) observe(source, symbol string, d time.Duration, err error) {
	m.latency.WithLabelValues(source).Observe(d.Seconds())
	if err != nil {
		m.errors.WithLabelValues(source, symbol).Inc()
	}
}

// InstrumentedSource records fetch latency and errors of the wrapped source.
type InstrumentedSource struct {
	next repository.SeriesSource
	m    *UpstreamMetrics
	now  func() time.Time
}

// Instrument wraps src so each fetch is observed by m.
func Instrument(src repository.SeriesSource, m *UpstreamMetrics) *InstrumentedSource {
	return &InstrumentedSource{next: src, m: m, now: time.Now}
}

func (s *InstrumentedSource) Name() string { return s.next.Name() }

func (s *InstrumentedSource) FetchSeries(ctx context.Context, symbol string, period repository.Period) (models.Series, error) {
	start := s.now()
	out, err := s.next.FetchSeries(ctx, symbol, period)
	s.m.observe(s.next.Name(), symbol, s.now().Sub(start), err)
	return out, err
}
