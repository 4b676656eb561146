package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"MarketRegime/internal/domain/models"
	domrepo "MarketRegime/internal/domain/repository"
	"MarketRegime/internal/services/classifier"
	"MarketRegime/internal/services/indicators"
	"MarketRegime/internal/services/triggers"
	applogger "MarketRegime/pkg/logger"
	"MarketRegime/pkg/util"

	"github.com/google/uuid"
)

// RegimeMonitor runs one evaluation: fetch, indicators, triggers, classification.
// It holds no state between runs.
type RegimeMonitor struct {
	provider   domrepo.PriceProvider
	engine     *indicators.Engine
	evaluator  *triggers.Evaluator
	classifier *classifier.Classifier
	roles      models.InstrumentRoles
	period     domrepo.Period
	metrics    domrepo.Metrics
	l          *applogger.Logger
	timeout    time.Duration
	now        func() time.Time
}

type RegimeMonitorParams struct {
	Provider   domrepo.PriceProvider
	Engine     *indicators.Engine
	Evaluator  *triggers.Evaluator
	Classifier *classifier.Classifier
	Roles      models.InstrumentRoles
	Period     domrepo.Period
	Metrics    domrepo.Metrics
	Logger     *applogger.Logger
	Timeout    time.Duration
}

func NewRegimeMonitor(p RegimeMonitorParams) *RegimeMonitor {
	m := &RegimeMonitor{
		provider:   p.Provider,
		engine:     p.Engine,
		evaluator:  p.Evaluator,
		classifier: p.Classifier,
		roles:      p.Roles,
		period:     p.Period,
		metrics:    p.Metrics,
		l:          p.Logger,
		timeout:    p.Timeout,
		now:        time.Now,
	}
	if m.engine == nil {
		m.engine = indicators.NewEngine(models.DefaultWindows())
	}
	if m.evaluator == nil {
		m.evaluator = triggers.NewEvaluator(models.DefaultThresholds())
	}
	if m.classifier == nil {
		m.classifier = classifier.NewClassifier()
	}
	if !domrepo.IsValidPeriod(m.period) {
		m.period = domrepo.DefaultPeriod()
	}
	if m.metrics == nil {
		m.metrics = nopMetrics{}
	}
	if m.l == nil {
		m.l = applogger.Nop()
	}
	return m
}

type EvaluateParams struct {
	// Period overrides the configured lookback when set.
	Period domrepo.Period
}

// Evaluate produces a report or the first error of the pipeline.
func (m *RegimeMonitor) Evaluate(ctx context.Context, p EvaluateParams) (*models.Report, error) {
	period := m.period
	if p.Period != "" {
		if !domrepo.IsValidPeriod(p.Period) {
			return nil, fmt.Errorf("unsupported period: %s", p.Period)
		}
		period = p.Period
	}
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	runID := uuid.NewString()
	log := m.l.With(applogger.String("run_id", runID))

	start := time.Now()
	table, err := m.provider.Fetch(ctx, m.roles.Instruments(), period)
	m.metrics.RecordLatency("fetch", time.Since(start).Seconds())
	if err != nil {
		return nil, m.fail(log, "fetch", err)
	}
	if need := m.engine.RequiredObservations(); table.Len() < need {
		log.Warn("period too short for indicator windows",
			applogger.String("period", string(period)),
			applogger.Int("required", need),
			applogger.Int("available", table.Len()),
		)
	}

	start = time.Now()
	snap, err := m.engine.ComputeSnapshot(table, m.roles)
	m.metrics.RecordLatency("indicators", time.Since(start).Seconds())
	if err != nil {
		return nil, m.fail(log, "indicators", err)
	}
	m.metrics.RecordSnapshot(snap)
	log.Info("indicators computed",
		applogger.String("as_of", util.FormatDay(snap.AsOf)),
		applogger.Int("observations", snap.Observations),
		applogger.Float64("distortion_gap", snap.Distortion.Gap),
		applogger.Float64("credit_ratio", snap.Credit.Ratio),
		applogger.Float64("funding_change", snap.FundingChange),
		applogger.Float64("rate_change", snap.RateChange),
	)

	flags := m.evaluator.Evaluate(snap)
	m.metrics.RecordFlags(flags)
	log.Info("triggers evaluated",
		applogger.Bool("distortion", flags.DistortionCondition),
		applogger.Bool("trigger_a", flags.TriggerA),
		applogger.Bool("trigger_b", flags.TriggerB),
		applogger.Bool("trigger_c", flags.TriggerC),
	)

	res := m.classifier.Classify(flags)
	m.metrics.RecordEvaluation(res.Level)
	log.Info("regime classified",
		applogger.String("level", res.Level.String()),
		applogger.String("rule", res.Rule),
	)

	return &models.Report{
		RunID:       runID,
		GeneratedAt: m.now().UTC(),
		AsOf:        snap.AsOf,
		Period:      string(period),
		Roles:       m.roles,
		Thresholds:  m.evaluator.Thresholds(),
		Windows:     m.engine.Windows(),
		Snapshot:    snap,
		Flags:       flags,
		Level:       res.Level,
		Rule:        res.Rule,
		Headline:    res.Headline,
		Message:     res.Message,
	}, nil
}

func (m *RegimeMonitor) fail(log *applogger.Logger, stage string, err error) error {
	kind := ErrorKind(err)
	m.metrics.RecordError(kind)
	log.Error("regime evaluation failed",
		applogger.String("stage", stage),
		applogger.String("kind", kind),
		applogger.Error(err),
	)
	return fmt.Errorf("%s: %w", stage, err)
}

// ErrorKind maps a pipeline error to a short label for metrics and API codes.
func ErrorKind(err error) string {
	switch {
	case errors.Is(err, models.ErrDataUnavailable):
		return "data_unavailable"
	case errors.Is(err, models.ErrEmptyAlignedTable):
		return "empty_table"
	case errors.Is(err, models.ErrInsufficientHistory):
		return "insufficient_history"
	case errors.Is(err, models.ErrUnknownInstrument):
		return "unknown_instrument"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "internal"
	}
}

type nopMetrics struct{}

func (nopMetrics) RecordEvaluation(models.RiskLevel)       {}
func (nopMetrics) RecordFlags(models.TriggerFlags)         {}
func (nopMetrics) RecordSnapshot(models.IndicatorSnapshot) {}
func (nopMetrics) RecordError(string)                      {}
func (nopMetrics) RecordLatency(string, float64)           {}
