package server

import (
	"context"
	"fmt"
	"io"

	"MarketRegime/internal/domain/models"
	"MarketRegime/internal/domain/repository"
	"MarketRegime/internal/handler/api"
	"MarketRegime/internal/handler/console"
	"MarketRegime/internal/usecase"
	"MarketRegime/pkg/config"
	xhttp "MarketRegime/pkg/http"
	applogger "MarketRegime/pkg/logger"

	"github.com/prometheus/client_golang/prometheus"
)

// App encapsulates the application lifecycle: a one-shot evaluation or the HTTP service.
type App struct {
	cfg      *config.Config
	log      *applogger.Logger
	monitor  *usecase.RegimeMonitor
	handler  *api.RegimeEchoHandler
	registry *prometheus.Registry
}

// New creates a new App instance with all dependencies.
func New(
	cfg *config.Config,
	l *applogger.Logger,
	monitor *usecase.RegimeMonitor,
	h *api.RegimeEchoHandler,
	reg *prometheus.Registry,
) *App {
	return &App{cfg: cfg, log: l, monitor: monitor, handler: h, registry: reg}
}

// RunOnce evaluates the regime once and renders the report to w.
// An empty period uses the configured default.
func (a *App) RunOnce(ctx context.Context, w io.Writer, format, period string) (*models.Report, error) {
	r, err := console.NewRenderer(format)
	if err != nil {
		return nil, err
	}
	if period != "" && !repository.IsValidPeriod(repository.Period(period)) {
		return nil, fmt.Errorf("invalid period %q", period)
	}

	report, err := a.monitor.Evaluate(ctx, usecase.EvaluateParams{Period: repository.Period(period)})
	if err != nil {
		return nil, err
	}
	if err := r.Render(w, report); err != nil {
		return report, fmt.Errorf("render report: %w", err)
	}
	return report, nil
}

// Serve runs the HTTP API until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	opts := []xhttp.ServerOption{
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	}
	if a.cfg.Metrics.Enabled && a.registry != nil {
		opts = append(opts, xhttp.WithMetrics(a.cfg.Metrics.Path, a.registry, a.registry))
	}

	srv := xhttp.NewServer(a.handler, opts...)
	a.log.Info("serving regime api",
		applogger.String("addr", srv.Addr()),
		applogger.String("provider", a.cfg.Provider.Type),
		applogger.Duration("report_ttl", a.cfg.Server.ReportTTL),
	)
	return srv.Run(ctx)
}
