package di

import (
	"fmt"

	"MarketRegime/internal/domain/models"
	"MarketRegime/internal/domain/repository"
	"MarketRegime/internal/handler/api"
	internalrepo "MarketRegime/internal/repository"
	icache "MarketRegime/internal/service/cache"
	imetrics "MarketRegime/internal/service/metrics"
	"MarketRegime/internal/service/ratelimit"
	"MarketRegime/internal/service/yahoo"
	"MarketRegime/internal/services/classifier"
	"MarketRegime/internal/services/indicators"
	"MarketRegime/internal/services/triggers"
	"MarketRegime/internal/usecase"
	"MarketRegime/pkg/cache"
	pkgch "MarketRegime/pkg/clickhouse"
	"MarketRegime/pkg/config"
	applogger "MarketRegime/pkg/logger"
	"MarketRegime/pkg/metrics"
	"MarketRegime/pkg/server"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// UpstreamSource is the uncached series source selected by provider.type.
type UpstreamSource interface {
	repository.SeriesSource
}

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideRegistry creates a private Prometheus registry with the Go and process collectors.
func ProvideRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(reg *prometheus.Registry) repository.Metrics {
	return metrics.New(reg)
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.Provider.Timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideUpstreamSource selects the Yahoo chart client or the ClickHouse store.
func ProvideUpstreamSource(cfg *config.Config, l *applogger.Logger) (UpstreamSource, func(), error) {
	switch cfg.Provider.Type {
	case "clickhouse":
		client, err := ProvideClickHouseClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		store, err := internalrepo.NewCHSeriesStore(client.DB(), cfg.ClickHouse.Database, cfg.ClickHouse.Table, l)
		if err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				l.Warn("clickhouse close error", applogger.Error(err))
			}
		}
		return store, cleanup, nil
	default:
		client, err := yahoo.New(yahoo.Options{
			BaseURL:            cfg.Yahoo.BaseURL,
			UserAgent:          cfg.Yahoo.UserAgent,
			Timeout:            cfg.Provider.Timeout,
			MaxAttempts:        cfg.Provider.MaxAttempts,
			RateLimit:          cfg.Provider.RateLimit,
			Burst:              cfg.Provider.Burst,
			BreakerMaxFailures: cfg.Provider.Breaker.MaxFailures,
			BreakerOpenTimeout: cfg.Provider.Breaker.OpenTimeout,
		}, l)
		if err != nil {
			return nil, nil, err
		}
		return client, func() {}, nil
	}
}

// ProvideSeriesCache returns nil when caching is disabled. Redis is layered under
// an in-memory L1 when enabled and reachable; otherwise memory alone is used.
func ProvideSeriesCache(cfg *config.Config, l *applogger.Logger) (cache.Service, func(), error) {
	if !cfg.Cache.Enabled {
		return nil, func() {}, nil
	}

	memOpts := []cache.MemoryOption{
		cache.WithMemoryMaxSize(cfg.Cache.MaxSize),
		cache.WithMemoryDefaultTTL(cfg.Cache.TTL),
	}

	var svc cache.Service
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			l.Warn("redis unavailable, using memory cache", applogger.Error(err))
		} else {
			svc = cache.NewLayeredCache(rc, cfg.Cache.TTL, memOpts...)
		}
	}
	if svc == nil {
		svc = cache.NewMemoryCache(memOpts...)
	}

	cleanup := func() {
		if err := svc.Close(); err != nil {
			l.Warn("cache close error", applogger.Error(err))
		}
	}
	return svc, cleanup, nil
}

// ProvideSeriesSource instruments the upstream and puts the read-through cache in front of it
// when one is configured. Cache hits are not observed as upstream fetches.
func ProvideSeriesSource(cfg *config.Config, up UpstreamSource, c cache.Service, reg *prometheus.Registry, l *applogger.Logger) repository.SeriesSource {
	var src repository.SeriesSource = imetrics.Instrument(up, imetrics.NewUpstreamMetrics(reg))
	if c == nil {
		return src
	}
	return internalrepo.NewCachedSource(src, c, cfg.Cache.TTL, l)
}

// ProvidePriceProvider creates the parallel fetch + align provider.
func ProvidePriceProvider(src repository.SeriesSource, l *applogger.Logger) repository.PriceProvider {
	return internalrepo.NewSeriesProvider(src, l)
}

func ProvideEngine(cfg *config.Config) *indicators.Engine {
	return indicators.NewEngine(cfg.Windows)
}

func ProvideEvaluator(cfg *config.Config) *triggers.Evaluator {
	return triggers.NewEvaluator(cfg.Thresholds)
}

func ProvideClassifier() *classifier.Classifier {
	return classifier.NewClassifier()
}

// ProvideRegimeMonitor creates the evaluation use case.
func ProvideRegimeMonitor(
	cfg *config.Config,
	provider repository.PriceProvider,
	engine *indicators.Engine,
	evaluator *triggers.Evaluator,
	cls *classifier.Classifier,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.RegimeMonitor {
	return usecase.NewRegimeMonitor(usecase.RegimeMonitorParams{
		Provider:   provider,
		Engine:     engine,
		Evaluator:  evaluator,
		Classifier: cls,
		Roles:      cfg.Instruments,
		Period:     repository.Period(cfg.Provider.Period),
		Metrics:    m,
		Logger:     l,
		Timeout:    cfg.Provider.Timeout * 4,
	})
}

// ProvideRegimeHandler creates the Echo handler with report memoization and per-IP throttling.
func ProvideRegimeHandler(cfg *config.Config, monitor *usecase.RegimeMonitor, src repository.SeriesSource, l *applogger.Logger) *api.RegimeEchoHandler {
	h := api.NewRegimeEchoHandler(l, monitor, icache.NewMemoize[*models.Report](cfg.Server.ReportTTL))
	if inv, ok := src.(api.Invalidator); ok {
		h.SetInvalidator(inv)
	}
	h.SetRateLimiter(ratelimit.New(2, 10))
	return h
}

// ProvideApp creates the application.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	monitor *usecase.RegimeMonitor,
	h *api.RegimeEchoHandler,
	reg *prometheus.Registry,
) *server.App {
	return server.New(cfg, l, monitor, h, reg)
}
