//go:build wireinject
// +build wireinject

package di

import (
	"MarketRegime/pkg/config"
	"MarketRegime/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire will generate the implementation of this function.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Ambient
		ProvideLogger,
		ProvideRegistry,
		ProvideMetrics,

		// Market data
		ProvideUpstreamSource,
		ProvideSeriesCache,
		ProvideSeriesSource,
		ProvidePriceProvider,

		// Pipeline
		ProvideEngine,
		ProvideEvaluator,
		ProvideClassifier,
		ProvideRegimeMonitor,

		// HTTP + application
		ProvideRegimeHandler,
		ProvideApp,
	)
	return nil, nil, nil
}
