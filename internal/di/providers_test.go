package di

import (
	"testing"
	"time"

	internalrepo "MarketRegime/internal/repository"
	imetrics "MarketRegime/internal/service/metrics"
	"MarketRegime/internal/service/yahoo"
	"MarketRegime/pkg/cache"
	"MarketRegime/pkg/config"
	applogger "MarketRegime/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Default()
	require.NoError(t, err)
	return cfg
}

func TestProvideSeriesCache_DisabledReturnsNil(t *testing.T) {
	cfg := testConfig(t)
	cfg.Cache.Enabled = false

	c, cleanup, err := ProvideSeriesCache(cfg, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.Nil(t, c)
}

func TestProvideSeriesCache_MemoryWithoutRedis(t *testing.T) {
	cfg := testConfig(t)

	c, cleanup, err := ProvideSeriesCache(cfg, applogger.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &cache.MemoryCache{}, c)
}

func TestProvideSeriesSource_Layering(t *testing.T) {
	cfg := testConfig(t)
	l := applogger.Nop()

	up, cleanup, err := ProvideUpstreamSource(cfg, l)
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &yahoo.Client{}, up)

	plain := ProvideSeriesSource(cfg, up, nil, ProvideRegistry(), l)
	assert.IsType(t, &imetrics.InstrumentedSource{}, plain)
	assert.Equal(t, "yahoo", plain.Name())

	mc := cache.NewMemoryCache()
	defer mc.Close()
	cached := ProvideSeriesSource(cfg, up, mc, ProvideRegistry(), l)
	assert.IsType(t, &internalrepo.CachedSource{}, cached)
}

func TestProvideUpstreamSource_ClickHouseUnreachable(t *testing.T) {
	cfg := testConfig(t)
	cfg.Provider.Type = "clickhouse"
	cfg.ClickHouse.Host = "127.0.0.1"
	cfg.ClickHouse.Port = 1
	cfg.ClickHouse.DialTimeout = 200 * time.Millisecond

	_, _, err := ProvideUpstreamSource(cfg, applogger.Nop())
	require.Error(t, err)
}
