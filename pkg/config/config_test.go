package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"MarketRegime/internal/domain/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultMatchesStandardSetup(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Equal(t, models.DefaultRoles(), c.Instruments)
	assert.Equal(t, models.DefaultThresholds(), c.Thresholds)
	assert.Equal(t, models.DefaultWindows(), c.Windows)
	assert.Equal(t, "2y", c.Provider.Period)
	assert.Equal(t, "yahoo", c.Provider.Type)
	assert.Equal(t, 15*time.Second, c.Provider.Timeout)
	require.NoError(t, c.Validate())
}

func TestLoadMergesFileOverDefaults(t *testing.T) {
	path := writeConfig(t, `
environment: production
thresholds:
  distortion: 0.2
windows:
  credit_lookback: 30
instruments:
  funding: CHF=X
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "production", c.Environment)
	assert.Equal(t, 0.2, c.Thresholds.Distortion)
	assert.Equal(t, -0.03, c.Thresholds.FundingShock)
	assert.Equal(t, 30, c.Windows.CreditLookback)
	assert.Equal(t, 200, c.Windows.DistortionBaseline)
	assert.Equal(t, "CHF=X", c.Instruments.Funding)
	assert.Equal(t, "XLG", c.Instruments.DistortionNumerator)
}

func TestLoadKeepsExplicitZeroAndFalse(t *testing.T) {
	path := writeConfig(t, `
cache:
  enabled: false
metrics:
  enabled: false
thresholds:
  low_tolerance: 0
  distortion: 0
`)
	c, err := Load(path)
	require.NoError(t, err)

	assert.False(t, c.Cache.Enabled)
	assert.False(t, c.Metrics.Enabled)
	assert.Equal(t, 0.0, c.Thresholds.LowTolerance)
	assert.Equal(t, 0.0, c.Thresholds.Distortion)
	// untouched siblings keep their defaults
	assert.Equal(t, time.Hour, c.Cache.TTL)
	assert.Equal(t, "/metrics", c.Metrics.Path)
	assert.Equal(t, -0.03, c.Thresholds.FundingShock)
	require.NoError(t, c.Validate())
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "development", c.Environment)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	_, err := Load(writeConfig(t, "thresholds: [oops"))
	assert.Error(t, err)
}

func TestApplyEnvOverrides(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	env := map[string]string{
		"REGIME_DISTORTION_THRESHOLD": "0.1",
		"REGIME_CREDIT_LOOKBACK":      "25",
		"REGIME_INSTRUMENTS":          "QQQ,QQQE,JNK,TLT,^NDX,CHF=X",
		"REGIME_PROVIDER":             "clickhouse",
	}
	require.NoError(t, c.applyEnv(func(k string) string { return env[k] }))

	assert.Equal(t, 0.1, c.Thresholds.Distortion)
	assert.Equal(t, 25, c.Windows.CreditLookback)
	assert.Equal(t, "QQQ", c.Instruments.DistortionNumerator)
	assert.Equal(t, "CHF=X", c.Instruments.Funding)
	assert.Equal(t, "clickhouse", c.Provider.Type)
}

func TestApplyEnvRejectsMalformedValues(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	env := map[string]string{
		"REGIME_LOW_TOLERANCE":   "abc",
		"REGIME_CREDIT_LOOKBACK": "twenty",
		"REGIME_INSTRUMENTS":     "QQQ,QQQE,JNK",
	}
	err = c.applyEnv(func(k string) string { return env[k] })
	require.Error(t, err)
	assert.ErrorContains(t, err, "REGIME_LOW_TOLERANCE")
	assert.ErrorContains(t, err, "REGIME_CREDIT_LOOKBACK")
	assert.ErrorContains(t, err, "REGIME_INSTRUMENTS")

	assert.Equal(t, 0.0001, c.Thresholds.LowTolerance)
	assert.Equal(t, models.DefaultRoles(), c.Instruments)
}

func TestLoadWithEnvRejectsMalformedOverride(t *testing.T) {
	t.Setenv("REGIME_LOW_TOLERANCE", "abc")
	_, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	assert.ErrorContains(t, err, "REGIME_LOW_TOLERANCE")
}

func TestValidate(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	c.Provider.Type = "bloomberg"
	assert.Error(t, c.Validate())

	c.Provider.Type = "yahoo"
	c.Instruments.CreditDenominator = c.Instruments.CreditNumerator
	assert.ErrorContains(t, c.Validate(), "credit numerator")

	c.Instruments = models.DefaultRoles()
	c.Thresholds.LowTolerance = -1
	assert.Error(t, c.Validate())
}

func TestLoadWithEnvValidates(t *testing.T) {
	t.Setenv("REGIME_PERIOD", "3w")
	_, err := LoadWithEnv(writeConfig(t, "environment: test\n"))
	assert.Error(t, err)
}
