package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.Strategy.MAShort)
	assert.Equal(t, 7, cfg.Strategy.MALong)
	assert.Equal(t, 2, cfg.Strategy.MinSignals)
	assert.False(t, cfg.Strategy.ShortAlts)
	assert.InDelta(t, 0.3, cfg.Strategy.BaselineHedge, 1e-12)
	assert.Equal(t, 14, cfg.Strategy.StopLookback)
	assert.InDelta(t, 3.0, cfg.Strategy.ATRMult, 1e-12)
	assert.InDelta(t, 2.5, cfg.Strategy.VolMult, 1e-12)

	assert.InDelta(t, 100000.0, cfg.Playbook.PortfolioValue, 1e-12)
	assert.Equal(t, 10, cfg.Playbook.TopN)

	assert.Equal(t, "BTC", cfg.Data.BaselineName)
	assert.Equal(t, "bitcoin", cfg.Data.BaselineCoinID)
	assert.Equal(t, 100, cfg.Data.TopN)
	assert.Equal(t, "usd", cfg.Data.VsCurrency)
	assert.Equal(t, 365, cfg.Data.Days)
	assert.Equal(t, 250*time.Millisecond, cfg.Data.RequestDelay)
	assert.True(t, cfg.Data.Resume)

	assert.Equal(t, 30*time.Second, cfg.Insights.Timeout)

	require.NoError(t, cfg.Validate())
}

func TestValidateRejections(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"short >= long", func(c *Config) { c.Strategy.MAShort = 7 }, "ma_short"},
		{"zero ma window", func(c *Config) { c.Strategy.MALong = 0 }, "positive"},
		{"min_signals zero", func(c *Config) { c.Strategy.MinSignals = 0 }, "min_signals"},
		{"min_signals four", func(c *Config) { c.Strategy.MinSignals = 4 }, "min_signals"},
		{"hedge above one", func(c *Config) { c.Strategy.BaselineHedge = 1.5 }, "baseline_hedge"},
		{"negative hedge", func(c *Config) { c.Strategy.BaselineHedge = -0.1 }, "baseline_hedge"},
		{"zero stop lookback", func(c *Config) { c.Strategy.StopLookback = 0 }, "stop_lookback"},
		{"zero atr mult", func(c *Config) { c.Strategy.ATRMult = 0 }, "atr_mult"},
		{"zero portfolio", func(c *Config) { c.Playbook.PortfolioValue = 0 }, "portfolio_value"},
		{"missing baseline", func(c *Config) { c.Data.BaselineName = "" }, "baseline_name"},
		{"missing vs currency", func(c *Config) { c.Data.VsCurrency = "" }, "vs_currency"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "log level"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "log format"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errMsg)
		})
	}
}

func TestLoadConfigCreatesDefaultWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Strategy.MALong)

	// The default file was written and loads back identically.
	_, err = os.Stat(path)
	require.NoError(t, err)
	again, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg.Strategy, again.Strategy)
}

func TestLoadConfigJSONOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{"strategy": {"ma_short": 5, "ma_long": 21, "min_signals": 3}}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Strategy.MAShort)
	assert.Equal(t, 21, cfg.Strategy.MALong)
	assert.Equal(t, 3, cfg.Strategy.MinSignals)
	// Untouched sections keep their defaults.
	assert.Equal(t, "BTC", cfg.Data.BaselineName)
}

func TestLoadConfigYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "strategy:\n  ma_short: 4\n  ma_long: 9\nplaybook:\n  portfolio_value: 25000\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Strategy.MAShort)
	assert.Equal(t, 9, cfg.Strategy.MALong)
	assert.InDelta(t, 25000.0, cfg.Playbook.PortfolioValue, 1e-12)
}

func TestLoadConfigRejectsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"strategy": {"ma_short": 10}}`), 0644))

	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ma_short")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PORTFOLIO_VALUE", "50000")
	t.Setenv("SHORT_ALTS", "true")
	t.Setenv("LOG_LEVEL", "debug")

	path := filepath.Join(t.TempDir(), "config.json")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.InDelta(t, 50000.0, cfg.Playbook.PortfolioValue, 1e-12)
	assert.True(t, cfg.Strategy.ShortAlts)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CM_TEST_STR", "hello")
	t.Setenv("CM_TEST_BOOL", "1")
	t.Setenv("CM_TEST_FLOAT", "1.5")
	t.Setenv("CM_TEST_INT", "42")

	assert.Equal(t, "hello", GetEnv("CM_TEST_STR", "fallback"))
	assert.Equal(t, "fallback", GetEnv("CM_TEST_MISSING", "fallback"))
	assert.True(t, GetEnvBool("CM_TEST_BOOL", false))
	assert.InDelta(t, 1.5, GetEnvFloat("CM_TEST_FLOAT", 0), 1e-12)
	assert.Equal(t, 42, GetEnvInt("CM_TEST_INT", 0))
	assert.Equal(t, 7, GetEnvInt("CM_TEST_MISSING", 7))
}
