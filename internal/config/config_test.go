package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MTFSentinel/internal/cache"
	"MTFSentinel/internal/strategy"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ProviderEODHD, cfg.DataSource.Provider)
	assert.Equal(t, "AAPL.US", cfg.DataSource.Symbol)
	assert.Equal(t, "1m", cfg.DataSource.Interval)
	assert.Equal(t, 200, cfg.DataSource.MinBars)
	assert.Equal(t, strategy.DefaultParams(), cfg.Signal)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, cache.DefaultTTL, cfg.Cache.TTL)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAMLKeepsUnsetSignalDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
data_source:
  provider: yahoo
  symbol: SPX
  timeout: 10s
signal:
  exec_rule: 5T
  filter_rule: 60T
  fibo_tolerance: 1
  indicators:
    ema_slow: 100
cache:
  backend: sqlite
  ttl: 2m
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ProviderYahoo, cfg.DataSource.Provider)
	assert.Equal(t, 10*time.Second, cfg.DataSource.Timeout)
	assert.Equal(t, "5T", cfg.Signal.ExecRule)
	assert.Equal(t, "60T", cfg.Signal.FilterRule)
	assert.Equal(t, 1, cfg.Signal.FiboTolerance)
	assert.Equal(t, 100, cfg.Signal.Indicators.EMASlow)
	assert.Equal(t, 50, cfg.Signal.Indicators.EMAFast)
	assert.True(t, cfg.Signal.UseDivergence)
	assert.Equal(t, []int{3, 5, 8, 13, 21}, cfg.Signal.FiboSet)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "sqlite", cfg.CacheOptions().Backend)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeFile(t, "config.yaml", "data_source:\n  symbol: SPX\n")
	t.Setenv("SYMBOL", "BTC-USD.CC")
	t.Setenv("EODHD_API_KEY", "env-key")
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok")
	t.Setenv("TELEGRAM_CHAT_ID", "42")
	t.Setenv("RATE_PER_MINUTE", "30")
	t.Setenv("EXEC_RULE", "10T")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "BTC-USD.CC", cfg.DataSource.Symbol)
	assert.Equal(t, "env-key", cfg.DataSource.APIKey)
	assert.Equal(t, 30, cfg.DataSource.RatePerMinute)
	assert.Equal(t, "10T", cfg.Signal.ExecRule)
	assert.True(t, cfg.TelegramEnabled())
}

func TestLoad_BadYAML(t *testing.T) {
	_, err := Load(writeFile(t, "config.yaml", "data_source: [unclosed"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.DataSource.Provider = "bloomberg" }},
		{"rest without base url", func(c *Config) { c.DataSource.Provider = ProviderREST }},
		{"twelvedata without key", func(c *Config) { c.DataSource.Provider = ProviderTwelveData }},
		{"limit below min bars", func(c *Config) { c.DataSource.Limit = 100 }},
		{"bad exec rule", func(c *Config) { c.Signal.ExecRule = "15Q" }},
		{"zero ema span", func(c *Config) { c.Signal.Indicators.EMASlow = 0 }},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "etcd" }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "tok" }},
		{"log format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", "MTF_DOTENV_PROBE=loaded\n")
	t.Setenv("MTF_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("MTF_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "missing.env"), path))
	assert.Equal(t, "loaded", os.Getenv("MTF_DOTENV_PROBE"))
}
