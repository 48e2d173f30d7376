package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"MTFSentinel/internal/cache"
	"MTFSentinel/internal/calculator"
	"MTFSentinel/internal/strategy"
)

// Providers understood by data_source.provider.
const (
	ProviderMock       = "mock"
	ProviderEODHD      = "eodhd"
	ProviderYahoo      = "yahoo"
	ProviderREST       = "rest"
	ProviderTwelveData = "twelvedata"
)

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider      string        `yaml:"provider"`
		BaseURL       string        `yaml:"base_url"`
		APIKey        string        `yaml:"api_key"`
		Symbol        string        `yaml:"symbol"`
		Interval      string        `yaml:"interval"`
		Limit         int           `yaml:"limit"`
		MinBars       int           `yaml:"min_bars"`
		RatePerMinute int           `yaml:"rate_per_minute"`
		Timeout       time.Duration `yaml:"timeout"`
	} `yaml:"data_source"`
	Signal strategy.Params `yaml:"signal"`
	Cache  struct {
		Backend       string        `yaml:"backend"`
		TTL           time.Duration `yaml:"ttl"`
		RedisAddr     string        `yaml:"redis_addr"`
		RedisPassword string        `yaml:"redis_password"`
		RedisDB       int           `yaml:"redis_db"`
		Namespace     string        `yaml:"namespace"`
		SQLitePath    string        `yaml:"sqlite_path"`
	} `yaml:"cache"`
	Schedule struct {
		MonitorCron string `yaml:"monitor_cron"`
	} `yaml:"schedule"`
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
		APIBase  string `yaml:"api_base"`
	} `yaml:"telegram"`
	HTTP struct {
		Addr string `yaml:"addr"`
	} `yaml:"http"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"` // console or json
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// LoadDotEnv loads KEY=VALUE files into the environment. Missing files are skipped;
// variables already set win over the file.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads config from a YAML file, then applies environment variable overrides and defaults.
// A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{Signal: strategy.DefaultParams()}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	envString("DATA_SOURCE", &cfg.DataSource.Provider)
	envString("DATA_BASE_URL", &cfg.DataSource.BaseURL)
	envString("DATA_API_KEY", &cfg.DataSource.APIKey)
	envString("EODHD_API_KEY", &cfg.DataSource.APIKey)
	envString("SYMBOL", &cfg.DataSource.Symbol)
	envInt("RATE_PER_MINUTE", &cfg.DataSource.RatePerMinute)
	envString("EXEC_RULE", &cfg.Signal.ExecRule)
	envString("FILTER_RULE", &cfg.Signal.FilterRule)
	envString("CACHE_BACKEND", &cfg.Cache.Backend)
	envString("REDIS_ADDR", &cfg.Cache.RedisAddr)
	envString("REDIS_PASSWORD", &cfg.Cache.RedisPassword)
	envString("SQLITE_PATH", &cfg.Cache.SQLitePath)
	envString("MONITOR_CRON", &cfg.Schedule.MonitorCron)
	envString("TELEGRAM_BOT_TOKEN", &cfg.Telegram.BotToken)
	envString("TELEGRAM_CHAT_ID", &cfg.Telegram.ChatID)
	envString("HTTP_ADDR", &cfg.HTTP.Addr)
	envString("LOG_LEVEL", &cfg.Log.Level)
	envString("LOG_FORMAT", &cfg.Log.Format)
	envString("HTTPS_PROXY", &cfg.Proxy)

	// Defaults
	ds := &cfg.DataSource
	if ds.Provider == "" {
		ds.Provider = ProviderEODHD
	}
	if ds.Symbol == "" {
		ds.Symbol = "AAPL.US"
	}
	if ds.Interval == "" {
		ds.Interval = "1m"
	}
	if ds.Limit == 0 {
		ds.Limit = 5000
	}
	if ds.MinBars == 0 {
		ds.MinBars = 200
	}
	if ds.Timeout == 0 {
		ds.Timeout = 45 * time.Second
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.TTL == 0 {
		cfg.Cache.TTL = cache.DefaultTTL
	}
	if cfg.Cache.RedisAddr == "" {
		cfg.Cache.RedisAddr = "localhost:6379"
	}
	if cfg.Cache.Namespace == "" {
		cfg.Cache.Namespace = "mtf"
	}
	if cfg.Cache.SQLitePath == "" {
		cfg.Cache.SQLitePath = "data/series_cache.db"
	}
	if cfg.Schedule.MonitorCron == "" {
		cfg.Schedule.MonitorCron = "0 */15 * * * *"
	}
	if cfg.Telegram.APIBase == "" {
		cfg.Telegram.APIBase = "https://api.telegram.org"
	}
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	return cfg, nil
}

// Validate checks cross-field requirements.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case ProviderMock, ProviderEODHD, ProviderYahoo:
	case ProviderREST:
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for provider %q", ProviderREST)
		}
	case ProviderTwelveData:
		if c.DataSource.APIKey == "" {
			return fmt.Errorf("data_source.api_key is required for provider %q", ProviderTwelveData)
		}
	default:
		return fmt.Errorf("data_source.provider %q is not supported", c.DataSource.Provider)
	}
	if c.DataSource.Limit < c.DataSource.MinBars {
		return fmt.Errorf("data_source.limit %d is below min_bars %d", c.DataSource.Limit, c.DataSource.MinBars)
	}
	if err := c.Signal.Validate(); err != nil {
		return fmt.Errorf("signal: %w", err)
	}
	for _, rule := range []string{c.Signal.ExecRule, c.Signal.FilterRule} {
		if _, err := calculator.ParseRule(rule); err != nil {
			return fmt.Errorf("signal: %w", err)
		}
	}
	switch c.Cache.Backend {
	case "none", "memory", "redis", "sqlite":
	default:
		return fmt.Errorf("cache.backend %q: %w", c.Cache.Backend, cache.ErrUnknownBackend)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format %q must be console or json", c.Log.Format)
	}
	return nil
}

// TelegramEnabled reports whether a bot token and chat are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}

// CacheOptions maps the cache section onto cache.Options.
func (c *Config) CacheOptions() cache.Options {
	return cache.Options{
		Backend:       c.Cache.Backend,
		RedisAddr:     c.Cache.RedisAddr,
		RedisPassword: c.Cache.RedisPassword,
		RedisDB:       c.Cache.RedisDB,
		Namespace:     c.Cache.Namespace,
		SQLitePath:    c.Cache.SQLitePath,
	}
}

func envString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}
