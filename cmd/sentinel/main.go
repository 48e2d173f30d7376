package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"MTFSentinel/internal/api"
	"MTFSentinel/internal/cache"
	"MTFSentinel/internal/collector"
	"MTFSentinel/internal/config"
	"MTFSentinel/internal/notifier"
	"MTFSentinel/internal/scheduler"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Warn().Err(err).Msg("load .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	setupLogger(cfg.Log.Level, cfg.Log.Format)
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	log.Info().Str("symbol", cfg.DataSource.Symbol).Msg("MTFSentinel starting")

	// Context for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Data source: provider, rate limit, cache
	fetcher := newFetcher(cfg)
	log.Info().Str("source", fetcher.Name()).Msg("data source selected")
	store, err := cache.Open(ctx, cfg.CacheOptions())
	if err != nil {
		log.Warn().Err(err).Str("backend", cfg.Cache.Backend).Msg("open series cache failed, caching disabled")
		store = cache.NoopCache{}
	}
	defer store.Close()
	var src collector.Fetcher = collector.NewRateLimitedFetcher(fetcher, cfg.DataSource.RatePerMinute)
	src = collector.NewCachedFetcher(src, store, cfg.Cache.TTL)

	col := collector.NewCollector(src, cfg.DataSource.Symbol, cfg.Signal)
	col.Interval = cfg.DataSource.Interval
	col.Limit = cfg.DataSource.Limit
	col.MinBars = cfg.DataSource.MinBars
	col.Timeout = cfg.DataSource.Timeout

	// Notifier is optional; without it reports are only logged
	var sender scheduler.Sender
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.APIBase, cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		sender = tn
	} else {
		log.Warn().Msg("telegram not configured, reports will only be logged")
	}

	sched := scheduler.NewScheduler(ctx, col, sender, cfg.DataSource.Symbol, fetcher.Name(), cfg.Signal.ExecRule, cfg.Signal.FilterRule)
	if err := sched.Register(cfg.Schedule.MonitorCron); err != nil {
		log.Fatal().Err(err).Msg("register monitor task")
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, running monitor now")
		go sched.RunNow()
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.NewSignalHandler(col, cfg.Signal))
	if err := api.Serve(ctx, cfg.HTTP.Addr, router); err != nil {
		log.Error().Err(err).Msg("http server")
	}

	log.Info().Msg("MTFSentinel stopped")
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case config.ProviderMock:
		return &collector.MockFetcher{Price: 100, End: time.Now().UTC().Truncate(time.Minute)}
	case config.ProviderYahoo:
		f := collector.NewYahooFetcher(cfg.Proxy)
		if ds.BaseURL != "" {
			f.BaseURL = ds.BaseURL
		}
		return f
	case config.ProviderREST:
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy)
	case config.ProviderTwelveData:
		return collector.NewTwelveDataFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy)
	default:
		return collector.NewEODHDFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy)
	}
}

func setupLogger(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	if format == "json" {
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
}
