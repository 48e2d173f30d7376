package collector

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"MTFSentinel/internal/cache"
	"MTFSentinel/internal/model"
)

// CachedFetcher serves repeated fetches from a SeriesCache until the TTL expires.
// Cache failures degrade to a direct fetch.
type CachedFetcher struct {
	inner Fetcher
	store cache.SeriesCache
	ttl   time.Duration
}

func NewCachedFetcher(inner Fetcher, store cache.SeriesCache, ttl time.Duration) *CachedFetcher {
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}
	return &CachedFetcher{inner: inner, store: store, ttl: ttl}
}

func (f *CachedFetcher) Name() string { return f.inner.Name() }

func (f *CachedFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	key := cache.Key(f.inner.Name(), symbol, interval, limit)

	bars, ok, err := f.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("series cache read failed")
	} else if ok {
		log.Debug().Str("key", key).Int("bars", len(bars)).Msg("series cache hit")
		return bars, nil
	}

	bars, err = f.inner.FetchBars(ctx, symbol, interval, limit)
	if err != nil {
		return nil, err
	}
	// Empty results are not cached so the next call retries upstream.
	if len(bars) > 0 {
		if err := f.store.Set(ctx, key, bars, f.ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("series cache write failed")
		}
	}
	return bars, nil
}
