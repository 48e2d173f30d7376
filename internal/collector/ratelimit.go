package collector

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"MTFSentinel/internal/model"
)

// RateLimitedFetcher throttles an upstream to a fixed number of requests per minute.
type RateLimitedFetcher struct {
	inner   Fetcher
	limiter *rate.Limiter
}

// NewRateLimitedFetcher allows perMinute requests with a burst of one.
// A non-positive perMinute disables throttling.
func NewRateLimitedFetcher(inner Fetcher, perMinute int) *RateLimitedFetcher {
	limit := rate.Inf
	if perMinute > 0 {
		limit = rate.Limit(float64(perMinute) / 60)
	}
	return &RateLimitedFetcher{inner: inner, limiter: rate.NewLimiter(limit, 1)}
}

func (f *RateLimitedFetcher) Name() string { return f.inner.Name() }

func (f *RateLimitedFetcher) FetchBars(ctx context.Context, symbol, interval string, limit int) ([]model.OHLCV, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s rate limit: %w", f.inner.Name(), err)
	}
	return f.inner.FetchBars(ctx, symbol, interval, limit)
}
