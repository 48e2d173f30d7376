package cache

import (
	"context"
	"time"

	"MTFSentinel/internal/model"
)

// NoopCache never stores anything. Used when caching is disabled.
type NoopCache struct{}

func NewNoopCache() *NoopCache { return &NoopCache{} }

func (NoopCache) Get(context.Context, string) ([]model.OHLCV, bool, error) { return nil, false, nil }
func (NoopCache) Set(context.Context, string, []model.OHLCV, time.Duration) error {
	return nil
}
func (NoopCache) Close() error { return nil }
