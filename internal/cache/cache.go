// Package cache holds fetched price series for a short TTL so repeated analyses
// of the same symbol do not hit the upstream data source.
package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"MTFSentinel/internal/model"
)

// DefaultTTL matches the refresh cadence of a 1-minute feed polled by a human.
const DefaultTTL = 10 * time.Minute

// ErrUnknownBackend is returned by Open for an unsupported backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// SeriesCache stores bars under a string key until the TTL expires.
type SeriesCache interface {
	Get(ctx context.Context, key string) ([]model.OHLCV, bool, error)
	Set(ctx context.Context, key string, bars []model.OHLCV, ttl time.Duration) error
	Close() error
}

// Key builds the cache key for one fetch: source:symbol:interval:limit.
func Key(source, symbol, interval string, limit int) string {
	return fmt.Sprintf("%s:%s:%s:%d", safe(source), safe(symbol), safe(interval), limit)
}

// safe replaces characters that would break the colon-separated key layout.
func safe(s string) string {
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, ":", "_")
	return s
}
