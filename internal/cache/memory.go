package cache

import (
	"context"
	"sync"
	"time"

	"MTFSentinel/internal/model"
)

type memEntry struct {
	bars    []model.OHLCV
	expires time.Time
}

// MemoryCache is an in-process SeriesCache. Expired entries are dropped on read.
type MemoryCache struct {
	mu      sync.Mutex
	entries map[string]memEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]memEntry), now: time.Now}
}

func (c *MemoryCache) Get(_ context.Context, key string) ([]model.OHLCV, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false, nil
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return nil, false, nil
	}
	return append([]model.OHLCV(nil), e.bars...), true, nil
}

func (c *MemoryCache) Set(_ context.Context, key string, bars []model.OHLCV, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = memEntry{bars: append([]model.OHLCV(nil), bars...), expires: c.now().Add(ttl)}
	return nil
}

// Len returns the number of entries, expired or not.
func (c *MemoryCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *MemoryCache) Close() error { return nil }
