package cache

import (
	"context"
	"fmt"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string // none, memory, redis, sqlite
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	Namespace     string
	SQLitePath    string
}

// Open builds the SeriesCache named by opts.Backend.
func Open(ctx context.Context, opts Options) (SeriesCache, error) {
	switch opts.Backend {
	case "", "none":
		return NewNoopCache(), nil
	case "memory":
		return NewMemoryCache(), nil
	case "redis":
		rdb, err := NewRedisClient(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
		if err != nil {
			return nil, err
		}
		return NewRedisCache(rdb, opts.Namespace), nil
	case "sqlite":
		return NewSQLiteCache(opts.SQLitePath)
	default:
		return nil, fmt.Errorf("%q: %w", opts.Backend, ErrUnknownBackend)
	}
}
