package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"MTFSentinel/internal/model"
)

// NewRedisClient connects and pings the server.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	log.Info().Str("addr", addr).Int("db", db).Msg("redis cache connected")
	return rdb, nil
}

// RedisCache stores series as JSON values with a native Redis TTL.
type RedisCache struct {
	rdb       *redis.Client
	namespace string
}

// NewRedisCache wraps rdb. An empty namespace defaults to "series".
func NewRedisCache(rdb *redis.Client, namespace string) *RedisCache {
	if namespace == "" {
		namespace = "series"
	}
	return &RedisCache{rdb: rdb, namespace: namespace}
}

func (c *RedisCache) key(k string) string { return c.namespace + ":" + k }

func (c *RedisCache) Get(ctx context.Context, key string) ([]model.OHLCV, bool, error) {
	b, err := c.rdb.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var bars []model.OHLCV
	if err := json.Unmarshal(b, &bars); err != nil {
		// Corrupted entry: drop it and report a miss.
		_ = c.rdb.Del(ctx, c.key(key)).Err()
		log.Warn().Err(err).Str("key", key).Msg("dropped corrupted cache entry")
		return nil, false, nil
	}
	return bars, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, bars []model.OHLCV, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	b, err := json.Marshal(bars)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}
	if err := c.rdb.Set(ctx, c.key(key), b, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) Close() error { return c.rdb.Close() }
