package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"

	"MTFSentinel/internal/model"
)

// SQLiteCache persists series in a local SQLite file so the cache survives restarts.
type SQLiteCache struct {
	db  *sql.DB
	mu  sync.Mutex
	now func() time.Time
}

// NewSQLiteCache opens (or creates) the database, enables WAL and purges expired rows.
func NewSQLiteCache(dbPath string) (*SQLiteCache, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dbPath != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &SQLiteCache{db: db, now: time.Now}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if n, err := c.Purge(context.Background()); err != nil {
		log.Warn().Err(err).Msg("purge expired series failed")
	} else if n > 0 {
		log.Info().Int64("rows", n).Msg("purged expired series")
	}

	log.Info().Str("path", dbPath).Msg("sqlite cache opened")
	return c, nil
}

func (c *SQLiteCache) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS series_cache (
			key        TEXT PRIMARY KEY,
			payload    BLOB NOT NULL,
			bars       INTEGER NOT NULL,
			created_at INTEGER NOT NULL,
			expires_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_series_expires ON series_cache(expires_at)`,
	}
	for _, s := range stmts {
		if _, err := c.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (c *SQLiteCache) Get(ctx context.Context, key string) ([]model.OHLCV, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var payload []byte
	var expires int64
	err := c.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM series_cache WHERE key = ?`, key,
	).Scan(&payload, &expires)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("select %s: %w", key, err)
	}
	if c.now().UnixNano() >= expires {
		if _, err := c.db.ExecContext(ctx, `DELETE FROM series_cache WHERE key = ?`, key); err != nil {
			return nil, false, fmt.Errorf("delete expired %s: %w", key, err)
		}
		return nil, false, nil
	}

	var bars []model.OHLCV
	if err := json.Unmarshal(payload, &bars); err != nil {
		return nil, false, fmt.Errorf("decode %s: %w", key, err)
	}
	return bars, true, nil
}

func (c *SQLiteCache) Set(ctx context.Context, key string, bars []model.OHLCV, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	payload, err := json.Marshal(bars)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	_, err = c.db.ExecContext(ctx, `INSERT INTO series_cache (key, payload, bars, created_at, expires_at)
		VALUES (?,?,?,?,?)
		ON CONFLICT(key) DO UPDATE SET
			payload = excluded.payload,
			bars = excluded.bars,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at`,
		key, payload, len(bars), now.UnixNano(), now.Add(ttl).UnixNano(),
	)
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

// Purge deletes expired rows and returns how many were removed.
func (c *SQLiteCache) Purge(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	res, err := c.db.ExecContext(ctx, `DELETE FROM series_cache WHERE expires_at <= ?`, c.now().UnixNano())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (c *SQLiteCache) Close() error {
	log.Info().Msg("closing sqlite cache")
	return c.db.Close()
}
