package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteCache {
	t.Helper()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "series.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestSQLiteCache_RoundTrip(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "k", sampleBars(), time.Hour))
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assertBars(t, sampleBars(), got)

	// Upsert replaces the payload.
	require.NoError(t, c.Set(ctx, "k", sampleBars()[:1], time.Hour))
	got, _, err = c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestSQLiteCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := newTestSQLite(t)
	now := t0
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "a", sampleBars(), time.Minute))
	require.NoError(t, c.Set(ctx, "b", sampleBars(), time.Hour))

	now = now.Add(2 * time.Minute)
	_, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = c.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	n, err := c.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestSQLiteCache_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "series.db")

	c, err := NewSQLiteCache(path)
	require.NoError(t, err)
	require.NoError(t, c.Set(ctx, "k", sampleBars(), time.Hour))
	require.NoError(t, c.Close())

	c, err = NewSQLiteCache(path)
	require.NoError(t, err)
	defer c.Close()
	got, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assertBars(t, sampleBars(), got)
}
