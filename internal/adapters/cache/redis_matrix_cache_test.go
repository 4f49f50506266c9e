package cache

import (
	"context"
	"testing"
	"time"
	"vrptw-route-service/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T, ttl time.Duration) (*RedisMatrixCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisMatrixCache(rdb, ttl), mr
}

func TestRedisMatrixCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, _ := newRedisCache(t, 0)

	_, ok, err := c.Get(ctx, "matrix:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	m := domain.DistanceMatrix{{0, 1.5}, {1.5, 0}}
	require.NoError(t, c.Put(ctx, "matrix:a", m))

	got, ok, err := c.Get(ctx, "matrix:a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, m, got)
}

func TestRedisMatrixCacheExpires(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, time.Minute)

	require.NoError(t, c.Put(ctx, "matrix:b", domain.DistanceMatrix{{0}}))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "matrix:b")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisMatrixCacheRejectsCorruptEntries(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t, 0)

	mr.HSet("matrix:c", "size", "3", "payload", "[[0]]")
	_, _, err := c.Get(ctx, "matrix:c")
	assert.ErrorIs(t, err, domain.ErrDimensionMismatch)

	assert.Error(t, c.Put(ctx, " ", domain.DistanceMatrix{{0}}))
}
