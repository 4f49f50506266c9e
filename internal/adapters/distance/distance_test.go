package distance

import (
	"context"
	"errors"
	"sync"
	"testing"
	"vrptw-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu     sync.Mutex
	m      map[string]domain.DistanceMatrix
	getErr error
}

func (c *memoryCache) Get(_ context.Context, key string) (domain.DistanceMatrix, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	m, ok := c.m[key]
	return m, ok, nil
}

func (c *memoryCache) Put(_ context.Context, key string, m domain.DistanceMatrix) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.m == nil {
		c.m = map[string]domain.DistanceMatrix{}
	}
	c.m[key] = m
	return nil
}

func TestEuclideanProviderMatrix(t *testing.T) {
	points := []domain.Point{{X: 0, Y: 0}, {X: 3, Y: 4}, {X: 0, Y: 10}}

	m, err := NewEuclideanProvider().Matrix(context.Background(), points)
	require.NoError(t, err)
	require.NoError(t, m.Validate())

	assert.InDelta(t, 5.0, m.At(0, 1), 1e-12)
	assert.InDelta(t, 10.0, m.At(0, 2), 1e-12)
	assert.Equal(t, m.At(1, 2), m.At(2, 1))

	_, err = NewEuclideanProvider().Matrix(context.Background(), nil)
	assert.Error(t, err)
}

func TestCachedProviderUsesCache(t *testing.T) {
	ctx := context.Background()
	points := []domain.Point{{X: 0, Y: 0}, {X: 1, Y: 0}}
	inner := NewStaticProvider(domain.DistanceMatrix{{0, 1}, {1, 0}})
	cache := &memoryCache{}

	p, err := NewCachedProvider(inner, cache)
	require.NoError(t, err)

	first, err := p.Matrix(ctx, points)
	require.NoError(t, err)
	second, err := p.Matrix(ctx, points)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.Calls())
	assert.Len(t, cache.m, 1)
}

func TestCachedProviderToleratesCacheErrors(t *testing.T) {
	inner := NewStaticProvider(domain.DistanceMatrix{{0}})
	p, err := NewCachedProvider(inner, &memoryCache{getErr: errors.New("down")})
	require.NoError(t, err)

	m, err := p.Matrix(context.Background(), []domain.Point{{}})
	require.NoError(t, err)
	assert.Equal(t, domain.DistanceMatrix{{0}}, m)
}

func TestMatrixKeyIsOrderSensitive(t *testing.T) {
	a := []domain.Point{{X: 1, Y: 2}, {X: 3, Y: 4}}
	b := []domain.Point{{X: 3, Y: 4}, {X: 1, Y: 2}}

	assert.Equal(t, MatrixKey(a), MatrixKey(append([]domain.Point(nil), a...)))
	assert.NotEqual(t, MatrixKey(a), MatrixKey(b))
}
