package distance

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"math"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/metrics"
	"vrptw-route-service/internal/platform/obs"
	"vrptw-route-service/internal/ports"
)

// CachedProvider wraps a MatrixProvider with a persistent MatrixCache.
//
// Matrices are keyed by a digest of the ordered coordinate list. Cache
// failures are logged and never fail the lookup; the inner provider is
// the source of truth.
type CachedProvider struct {
	inner ports.MatrixProvider
	cache ports.MatrixCache
}

func NewCachedProvider(inner ports.MatrixProvider, cache ports.MatrixCache) (*CachedProvider, error) {
	if inner == nil {
		return nil, errors.New("cached provider: inner provider is nil")
	}
	return &CachedProvider{inner: inner, cache: cache}, nil
}

func (c *CachedProvider) Matrix(ctx context.Context, points []domain.Point) (_ domain.DistanceMatrix, err error) {
	defer obs.Time(ctx, "distance.CachedProvider.Matrix")(&err)

	key := MatrixKey(points)

	if c.cache != nil {
		m, ok, err := c.cache.Get(ctx, key)
		switch {
		case err != nil:
			log.Printf("matrix cache read failed key=%s: %v", key, err)
		case ok && m.Size() == len(points):
			metrics.MatrixCacheLookups.WithLabelValues("hit").Inc()
			return m, nil
		}
		metrics.MatrixCacheLookups.WithLabelValues("miss").Inc()
	}

	m, err := c.inner.Matrix(ctx, points)
	if err != nil {
		return nil, fmt.Errorf("cached provider: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, key, m); err != nil {
			log.Printf("matrix cache write failed key=%s: %v", key, err)
		}
	}

	return m, nil
}

// MatrixKey returns a stable hex digest of the ordered coordinates.
func MatrixKey(points []domain.Point) string {
	h := sha256.New()
	var buf [16]byte
	for _, p := range points {
		binary.LittleEndian.PutUint64(buf[:8], math.Float64bits(p.X))
		binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(p.Y))
		h.Write(buf[:])
	}
	return "matrix:" + hex.EncodeToString(h.Sum(nil))
}
