package distance

import (
	"context"
	"fmt"
	"sync/atomic"
	"vrptw-route-service/internal/domain"
)

// StaticProvider returns a fixed matrix regardless of the points passed in,
// as long as the sizes agree. Useful for fixtures and for counting calls.
type StaticProvider struct {
	m     domain.DistanceMatrix
	calls atomic.Int64
}

func NewStaticProvider(m domain.DistanceMatrix) *StaticProvider {
	return &StaticProvider{m: m}
}

func (p *StaticProvider) Matrix(ctx context.Context, points []domain.Point) (domain.DistanceMatrix, error) {
	p.calls.Add(1)
	if len(points) != p.m.Size() {
		return nil, fmt.Errorf("static matrix: points=%d matrix=%d: %w", len(points), p.m.Size(), domain.ErrDimensionMismatch)
	}

	out := make(domain.DistanceMatrix, len(p.m))
	for i, row := range p.m {
		out[i] = append([]float64(nil), row...)
	}
	return out, nil
}

// Calls returns how many times Matrix has been invoked.
func (p *StaticProvider) Calls() int { return int(p.calls.Load()) }
