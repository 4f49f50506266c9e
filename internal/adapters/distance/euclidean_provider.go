package distance

import (
	"context"
	"errors"
	"math"
	"vrptw-route-service/internal/domain"
)

// EuclideanProvider computes straight-line distances on the original
// coordinates. Travel at unit speed makes these travel times as well.
type EuclideanProvider struct{}

func NewEuclideanProvider() *EuclideanProvider { return &EuclideanProvider{} }

func (EuclideanProvider) Matrix(ctx context.Context, points []domain.Point) (domain.DistanceMatrix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(points) == 0 {
		return nil, errors.New("euclidean matrix: no points")
	}

	n := len(points)
	m := make(domain.DistanceMatrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}

	// Fill the upper triangle and mirror it so the result is exactly symmetric.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Hypot(points[i].X-points[j].X, points[i].Y-points[j].Y)
			m[i][j] = d
			m[j][i] = d
		}
	}

	return m, nil
}
