package ports

import (
	"context"
	"vrptw-route-service/internal/domain"
)

// Contract for computing the pairwise travel cost matrix between locations.
type MatrixProvider interface {
	// Return a square, symmetric matrix aligned with points; index 0 is the depot.
	Matrix(ctx context.Context, points []domain.Point) (domain.DistanceMatrix, error)
}
