package ports

import (
	"context"
	"vrptw-route-service/internal/domain"
)

// Storage for previously computed distance matrices.
type MatrixCache interface {
	// Return the cached matrix for key; ok is false on a miss.
	Get(ctx context.Context, key string) (m domain.DistanceMatrix, ok bool, err error)
	// Store the matrix under key, replacing any previous value.
	Put(ctx context.Context, key string, m domain.DistanceMatrix) error
}
