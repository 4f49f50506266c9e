package ports

import (
	"context"
	"vrptw-route-service/internal/domain"
)

// Port: a boundary for retrieving Node entities from a data source.
type NodeRepository interface {
	// Retrieve all nodes ordered by id, depot first.
	ListNodes(ctx context.Context) ([]domain.Node, error)
}
