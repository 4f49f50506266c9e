package ports

import (
	"context"
	"vrptw-route-service/internal/domain"
)

// Assigns every customer node to one of k groups.
type Partitioner interface {
	// nodes[0] is the depot and is never assigned.
	Partition(ctx context.Context, nodes []domain.Node, k int) (domain.Partition, error)
}
