package services

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/ports"
)

// BandPartitioner adapts AssignGroupsByDistance to ports.Partitioner.
type BandPartitioner struct {
	Provider ports.MatrixProvider
}

func NewBandPartitioner(provider ports.MatrixProvider) *BandPartitioner {
	return &BandPartitioner{Provider: provider}
}

func (b *BandPartitioner) Partition(ctx context.Context, nodes []domain.Node, groupCount int) (domain.Partition, error) {
	matrix, err := LoadMatrix(ctx, nodes, b.Provider)
	if err != nil {
		return nil, fmt.Errorf("band partition: %w", err)
	}
	return AssignGroupsByDistance(matrix, groupCount)
}

// AssignGroupsByDistance partitions customers into groupCount bands.
//
// Customers are sorted by depot distance and chunked so that each group
// receives a contiguous band of distances. It is deterministic and needs no
// coordinates, which makes it a useful fallback when only a matrix is known.
func AssignGroupsByDistance(matrix domain.DistanceMatrix, groupCount int) (domain.Partition, error) {
	if groupCount <= 0 {
		return nil, fmt.Errorf("assign groups: group count %d: %w", groupCount, domain.ErrInvalidPartition)
	}
	if matrix.Size() == 0 {
		return nil, errors.New("assign groups: matrix must include the depot")
	}
	if err := matrix.CheckSquare(); err != nil {
		return nil, fmt.Errorf("assign groups: %w", err)
	}

	customers := make([]int, 0, matrix.Size()-1)
	for i := 1; i < matrix.Size(); i++ {
		customers = append(customers, i)
	}

	// Sort by depot distance so each group receives a contiguous band.
	slices.SortFunc(customers, func(a, b int) int {
		if c := cmp.Compare(matrix.At(domain.DepotIndex, a), matrix.At(domain.DepotIndex, b)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	nCustomers := len(customers)

	// Ceiling division: distribute customers as evenly as possible across groups.
	chunkSize := max(1, (nCustomers+groupCount-1)/groupCount)

	out := make(domain.Partition, nCustomers)
	for g := 0; g < groupCount; g++ {
		start := g * chunkSize
		if start >= nCustomers {
			break
		}

		end := min(start+chunkSize, nCustomers)
		for _, c := range customers[start:end] {
			out[c] = g
		}
	}

	return out, nil
}
