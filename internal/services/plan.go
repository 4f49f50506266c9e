package services

import (
	"context"
	"errors"
	"fmt"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/metrics"
	"vrptw-route-service/internal/ports"
)

// Note attached to every Comparison. The clustered time is a sum over
// groups while the baseline is one vehicle's sequential duration.
const TimeComparisonNote = "clustered total time sums per-group completion times; " +
	"it is not a makespan and is not directly comparable to the single-route time"

type ClusteredRequest struct {
	Nodes      []domain.Node
	GroupCount int
	// Partition is used as given when non-nil; otherwise the partitioner runs.
	Partition domain.Partition
	Workers   int
}

// Baseline and clustered results over the same nodes and matrix.
type Comparison struct {
	NodeCount      int
	Baseline       *domain.RouteResult
	Clustered      *domain.DecompositionResult
	TimeComparable bool
	Note           string
}

// PlanSingleRoute builds one route over all nodes (baseline mode).
func PlanSingleRoute(
	ctx context.Context,
	nodes []domain.Node,
	provider ports.MatrixProvider,
) (*domain.RouteResult, error) {
	matrix, err := LoadMatrix(ctx, nodes, provider)
	if err != nil {
		return nil, fmt.Errorf("plan single route: %w", err)
	}

	return buildSingle(nodes, matrix)
}

// PlanClustered partitions the customers and solves each group independently.
// A partial result is returned together with the error when only some
// groups failed.
func PlanClustered(
	ctx context.Context,
	req ClusteredRequest,
	provider ports.MatrixProvider,
	partitioner ports.Partitioner,
) (*domain.DecompositionResult, error) {
	matrix, err := LoadMatrix(ctx, req.Nodes, provider)
	if err != nil {
		return nil, fmt.Errorf("plan clustered: %w", err)
	}

	return planClustered(ctx, req, matrix, partitioner)
}

// Compare runs the baseline and the clustered strategy on one shared matrix.
func Compare(
	ctx context.Context,
	req ClusteredRequest,
	provider ports.MatrixProvider,
	partitioner ports.Partitioner,
) (*Comparison, error) {
	matrix, err := LoadMatrix(ctx, req.Nodes, provider)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	baseline, err := buildSingle(req.Nodes, matrix)
	if err != nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	clustered, err := planClustered(ctx, req, matrix, partitioner)
	if err != nil && clustered == nil {
		return nil, fmt.Errorf("compare: %w", err)
	}

	return &Comparison{
		NodeCount:      len(req.Nodes),
		Baseline:       baseline,
		Clustered:      clustered,
		TimeComparable: false,
		Note:           TimeComparisonNote,
	}, err
}

// LoadMatrix validates nodes, asks the provider for their matrix and checks
// that the result is aligned with the nodes.
func LoadMatrix(ctx context.Context, nodes []domain.Node, provider ports.MatrixProvider) (domain.DistanceMatrix, error) {
	if provider == nil {
		return nil, errors.New("load matrix: provider must be non-nil")
	}
	if err := domain.ValidateNodes(nodes); err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}

	matrix, err := provider.Matrix(ctx, domain.Points(nodes))
	if err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}
	if matrix.Size() != len(nodes) {
		return nil, fmt.Errorf("load matrix: nodes=%d matrix=%d: %w", len(nodes), matrix.Size(), domain.ErrDimensionMismatch)
	}
	if err := matrix.Validate(); err != nil {
		return nil, fmt.Errorf("load matrix: %w", err)
	}

	return matrix, nil
}

func buildSingle(nodes []domain.Node, matrix domain.DistanceMatrix) (*domain.RouteResult, error) {
	res, err := BuildRoute(matrix, domain.Windows(nodes), domain.ServiceTimes(nodes))
	if err != nil {
		return nil, err
	}
	metrics.RecordBuild("single", res.Visited(), len(nodes)-1)
	return res, nil
}

func planClustered(
	ctx context.Context,
	req ClusteredRequest,
	matrix domain.DistanceMatrix,
	partitioner ports.Partitioner,
) (*domain.DecompositionResult, error) {
	partition := req.Partition
	if partition == nil {
		if partitioner == nil {
			return nil, errors.New("plan clustered: partition or partitioner required")
		}

		var err error
		partition, err = partitioner.Partition(ctx, req.Nodes, req.GroupCount)
		if err != nil {
			return nil, fmt.Errorf("plan clustered: partition nodes: %w", err)
		}
	}

	return Decompose(ctx, DecomposeRequest{
		Nodes:      req.Nodes,
		Matrix:     matrix,
		Partition:  partition,
		GroupCount: req.GroupCount,
		Workers:    req.Workers,
	})
}
