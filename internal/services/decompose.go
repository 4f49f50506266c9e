package services

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/metrics"
	"vrptw-route-service/internal/platform/obs"

	"golang.org/x/sync/errgroup"
)

type DecomposeRequest struct {
	Nodes      []domain.Node
	Matrix     domain.DistanceMatrix
	Partition  domain.Partition
	GroupCount int
	// Workers bounds concurrent group solves; <= 0 means GOMAXPROCS.
	Workers int
}

// Decompose runs the cluster-first/route-second strategy.
//
// Each group's sub-problem (depot plus the group's customers, in ascending
// node order) is extracted and solved with BuildRoute independently of the
// others. Local routes are translated back to global node ids. Totals are
// folded in group order so the result does not depend on which group
// finishes first. TotalTime is the sum of per-group completion times.
//
// Malformed input fails before any group is solved. A group that fails
// later is reported in its GroupRoute.Err and in the joined error; the
// remaining groups are still returned and counted.
func Decompose(ctx context.Context, req DecomposeRequest) (_ *domain.DecompositionResult, err error) {
	defer obs.Time(ctx, "services.Decompose")(&err)

	n := req.Matrix.Size()
	if len(req.Nodes) != n {
		return nil, fmt.Errorf("decompose: nodes=%d matrix=%d: %w", len(req.Nodes), n, domain.ErrDimensionMismatch)
	}

	windows := domain.Windows(req.Nodes)
	serviceTimes := domain.ServiceTimes(req.Nodes)
	if err := checkInputs(req.Matrix, windows, serviceTimes); err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}

	if err := req.Partition.Validate(n, req.GroupCount); err != nil {
		return nil, fmt.Errorf("decompose: %w", err)
	}
	members := req.Partition.Members(req.GroupCount)

	workers := req.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	resultsCh := make(chan domain.GroupRoute, req.GroupCount)
	var g errgroup.Group
	g.SetLimit(workers)

	for group, customers := range members {
		g.Go(func() error {
			resultsCh <- solveGroup(ctx, group, customers, req.Matrix, windows, serviceTimes)
			return nil
		})
	}

	_ = g.Wait()
	close(resultsCh)

	groups := make([]domain.GroupRoute, req.GroupCount)
	for r := range resultsCh {
		groups[r.Group] = r
	}

	out := &domain.DecompositionResult{Groups: groups}
	var errs []error
	for _, gr := range groups {
		if gr.Err != nil {
			errs = append(errs, gr.Err)
			continue
		}
		out.TotalDistance += gr.TotalDistance
		out.TotalTime += gr.TotalTime
	}

	if len(errs) > 0 {
		return out, fmt.Errorf("decompose: %w", errors.Join(errs...))
	}
	return out, nil
}

func solveGroup(
	ctx context.Context,
	group int,
	customers []int,
	matrix domain.DistanceMatrix,
	windows []domain.TimeWindow,
	serviceTimes []float64,
) domain.GroupRoute {
	out := domain.GroupRoute{Group: group}
	if err := ctx.Err(); err != nil {
		out.Err = fmt.Errorf("group %d: %w", group, err)
		return out
	}

	start := time.Now()
	defer func() { metrics.GroupSolveDuration.Observe(time.Since(start).Seconds()) }()

	sp, err := domain.NewSubProblem(group, customers, matrix, windows, serviceTimes)
	if err != nil {
		out.Err = fmt.Errorf("group %d: %w", group, err)
		return out
	}
	out.Nodes = sp.Index.Nodes()

	local, err := BuildRoute(sp.Matrix, sp.Windows, sp.ServiceTimes)
	if err != nil {
		out.Err = fmt.Errorf("group %d: %w", group, err)
		return out
	}

	route, err := sp.Index.ToGlobal(local.Route)
	if err != nil {
		out.Err = fmt.Errorf("group %d: %w", group, err)
		return out
	}

	stops := make([]domain.Stop, len(local.Stops))
	for i, s := range local.Stops {
		s.Node = sp.Index.Global(s.Node)
		stops[i] = s
	}

	out.RouteResult = domain.RouteResult{
		Route:         route,
		Stops:         stops,
		TotalDistance: local.TotalDistance,
		TotalTime:     local.TotalTime,
	}
	metrics.RecordBuild("group", out.RouteResult.Visited(), len(customers))
	return out
}
