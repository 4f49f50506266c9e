package services

import (
	"context"
	"sync/atomic"
	"testing"
	"vrptw-route-service/internal/adapters/cluster"
	"vrptw-route-service/internal/adapters/generator"
	"vrptw-route-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wideNodes(points ...domain.Point) []domain.Node {
	nodes := make([]domain.Node, len(points))
	for i, p := range points {
		nodes[i] = domain.Node{ID: i, Location: p, Window: domain.TimeWindow{Start: 0, End: 1000}}
	}
	return nodes
}

func generated(t *testing.T, seed int64, customers int, widen bool) []domain.Node {
	t.Helper()
	opts := generator.DefaultOptions()
	opts.Seed = seed
	opts.Customers = customers
	nodes, err := generator.Generate(opts)
	require.NoError(t, err)
	if widen {
		for i := range nodes {
			nodes[i].Window = domain.TimeWindow{Start: 0, End: 1000}
			nodes[i].ServiceTime = 0
		}
	}
	return nodes
}

func TestDecomposeTranslatesToGlobalIDs(t *testing.T) {
	nodes := wideNodes(
		domain.Point{X: 0, Y: 0},
		domain.Point{X: 10, Y: 0},
		domain.Point{X: -10, Y: 0},
		domain.Point{X: 20, Y: 0},
		domain.Point{X: -20, Y: 0},
	)
	m := euclidean(domain.Points(nodes)...)
	partition := domain.Partition{1: 0, 3: 0, 2: 1, 4: 1}

	res, err := Decompose(context.Background(), DecomposeRequest{
		Nodes:      nodes,
		Matrix:     m,
		Partition:  partition,
		GroupCount: 2,
	})
	require.NoError(t, err)
	require.Len(t, res.Groups, 2)

	assert.Equal(t, []int{0, 1, 3, 0}, res.Groups[0].Route)
	assert.Equal(t, []int{0, 1, 3}, res.Groups[0].Nodes)
	assert.Equal(t, []int{0, 2, 4, 0}, res.Groups[1].Route)
	assert.Equal(t, 4, res.Groups[1].Stops[1].Node)
	assert.Equal(t, 80.0, res.TotalDistance)
	assert.Equal(t, 80.0, res.TotalTime)
	assert.Equal(t, 40.0, res.Makespan())
	assert.Equal(t, [][]int{{0, 1, 3, 0}, {0, 2, 4, 0}}, res.Routes())
}

func TestDecomposeFullCoverageWithWideWindows(t *testing.T) {
	for _, k := range []int{1, 2, 3, 5} {
		nodes := generated(t, int64(k), 30, true)
		m := euclidean(domain.Points(nodes)...)

		p, err := cluster.NewKMeans(42).Partition(context.Background(), nodes, k)
		require.NoError(t, err)

		res, err := Decompose(context.Background(), DecomposeRequest{
			Nodes: nodes, Matrix: m, Partition: p, GroupCount: k, Workers: 2,
		})
		require.NoError(t, err)

		assert.Empty(t, Unvisited(len(nodes), res.Routes()...), "k=%d", k)
		assert.Equal(t, len(nodes)-1, res.Visited())

		seen := map[int]int{}
		for _, g := range res.Groups {
			assert.Equal(t, 0, g.Route[0])
			assert.Equal(t, 0, g.Route[len(g.Route)-1])
			for _, n := range g.Route[1 : len(g.Route)-1] {
				seen[n]++
				assert.Equal(t, g.Group, p[n], "node %d routed outside its group", n)
			}
		}
		for n, c := range seen {
			assert.Equal(t, 1, c, "node %d", n)
		}
	}
}

func TestDecomposeTotalsMatchStandaloneSolves(t *testing.T) {
	nodes := generated(t, 9, 40, false)
	m := euclidean(domain.Points(nodes)...)
	const k = 4

	p, err := AssignGroupsByDistance(m, k)
	require.NoError(t, err)

	res, err := Decompose(context.Background(), DecomposeRequest{
		Nodes: nodes, Matrix: m, Partition: p, GroupCount: k,
	})
	require.NoError(t, err)

	windows := domain.Windows(nodes)
	service := domain.ServiceTimes(nodes)

	var wantDist, wantTime float64
	for g, members := range p.Members(k) {
		sp, err := domain.NewSubProblem(g, members, m, windows, service)
		require.NoError(t, err)
		local, err := BuildRoute(sp.Matrix, sp.Windows, sp.ServiceTimes)
		require.NoError(t, err)

		wantDist += local.TotalDistance
		wantTime += local.TotalTime

		global, err := sp.Index.ToGlobal(local.Route)
		require.NoError(t, err)
		assert.Equal(t, global, res.Groups[g].Route)

		// Every visited node is feasible when replayed on the full problem.
		_, err = ReplayRoute(res.Groups[g].Route, m, windows, service)
		assert.NoError(t, err)
	}

	assert.InDelta(t, wantDist, res.TotalDistance, 1e-9)
	assert.InDelta(t, wantTime, res.TotalTime, 1e-9)
}

func TestDecomposeIsDeterministicAcrossWorkerCounts(t *testing.T) {
	nodes := generated(t, 3, 60, false)
	m := euclidean(domain.Points(nodes)...)
	p, err := cluster.NewKMeans(1).Partition(context.Background(), nodes, 6)
	require.NoError(t, err)

	var first *domain.DecompositionResult
	for _, workers := range []int{1, 2, 8} {
		res, err := Decompose(context.Background(), DecomposeRequest{
			Nodes: nodes, Matrix: m, Partition: p, GroupCount: 6, Workers: workers,
		})
		require.NoError(t, err)
		if first == nil {
			first = res
			continue
		}
		assert.Equal(t, first.Routes(), res.Routes())
		assert.Equal(t, first.TotalDistance, res.TotalDistance)
		assert.Equal(t, first.TotalTime, res.TotalTime)
	}
}

func TestDecomposeEmptyGroup(t *testing.T) {
	nodes := wideNodes(domain.Point{}, domain.Point{X: 1})
	m := euclidean(domain.Points(nodes)...)

	res, err := Decompose(context.Background(), DecomposeRequest{
		Nodes: nodes, Matrix: m, Partition: domain.Partition{1: 0}, GroupCount: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, []int{0, 1, 0}, res.Groups[0].Route)
	assert.Equal(t, []int{0, 0}, res.Groups[1].Route)
	assert.Equal(t, []int{0, 0}, res.Groups[2].Route)
	assert.Equal(t, 2.0, res.TotalDistance)
}

func TestDecomposeInvalidInput(t *testing.T) {
	nodes := wideNodes(domain.Point{}, domain.Point{X: 1}, domain.Point{X: 2})
	m := euclidean(domain.Points(nodes)...)
	ctx := context.Background()

	tests := []struct {
		name string
		req  DecomposeRequest
		want error
	}{
		{"zero groups", DecomposeRequest{Nodes: nodes, Matrix: m, Partition: domain.Partition{1: 0, 2: 0}, GroupCount: 0}, domain.ErrInvalidPartition},
		{"negative groups", DecomposeRequest{Nodes: nodes, Matrix: m, Partition: domain.Partition{1: 0, 2: 0}, GroupCount: -1}, domain.ErrInvalidPartition},
		{"node out of range", DecomposeRequest{Nodes: nodes, Matrix: m, Partition: domain.Partition{1: 0, 2: 0, 7: 0}, GroupCount: 1}, domain.ErrInvalidPartition},
		{"group out of range", DecomposeRequest{Nodes: nodes, Matrix: m, Partition: domain.Partition{1: 0, 2: 3}, GroupCount: 2}, domain.ErrInvalidPartition},
		{"nodes vs matrix", DecomposeRequest{Nodes: nodes[:2], Matrix: m, Partition: domain.Partition{1: 0}, GroupCount: 1}, domain.ErrDimensionMismatch},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Decompose(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
			assert.Nil(t, res)
		})
	}
}

func TestDecomposeCollectsGroupErrors(t *testing.T) {
	nodes := wideNodes(domain.Point{}, domain.Point{X: 1}, domain.Point{X: 2})
	m := euclidean(domain.Points(nodes)...)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Decompose(ctx, DecomposeRequest{
		Nodes: nodes, Matrix: m, Partition: domain.Partition{1: 0, 2: 1}, GroupCount: 2,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	require.Len(t, res.Groups, 2)
	for g, gr := range res.Groups {
		assert.Equal(t, g, gr.Group)
		assert.Error(t, gr.Err)
	}
	assert.Zero(t, res.TotalDistance)
}

// cancelAfter reports context.Canceled once Err has been called more than n times.
type cancelAfter struct {
	context.Context
	n     int64
	calls atomic.Int64
}

func (c *cancelAfter) Err() error {
	if c.calls.Add(1) > c.n {
		return context.Canceled
	}
	return nil
}

func TestDecomposeKeepsSolvedGroupsWhenLaterGroupsFail(t *testing.T) {
	nodes := wideNodes(
		domain.Point{X: 0, Y: 0},
		domain.Point{X: 10, Y: 0},
		domain.Point{X: 0, Y: 10},
		domain.Point{X: 10, Y: 10},
	)
	m := euclidean(domain.Points(nodes)...)

	// One worker runs the groups in order, so only group 0 sees a live context.
	ctx := &cancelAfter{Context: context.Background(), n: 1}
	res, err := Decompose(ctx, DecomposeRequest{
		Nodes:      nodes,
		Matrix:     m,
		Partition:  domain.Partition{1: 0, 2: 1, 3: 2},
		GroupCount: 3,
		Workers:    1,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	require.Len(t, res.Groups, 3)

	ok := res.Groups[0]
	require.NoError(t, ok.Err)
	assert.Equal(t, []int{0, 1, 0}, ok.Route)
	assert.InDelta(t, 20.0, ok.TotalDistance, 1e-9)
	assert.InDelta(t, 20.0, ok.TotalTime, 1e-9)

	for _, g := range res.Groups[1:] {
		assert.ErrorIs(t, g.Err, context.Canceled)
		assert.Nil(t, g.Route)
	}

	assert.InDelta(t, 20.0, res.TotalDistance, 1e-9)
	assert.InDelta(t, 20.0, res.TotalTime, 1e-9)
	assert.Equal(t, 1, res.Visited())
	assert.InDelta(t, 20.0, res.Makespan(), 1e-9)
}
