package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"vrptw-route-service/internal/adapters/cluster"
	"vrptw-route-service/internal/adapters/distance"
	"vrptw-route-service/internal/api/dto"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memNodes struct {
	nodes []domain.Node
	err   error
}

func (m memNodes) ListNodes(context.Context) ([]domain.Node, error) { return m.nodes, m.err }

type memRuns struct {
	mu   sync.Mutex
	runs []ports.RunRecord
}

func (m *memRuns) SaveRun(_ context.Context, run ports.RunRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append(m.runs, run)
	return nil
}

func (m *memRuns) ListRuns(context.Context, int) ([]ports.RunRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ports.RunRecord(nil), m.runs...), nil
}

func squareNodes() []domain.Node {
	pts := []domain.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10}}
	nodes := make([]domain.Node, len(pts))
	for i, p := range pts {
		nodes[i] = domain.Node{ID: i, Location: p, Window: domain.TimeWindow{Start: 0, End: 1000}}
	}
	return nodes
}

func newTestRouter(t *testing.T, repo ports.NodeRepository, runs ports.RunStore) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Nodes:       repo,
		Provider:    distance.NewEuclideanProvider(),
		Partitioner: cluster.NewKMeans(42),
		Runs:        runs,
		DefaultK:    2,
		Workers:     2,
	})
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHealth(t *testing.T) {
	h := newTestRouter(t, memNodes{}, nil)

	rr := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(requestIDHeader))

	rr = do(t, h, http.MethodPost, "/health", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
	assert.Equal(t, http.MethodGet, rr.Header().Get("Allow"))
}

func TestRequestIDPropagated(t *testing.T) {
	h := newTestRouter(t, memNodes{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get(requestIDHeader))
}

func TestListNodes(t *testing.T) {
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, nil)

	rr := do(t, h, http.MethodGet, "/nodes", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var res dto.ListNodesResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res.Nodes, 4)
	assert.Equal(t, 3, res.Nodes[3].NodeID)
	assert.Equal(t, 10.0, res.Nodes[3].X)

	h = newTestRouter(t, memNodes{err: errors.New("disk gone")}, nil)
	rr = do(t, h, http.MethodGet, "/nodes", "")
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSingleRouteFromStore(t *testing.T) {
	runs := &memRuns{}
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, runs)

	rr := do(t, h, http.MethodPost, "/routes", "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res dto.SingleRunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, []int{0, 1, 3, 2, 0}, res.Route)
	assert.InDelta(t, 40.0, res.TotalDistance, 1e-9)
	assert.Equal(t, 3, res.Visited)
	assert.Empty(t, res.Dropped)
	assert.Len(t, res.Stops, 3)

	saved, err := runs.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "single", saved[0].Mode)
	assert.Equal(t, res.RunID, saved[0].ID.String())
}

func TestSingleRouteInlineNodesDropsUnreachable(t *testing.T) {
	h := newTestRouter(t, memNodes{err: errors.New("unused")}, nil)

	body := `{"nodes":[
		{"node_id":0,"x":0,"y":0,"time_window_start":0,"time_window_end":1000},
		{"node_id":1,"x":10,"y":0,"time_window_start":0,"time_window_end":1000},
		{"node_id":2,"x":0,"y":10,"time_window_start":0,"time_window_end":0}
	]}`
	rr := do(t, h, http.MethodPost, "/routes", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res dto.SingleRunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, []int{0, 1, 0}, res.Route)
	assert.Equal(t, []int{2}, res.Dropped)
}

func TestSingleRouteBadInput(t *testing.T) {
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, nil)

	rr := do(t, h, http.MethodPost, "/routes", `{"nodes":`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/routes", `{"bogus":1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/routes", `{} {}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	// window end before start
	rr = do(t, h, http.MethodPost, "/routes", `{"nodes":[
		{"node_id":0,"time_window_start":0,"time_window_end":100},
		{"node_id":1,"x":1,"time_window_start":50,"time_window_end":10}
	]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/routes", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

func TestListRuns(t *testing.T) {
	runs := &memRuns{}
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, runs)

	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/routes", "").Code)
	require.Equal(t, http.StatusOK, do(t, h, http.MethodPost, "/routes/compare", "").Code)

	rr := do(t, h, http.MethodGet, "/runs?limit=5", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var res dto.ListRunsResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res.Runs, 2)
	assert.Equal(t, "single", res.Runs[0].Mode)
	assert.Equal(t, "compare", res.Runs[1].Mode)

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/runs?limit=0", "").Code)

	h = newTestRouter(t, memNodes{}, nil)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/runs", "").Code)
}

func TestClusteredWithExplicitPartition(t *testing.T) {
	runs := &memRuns{}
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, runs)

	rr := do(t, h, http.MethodPost, "/routes/clustered", `{"k":2,"partition":{"1":0,"2":1,"3":1}}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res dto.ClusteredRunResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	require.Len(t, res.Groups, 2)
	assert.Equal(t, []int{0, 1, 0}, res.Groups[0].Route)
	assert.Equal(t, []int{0, 2, 3, 0}, res.Groups[1].Route)
	assert.Equal(t, 3, res.Visited)
	assert.Empty(t, res.Dropped)
	assert.InDelta(t, 20+10+10+14.142135623730951, res.TotalDistance, 1e-9)
	assert.LessOrEqual(t, res.Makespan, res.TotalTime)

	require.Len(t, runs.runs, 1)
	assert.Equal(t, "clustered", runs.runs[0].Mode)
	assert.Equal(t, 2, runs.runs[0].GroupCount)
}

func TestClusteredRejectsBadPartitionAndK(t *testing.T) {
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, nil)

	rr := do(t, h, http.MethodPost, "/routes/clustered", `{"k":2,"partition":{"1":0,"2":5,"3":1}}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/routes/clustered", `{"k":-1}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/routes/clustered", `{"k":500}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCompare(t *testing.T) {
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, nil)

	rr := do(t, h, http.MethodPost, "/routes/compare", `{"k":2}`)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res dto.CompareResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, 4, res.NodeCount)
	assert.False(t, res.TimeComparable)
	assert.NotEmpty(t, res.Note)
	assert.Equal(t, []int{0, 1, 3, 2, 0}, res.Baseline.Route)
	assert.Equal(t, 3, res.Clustered.Visited)
	assert.NotEmpty(t, res.RunID)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestRouter(t, memNodes{nodes: squareNodes()}, nil)
	do(t, h, http.MethodGet, "/health", "")

	rr := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRateLimit(t *testing.T) {
	h := NewRouter(Deps{Nodes: memNodes{}, RateLimitRPS: 1})

	first := do(t, h, http.MethodGet, "/health", "")
	second := do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}
