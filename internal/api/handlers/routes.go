package handlers

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"
	"vrptw-route-service/internal/api/dto"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/obs"
	"vrptw-route-service/internal/ports"
	"vrptw-route-service/internal/services"

	"github.com/google/uuid"
)

const (
	maxGroupCount = 50
	// Every solve builds a dense N x N matrix over the inline nodes.
	maxInlineNodes = 1000
)

type RouteHandler struct {
	Repo        ports.NodeRepository
	Provider    ports.MatrixProvider
	Partitioner ports.Partitioner
	// Runs is optional; when nil run summaries are not persisted.
	Runs         ports.RunStore
	DefaultK     int
	Workers      int
	SolveTimeout time.Duration
}

// Single builds one route over every node (baseline mode).
func (h *RouteHandler) Single(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	var req dto.SingleRouteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}
	if !checkInlineCount(w, r, len(req.Nodes)) {
		return
	}

	ctx, cancel := h.solveContext(r)
	defer cancel()

	nodes, err := h.nodes(ctx, dto.NodesFromRequest(req.Nodes))
	if err != nil {
		writeServiceError(w, r, "load nodes", err)
		return
	}

	res, err := services.PlanSingleRoute(ctx, nodes, h.Provider)
	if err != nil {
		writeServiceError(w, r, "plan single route", err)
		return
	}

	runID := h.saveRun(ctx, ports.RunRecord{
		Mode:          "single",
		GroupCount:    1,
		NodeCount:     len(nodes),
		Visited:       res.Visited(),
		TotalDistance: res.TotalDistance,
		TotalTime:     res.TotalTime,
	})

	writeJSON(w, r, http.StatusOK, dto.SingleRunResponse{
		RunID:         runID.String(),
		RouteResponse: dto.RouteToResponse(*res, services.Unvisited(len(nodes), res.Route)),
	})
}

// Clustered partitions the customers and routes each group independently.
// Groups that fail are reported inline; the request still succeeds.
func (h *RouteHandler) Clustered(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	svcReq, ok := h.clusteredRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.solveContext(r)
	defer cancel()

	nodes, err := h.nodes(ctx, svcReq.Nodes)
	if err != nil {
		writeServiceError(w, r, "load nodes", err)
		return
	}
	svcReq.Nodes = nodes

	res, err := services.PlanClustered(ctx, svcReq, h.Provider, h.Partitioner)
	if res == nil {
		writeServiceError(w, r, "plan clustered", err)
		return
	}
	if err != nil {
		log.Printf("clustered partial: req=%s err=%v", obs.RequestID(ctx), err)
	}

	runID := h.saveRun(ctx, ports.RunRecord{
		Mode:          "clustered",
		GroupCount:    svcReq.GroupCount,
		NodeCount:     len(nodes),
		Visited:       res.Visited(),
		TotalDistance: res.TotalDistance,
		TotalTime:     res.TotalTime,
	})

	writeJSON(w, r, http.StatusOK, dto.ClusteredRunResponse{
		RunID:                  runID.String(),
		ClusteredRouteResponse: clusteredResponse(res, len(nodes)),
	})
}

// Compare runs the baseline and the clustered strategy on the same dataset.
func (h *RouteHandler) Compare(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}

	svcReq, ok := h.clusteredRequest(w, r)
	if !ok {
		return
	}

	ctx, cancel := h.solveContext(r)
	defer cancel()

	nodes, err := h.nodes(ctx, svcReq.Nodes)
	if err != nil {
		writeServiceError(w, r, "load nodes", err)
		return
	}
	svcReq.Nodes = nodes

	cmp, err := services.Compare(ctx, svcReq, h.Provider, h.Partitioner)
	if cmp == nil {
		writeServiceError(w, r, "compare", err)
		return
	}
	if err != nil {
		log.Printf("compare partial: req=%s err=%v", obs.RequestID(ctx), err)
	}

	runID := h.saveRun(ctx, ports.RunRecord{
		Mode:          "compare",
		GroupCount:    svcReq.GroupCount,
		NodeCount:     len(nodes),
		Visited:       cmp.Clustered.Visited(),
		TotalDistance: cmp.Clustered.TotalDistance,
		TotalTime:     cmp.Clustered.TotalTime,
	})

	writeJSON(w, r, http.StatusOK, dto.CompareResponse{
		RunID:          runID.String(),
		NodeCount:      cmp.NodeCount,
		Baseline:       dto.RouteToResponse(*cmp.Baseline, services.Unvisited(len(nodes), cmp.Baseline.Route)),
		Clustered:      clusteredResponse(cmp.Clustered, len(nodes)),
		TimeComparable: cmp.TimeComparable,
		Note:           cmp.Note,
	})
}

func (h *RouteHandler) clusteredRequest(w http.ResponseWriter, r *http.Request) (services.ClusteredRequest, bool) {
	var req dto.ClusteredRouteRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return services.ClusteredRequest{}, false
	}
	if !checkInlineCount(w, r, len(req.Nodes)) {
		return services.ClusteredRequest{}, false
	}

	k := req.K
	if k == 0 {
		k = h.DefaultK
	}
	if k < 1 || k > maxGroupCount {
		writeError(w, r, http.StatusBadRequest, fmt.Sprintf("k must be between 1 and %d", maxGroupCount))
		return services.ClusteredRequest{}, false
	}

	var partition domain.Partition
	if req.Partition != nil {
		partition = domain.Partition(req.Partition)
	}

	return services.ClusteredRequest{
		Nodes:      dto.NodesFromRequest(req.Nodes),
		GroupCount: k,
		Partition:  partition,
		Workers:    h.Workers,
	}, true
}

func checkInlineCount(w http.ResponseWriter, r *http.Request, n int) bool {
	if n <= maxInlineNodes {
		return true
	}
	writeError(w, r, http.StatusBadRequest, fmt.Sprintf("at most %d inline nodes are accepted, got %d", maxInlineNodes, n))
	return false
}

// nodes returns the inline dataset when given, else the stored one.
func (h *RouteHandler) nodes(ctx context.Context, inline []domain.Node) ([]domain.Node, error) {
	if len(inline) > 0 {
		return inline, nil
	}
	return h.Repo.ListNodes(ctx)
}

func (h *RouteHandler) solveContext(r *http.Request) (context.Context, context.CancelFunc) {
	if h.SolveTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), h.SolveTimeout)
}

func (h *RouteHandler) saveRun(ctx context.Context, rec ports.RunRecord) uuid.UUID {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	if h.Runs == nil {
		return rec.ID
	}
	if err := h.Runs.SaveRun(ctx, rec); err != nil {
		log.Printf("save run failed: req=%s run=%s err=%v", obs.RequestID(ctx), rec.ID, err)
	}
	return rec.ID
}

func clusteredResponse(res *domain.DecompositionResult, nodeCount int) dto.ClusteredRouteResponse {
	out := dto.ClusteredRouteResponse{
		Groups:        make([]dto.GroupRouteResponse, 0, len(res.Groups)),
		TotalDistance: res.TotalDistance,
		TotalTime:     res.TotalTime,
		Makespan:      res.Makespan(),
		Visited:       res.Visited(),
	}

	routes := make([][]int, 0, len(res.Groups))
	for _, g := range res.Groups {
		gr := dto.GroupRouteResponse{Group: g.Group}
		if g.Err != nil {
			gr.Error = g.Err.Error()
			gr.RouteResponse = dto.RouteToResponse(domain.RouteResult{}, nil)
		} else {
			gr.RouteResponse = dto.RouteToResponse(g.RouteResult, missing(g.Nodes, g.Route))
			routes = append(routes, g.Route)
		}
		out.Groups = append(out.Groups, gr)
	}
	out.Dropped = services.Unvisited(nodeCount, routes...)

	return out
}

// missing lists the group members absent from route.
func missing(members, route []int) []int {
	seen := make(map[int]struct{}, len(route))
	for _, n := range route {
		seen[n] = struct{}{}
	}
	out := []int{}
	for _, n := range members {
		if n == domain.DepotIndex {
			continue
		}
		if _, ok := seen[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
