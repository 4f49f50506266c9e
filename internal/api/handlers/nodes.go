package handlers

import (
	"log"
	"net/http"
	"vrptw-route-service/internal/api/dto"
	"vrptw-route-service/internal/platform/obs"
	"vrptw-route-service/internal/ports"
)

type NodeHandler struct {
	Repo ports.NodeRepository
}

// List returns the stored dataset, depot first.
func (h *NodeHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	nodes, err := h.Repo.ListNodes(r.Context())
	if err != nil {
		log.Printf("list nodes failed: req=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "failed to list nodes")
		return
	}

	res := dto.ListNodesResponse{Nodes: make([]dto.NodeResponse, 0, len(nodes))}
	for _, n := range nodes {
		res.Nodes = append(res.Nodes, dto.NodeToResponse(n))
	}

	writeJSON(w, r, http.StatusOK, res)
}
