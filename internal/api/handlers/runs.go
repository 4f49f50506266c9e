package handlers

import (
	"log"
	"net/http"
	"strconv"
	"vrptw-route-service/internal/api/dto"
	"vrptw-route-service/internal/platform/obs"
	"vrptw-route-service/internal/ports"
)

const maxRunsLimit = 200

type RunHandler struct {
	Runs ports.RunStore
}

// List returns recent planning runs, newest first. Accepts ?limit=N.
func (h *RunHandler) List(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}
	if h.Runs == nil {
		writeError(w, r, http.StatusNotFound, "run history is not enabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxRunsLimit {
			writeError(w, r, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = n
	}

	runs, err := h.Runs.ListRuns(r.Context(), limit)
	if err != nil {
		log.Printf("list runs failed: req=%s err=%v", obs.RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "failed to list runs")
		return
	}

	res := dto.ListRunsResponse{Runs: make([]dto.RunResponse, 0, len(runs))}
	for _, run := range runs {
		res.Runs = append(res.Runs, dto.RunResponse{
			RunID:         run.ID.String(),
			Mode:          run.Mode,
			GroupCount:    run.GroupCount,
			NodeCount:     run.NodeCount,
			Visited:       run.Visited,
			TotalDistance: run.TotalDistance,
			TotalTime:     run.TotalTime,
			CreatedAt:     run.CreatedAt,
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}
