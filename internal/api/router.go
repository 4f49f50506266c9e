package api

import (
	"net/http"
	"time"
	"vrptw-route-service/internal/api/handlers"
	"vrptw-route-service/internal/metrics"
	"vrptw-route-service/internal/ports"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps collects what the HTTP layer needs. Runs may be nil.
type Deps struct {
	Nodes        ports.NodeRepository
	Provider     ports.MatrixProvider
	Partitioner  ports.Partitioner
	Runs         ports.RunStore
	DefaultK     int
	Workers      int
	RateLimitRPS float64
	SolveTimeout time.Duration
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(d Deps) http.Handler {
	mux := http.NewServeMux()

	nodeHandler := &handlers.NodeHandler{Repo: d.Nodes}
	runHandler := &handlers.RunHandler{Runs: d.Runs}
	routeHandler := &handlers.RouteHandler{
		Repo:         d.Nodes,
		Provider:     d.Provider,
		Partitioner:  d.Partitioner,
		Runs:         d.Runs,
		DefaultK:     d.DefaultK,
		Workers:      d.Workers,
		SolveTimeout: d.SolveTimeout,
	}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/nodes", nodeHandler.List)
	mux.HandleFunc("/routes", routeHandler.Single)
	mux.HandleFunc("/routes/clustered", routeHandler.Clustered)
	mux.HandleFunc("/routes/compare", routeHandler.Compare)
	mux.HandleFunc("/runs", runHandler.List)
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	return requestIDMiddleware(loggingMiddleware(rateLimitMiddleware(d.RateLimitRPS, mux)))
}
