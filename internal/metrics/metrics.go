package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the service.
	Registry = prometheus.NewRegistry()

	// HTTPRequests counts requests by method, path, and status.
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests."},
		[]string{"method", "path", "status"},
	)
	// HTTPDuration records request durations in seconds.
	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "http_request_duration_seconds", Help: "HTTP request duration in seconds.", Buckets: prometheus.DefBuckets},
		[]string{"method", "path", "status"},
	)

	// RouteBuilds counts completed route constructions by mode (single, group).
	RouteBuilds = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_builds_total", Help: "Route constructions by mode."},
		[]string{"mode"},
	)
	// DroppedNodes counts customers left out of a route by the dead-end rule.
	DroppedNodes = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "route_dropped_nodes_total", Help: "Customers omitted from constructed routes."},
		[]string{"mode"},
	)
	// GroupSolveDuration tracks per-group solve latency in seconds.
	GroupSolveDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{Name: "group_solve_duration_seconds", Help: "Per-group route construction latency.", Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10)},
	)
	// MatrixCacheLookups counts matrix cache hits and misses by backend.
	MatrixCacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "matrix_cache_lookups_total", Help: "Distance matrix cache lookups by result."},
		[]string{"result"},
	)
)

var regOnce sync.Once

// RegisterDefault registers all collectors on Registry. Safe to call more than once.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(HTTPRequests)
		Registry.MustRegister(HTTPDuration)
		Registry.MustRegister(RouteBuilds)
		Registry.MustRegister(DroppedNodes)
		Registry.MustRegister(GroupSolveDuration)
		Registry.MustRegister(MatrixCacheLookups)
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

// RecordBuild counts one route construction and the customers it dropped.
func RecordBuild(mode string, visited, customers int) {
	RouteBuilds.WithLabelValues(mode).Inc()
	if dropped := customers - visited; dropped > 0 {
		DroppedNodes.WithLabelValues(mode).Add(float64(dropped))
	}
}
