package dto

type SingleRouteRequest struct {
	// Nodes overrides the stored dataset when present.
	Nodes []NodeRequest `json:"nodes"`
}

type ClusteredRouteRequest struct {
	Nodes []NodeRequest `json:"nodes"`
	K     int           `json:"k"`
	// Partition maps customer node id to group id; computed by k-means when omitted.
	Partition map[int]int `json:"partition"`
}

type StopResponse struct {
	NodeID    int     `json:"node_id"`
	Arrival   float64 `json:"arrival"`
	Wait      float64 `json:"wait"`
	Departure float64 `json:"departure"`
}

type RouteResponse struct {
	Route         []int          `json:"route"`
	Stops         []StopResponse `json:"stops"`
	TotalDistance float64        `json:"total_distance"`
	TotalTime     float64        `json:"total_time"`
	Visited       int            `json:"visited"`
	Dropped       []int          `json:"dropped"`
}

type GroupRouteResponse struct {
	Group int `json:"group"`
	RouteResponse
	Error string `json:"error,omitempty"`
}

type ClusteredRouteResponse struct {
	Groups        []GroupRouteResponse `json:"groups"`
	TotalDistance float64              `json:"total_distance"`
	TotalTime     float64              `json:"total_time"`
	Makespan      float64              `json:"makespan"`
	Visited       int                  `json:"visited"`
	Dropped       []int                `json:"dropped"`
}

type SingleRunResponse struct {
	RunID string `json:"run_id"`
	RouteResponse
}

type ClusteredRunResponse struct {
	RunID string `json:"run_id"`
	ClusteredRouteResponse
}

type CompareResponse struct {
	RunID          string                 `json:"run_id"`
	NodeCount      int                    `json:"node_count"`
	Baseline       RouteResponse          `json:"baseline"`
	Clustered      ClusteredRouteResponse `json:"clustered"`
	TimeComparable bool                   `json:"time_comparable"`
	Note           string                 `json:"note"`
}
