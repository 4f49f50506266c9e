package dto

type NodeRequest struct {
	NodeID      int     `json:"node_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	ServiceTime float64 `json:"service_time"`
	WindowStart float64 `json:"time_window_start"`
	WindowEnd   float64 `json:"time_window_end"`
	Priority    int     `json:"priority"`
}

type NodeResponse = NodeRequest

type ListNodesResponse struct {
	Nodes []NodeResponse `json:"nodes"`
}
