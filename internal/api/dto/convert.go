package dto

import "vrptw-route-service/internal/domain"

func NodesFromRequest(in []NodeRequest) []domain.Node {
	out := make([]domain.Node, 0, len(in))
	for _, n := range in {
		out = append(out, domain.Node{
			ID:          n.NodeID,
			Location:    domain.Point{X: n.X, Y: n.Y},
			Window:      domain.TimeWindow{Start: n.WindowStart, End: n.WindowEnd},
			ServiceTime: n.ServiceTime,
			Priority:    n.Priority,
		})
	}
	return out
}

func NodeToResponse(n domain.Node) NodeResponse {
	return NodeResponse{
		NodeID:      n.ID,
		X:           n.Location.X,
		Y:           n.Location.Y,
		ServiceTime: n.ServiceTime,
		WindowStart: n.Window.Start,
		WindowEnd:   n.Window.End,
		Priority:    n.Priority,
	}
}

// RouteToResponse renders a route together with the customers it left out.
func RouteToResponse(r domain.RouteResult, dropped []int) RouteResponse {
	stops := make([]StopResponse, 0, len(r.Stops))
	for _, s := range r.Stops {
		stops = append(stops, StopResponse{
			NodeID:    s.Node,
			Arrival:   s.Arrival,
			Wait:      s.Wait,
			Departure: s.Departure,
		})
	}

	route := r.Route
	if route == nil {
		route = []int{}
	}
	if dropped == nil {
		dropped = []int{}
	}

	return RouteResponse{
		Route:         route,
		Stops:         stops,
		TotalDistance: r.TotalDistance,
		TotalTime:     r.TotalTime,
		Visited:       r.Visited(),
		Dropped:       dropped,
	}
}
