package services

import (
	"fmt"
	"vrptw-route-service/internal/domain"
)

// ReplayRoute walks a route from the depot at time zero and recomputes the
// arrival, wait and departure of every customer visit. It returns an error
// if the route is malformed, revisits a node, or reaches a node after its
// window has closed.
func ReplayRoute(
	route []int,
	matrix domain.DistanceMatrix,
	windows []domain.TimeWindow,
	serviceTimes []float64,
) ([]domain.Stop, error) {
	if err := checkInputs(matrix, windows, serviceTimes); err != nil {
		return nil, fmt.Errorf("replay route: %w", err)
	}

	n := matrix.Size()
	if len(route) < 2 || route[0] != domain.DepotIndex || route[len(route)-1] != domain.DepotIndex {
		return nil, fmt.Errorf("replay route: route %v must start and end at the depot", route)
	}

	seen := make([]bool, n)
	stops := make([]domain.Stop, 0, len(route)-2)
	current := domain.DepotIndex
	t := 0.0

	for _, node := range route[1 : len(route)-1] {
		if node <= domain.DepotIndex || node >= n {
			return nil, fmt.Errorf("replay route: node %d outside [1, %d)", node, n)
		}
		if seen[node] {
			return nil, fmt.Errorf("replay route: node %d visited twice", node)
		}
		seen[node] = true

		arrival := t + matrix.At(current, node)
		if arrival > windows[node].End {
			return nil, fmt.Errorf("replay route: node %d reached at %v after window end %v", node, arrival, windows[node].End)
		}
		wait := max(0, windows[node].Start-arrival)
		t = arrival + wait + serviceTimes[node]

		stops = append(stops, domain.Stop{Node: node, Arrival: arrival, Wait: wait, Departure: t})
		current = node
	}

	return stops, nil
}

// Unvisited returns the customers in [1, nodeCount) missing from routes,
// in ascending order.
func Unvisited(nodeCount int, routes ...[]int) []int {
	seen := make([]bool, nodeCount)
	for _, r := range routes {
		for _, n := range r {
			if n >= 0 && n < nodeCount {
				seen[n] = true
			}
		}
	}

	out := []int{}
	for n := 1; n < nodeCount; n++ {
		if !seen[n] {
			out = append(out, n)
		}
	}
	return out
}
