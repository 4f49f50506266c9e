package services

import (
	"fmt"
	"vrptw-route-service/internal/domain"
)

// BuildRoute constructs a single depot-based route using a greedy,
// time-window-aware nearest-neighbor rule.
//
// At each step the nearest unvisited node that can still be reached before
// its window closes is visited; early arrivals wait for the window to open.
// Waiting time is not part of the selection cost, and ties go to the lowest
// node index. When no remaining node is reachable the construction stops and
// the unreached nodes are left out of the route. This is not reported as an
// error: callers compare the route length against the node count when they
// need full coverage.
//
// The matrix must be square with the depot at index 0, and windows and
// serviceTimes must be aligned with it.
func BuildRoute(
	matrix domain.DistanceMatrix,
	windows []domain.TimeWindow,
	serviceTimes []float64,
) (*domain.RouteResult, error) {
	if err := checkInputs(matrix, windows, serviceTimes); err != nil {
		return nil, fmt.Errorf("build route: %w", err)
	}

	n := matrix.Size()
	visited := make([]bool, n)
	visited[domain.DepotIndex] = true
	remaining := n - 1

	current := domain.DepotIndex
	currentTime := 0.0
	totalDistance := 0.0

	route := make([]int, 0, n+1)
	route = append(route, domain.DepotIndex)
	stops := make([]domain.Stop, 0, n-1)

	for remaining > 0 {
		next, ok := nearestFeasible(matrix, windows, visited, current, currentTime)
		if !ok {
			break
		}

		leg := matrix.At(current, next)
		arrival := currentTime + leg
		wait := max(0, windows[next].Start-arrival)
		currentTime = arrival + wait + serviceTimes[next]
		totalDistance += leg

		stops = append(stops, domain.Stop{
			Node:      next,
			Arrival:   arrival,
			Wait:      wait,
			Departure: currentTime,
		})
		route = append(route, next)
		visited[next] = true
		remaining--
		current = next
	}

	// Return leg is always added, whether the loop exhausted the customers
	// or hit a dead end.
	back := matrix.At(current, domain.DepotIndex)
	totalDistance += back
	route = append(route, domain.DepotIndex)

	return &domain.RouteResult{
		Route:         route,
		Stops:         stops,
		TotalDistance: totalDistance,
		TotalTime:     currentTime + back,
	}, nil
}

// nearestFeasible returns the closest unvisited node whose window has not
// closed at the time of arrival. The second result is false when no such
// node exists.
func nearestFeasible(
	matrix domain.DistanceMatrix,
	windows []domain.TimeWindow,
	visited []bool,
	current int,
	currentTime float64,
) (int, bool) {
	best := -1
	var bestDist float64

	for j := range matrix.Size() {
		if visited[j] {
			continue
		}

		d := matrix.At(current, j)
		if currentTime+d > windows[j].End {
			continue
		}

		// Strict comparison keeps the lowest index on ties.
		if best == -1 || d < bestDist {
			best = j
			bestDist = d
		}
	}

	return best, best != -1
}

func checkInputs(matrix domain.DistanceMatrix, windows []domain.TimeWindow, serviceTimes []float64) error {
	n := matrix.Size()
	if n == 0 {
		return fmt.Errorf("empty distance matrix, depot required: %w", domain.ErrDimensionMismatch)
	}
	if err := matrix.CheckSquare(); err != nil {
		return err
	}
	if len(windows) != n || len(serviceTimes) != n {
		return fmt.Errorf(
			"matrix=%d windows=%d service=%d: %w",
			n, len(windows), len(serviceTimes), domain.ErrDimensionMismatch,
		)
	}
	if err := matrix.Validate(); err != nil {
		return err
	}
	for i, w := range windows {
		n := domain.Node{ID: i, Window: w, ServiceTime: serviceTimes[i]}
		if err := n.Validate(); err != nil {
			return err
		}
	}
	return nil
}
