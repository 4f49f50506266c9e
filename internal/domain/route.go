package domain

// Represents a single visit in a constructed route.
// Arrival is when the vehicle reaches the node, Wait is the idle time until
// the window opens, and Departure is Arrival + Wait + service time.
type Stop struct {
	Node      int
	Arrival   float64
	Wait      float64
	Departure float64
}

// Represents the output of one route construction run.
// Route always starts and ends at the depot and never repeats an interior node.
// Stops lists the customer visits in order (the depot legs are not included).
// It is immutable planning data owned by the caller.
type RouteResult struct {
	Route         []int
	Stops         []Stop
	TotalDistance float64
	TotalTime     float64
}

// Visited returns the number of customers served by the route.
func (r *RouteResult) Visited() int {
	if len(r.Route) < 2 {
		return 0
	}
	return len(r.Route) - 2
}

// Represents the solved route for one partition group, expressed in
// global node ids. Err is set when the group could not be solved; the
// other groups of the same batch are unaffected.
type GroupRoute struct {
	Group int
	Nodes []int
	RouteResult
	Err error
}

// Represents the aggregate result of a cluster-first/route-second run.
// TotalTime is the sum of per-group completion times, not a makespan.
type DecompositionResult struct {
	Groups        []GroupRoute
	TotalDistance float64
	TotalTime     float64
}

// Routes returns the per-group global routes in group order.
func (d *DecompositionResult) Routes() [][]int {
	out := make([][]int, 0, len(d.Groups))
	for _, g := range d.Groups {
		out = append(out, g.Route)
	}
	return out
}

// Makespan returns the largest per-group completion time.
func (d *DecompositionResult) Makespan() float64 {
	var m float64
	for _, g := range d.Groups {
		if g.Err == nil && g.TotalTime > m {
			m = g.TotalTime
		}
	}
	return m
}

// Visited returns the number of customers served across all groups.
func (d *DecompositionResult) Visited() int {
	n := 0
	for _, g := range d.Groups {
		if g.Err == nil {
			n += g.RouteResult.Visited()
		}
	}
	return n
}
