package domain

import (
	"fmt"
	"math"
)

// DepotIndex is the reserved matrix position of the depot.
const DepotIndex = 0

// Planar coordinates of a node. Units are whatever the dataset uses;
// the distance provider is responsible for turning them into travel costs.
type Point struct {
	X float64
	Y float64
}

// Closed interval [Start, End] during which a node may be serviced.
type TimeWindow struct {
	Start float64
	End   float64
}

// Contains reports whether t falls inside the window.
func (w TimeWindow) Contains(t float64) bool { return t >= w.Start && t <= w.End }

// Represents a single location handled by the system.
// ID is the node's position in the distance matrix; ID 0 is the depot.
// Priority is carried for reporting and is not used by route construction.
type Node struct {
	ID          int
	Location    Point
	Window      TimeWindow
	ServiceTime float64
	Priority    int
}

// IsDepot reports whether the node occupies the depot slot.
func (n Node) IsDepot() bool { return n.ID == DepotIndex }

// Validate checks the per-node invariants.
func (n Node) Validate() error {
	if math.IsNaN(n.Window.Start) || math.IsNaN(n.Window.End) || n.Window.End < n.Window.Start {
		return fmt.Errorf("node %d: window [%v, %v]: %w", n.ID, n.Window.Start, n.Window.End, ErrInvalidNode)
	}
	if math.IsNaN(n.ServiceTime) || n.ServiceTime < 0 {
		return fmt.Errorf("node %d: service time %v: %w", n.ID, n.ServiceTime, ErrInvalidNode)
	}
	return nil
}

// ValidateNodes checks that nodes are indexed 0..n-1 in order and that each
// node satisfies its own invariants.
func ValidateNodes(nodes []Node) error {
	if len(nodes) == 0 {
		return fmt.Errorf("validate nodes: no depot: %w", ErrDimensionMismatch)
	}
	for i, n := range nodes {
		if n.ID != i {
			return fmt.Errorf("validate nodes: node at position %d has id %d: %w", i, n.ID, ErrInvalidNode)
		}
		if err := n.Validate(); err != nil {
			return fmt.Errorf("validate nodes: %w", err)
		}
	}
	return nil
}

// Windows returns the time windows of nodes aligned by index.
func Windows(nodes []Node) []TimeWindow {
	out := make([]TimeWindow, len(nodes))
	for i, n := range nodes {
		out[i] = n.Window
	}
	return out
}

// ServiceTimes returns the service durations of nodes aligned by index.
func ServiceTimes(nodes []Node) []float64 {
	out := make([]float64, len(nodes))
	for i, n := range nodes {
		out[i] = n.ServiceTime
	}
	return out
}

// Points returns node locations aligned by index.
func Points(nodes []Node) []Point {
	out := make([]Point, len(nodes))
	for i, n := range nodes {
		out[i] = n.Location
	}
	return out
}
