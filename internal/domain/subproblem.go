package domain

import "fmt"

// IndexMap translates between the local indices of a sub-problem and the
// global node ids of the full problem. Local index 0 is always the depot.
type IndexMap struct {
	global []int
	local  map[int]int
}

// NewIndexMap builds a mapping for the depot followed by customers, in the
// order given. Every customer must be a distinct id in [1, nodeCount).
func NewIndexMap(customers []int, nodeCount int) (*IndexMap, error) {
	m := &IndexMap{
		global: make([]int, 0, 1+len(customers)),
		local:  make(map[int]int, 1+len(customers)),
	}
	m.global = append(m.global, DepotIndex)
	m.local[DepotIndex] = 0

	for _, c := range customers {
		if c <= DepotIndex || c >= nodeCount {
			return nil, fmt.Errorf("index map: node %d outside [1, %d): %w", c, nodeCount, ErrInvalidPartition)
		}
		if _, dup := m.local[c]; dup {
			return nil, fmt.Errorf("index map: node %d listed twice: %w", c, ErrInvalidPartition)
		}
		m.local[c] = len(m.global)
		m.global = append(m.global, c)
	}
	return m, nil
}

// Len returns the number of local indices, depot included.
func (m *IndexMap) Len() int { return len(m.global) }

// Global returns the global id for a local index.
func (m *IndexMap) Global(local int) int { return m.global[local] }

// Local returns the local index of a global id.
func (m *IndexMap) Local(global int) (int, bool) {
	l, ok := m.local[global]
	return l, ok
}

// Nodes returns a copy of the global ids in local order.
func (m *IndexMap) Nodes() []int { return append([]int(nil), m.global...) }

// ToGlobal translates a local route into global ids.
func (m *IndexMap) ToGlobal(route []int) ([]int, error) {
	out := make([]int, len(route))
	for i, l := range route {
		if l < 0 || l >= len(m.global) {
			return nil, fmt.Errorf("index map: local index %d outside [0, %d): %w", l, len(m.global), ErrDimensionMismatch)
		}
		out[i] = m.global[l]
	}
	return out, nil
}

// The induced problem over the depot and one group's customers.
// Matrix, Windows and ServiceTimes are aligned to Index's local order.
type SubProblem struct {
	Group        int
	Index        *IndexMap
	Matrix       DistanceMatrix
	Windows      []TimeWindow
	ServiceTimes []float64
}

// NewSubProblem gathers the rows, columns and per-node data for the
// given customers. Inputs must already be aligned with each other.
func NewSubProblem(
	group int,
	customers []int,
	matrix DistanceMatrix,
	windows []TimeWindow,
	serviceTimes []float64,
) (*SubProblem, error) {
	n := matrix.Size()
	if len(windows) != n || len(serviceTimes) != n {
		return nil, fmt.Errorf(
			"sub-problem %d: matrix=%d windows=%d service=%d: %w",
			group, n, len(windows), len(serviceTimes), ErrDimensionMismatch,
		)
	}

	idx, err := NewIndexMap(customers, n)
	if err != nil {
		return nil, fmt.Errorf("sub-problem %d: %w", group, err)
	}

	ids := idx.Nodes()
	subWindows := make([]TimeWindow, len(ids))
	subService := make([]float64, len(ids))
	for i, g := range ids {
		subWindows[i] = windows[g]
		subService[i] = serviceTimes[g]
	}

	return &SubProblem{
		Group:        group,
		Index:        idx,
		Matrix:       matrix.Gather(ids),
		Windows:      subWindows,
		ServiceTimes: subService,
	}, nil
}
