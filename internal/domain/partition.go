package domain

import (
	"fmt"
	"slices"
)

// Partition maps a customer node id to its group id in [0, K).
// The depot never appears in a partition.
type Partition map[int]int

// Validate checks that every customer in [1, nodeCount) is assigned to
// exactly one group in [0, groupCount) and nothing else is assigned.
func (p Partition) Validate(nodeCount, groupCount int) error {
	if groupCount <= 0 {
		return fmt.Errorf("group count %d: %w", groupCount, ErrInvalidPartition)
	}
	for node, group := range p {
		if node <= DepotIndex || node >= nodeCount {
			return fmt.Errorf("node %d outside [1, %d): %w", node, nodeCount, ErrInvalidPartition)
		}
		if group < 0 || group >= groupCount {
			return fmt.Errorf("node %d assigned to group %d outside [0, %d): %w", node, group, groupCount, ErrInvalidPartition)
		}
	}
	for node := 1; node < nodeCount; node++ {
		if _, ok := p[node]; !ok {
			return fmt.Errorf("node %d has no group: %w", node, ErrInvalidPartition)
		}
	}
	return nil
}

// Members returns the customers of each group in ascending node order.
func (p Partition) Members(groupCount int) [][]int {
	nodes := make([]int, 0, len(p))
	for n := range p {
		nodes = append(nodes, n)
	}
	slices.Sort(nodes)

	out := make([][]int, groupCount)
	for _, n := range nodes {
		g := p[n]
		out[g] = append(out[g], n)
	}
	return out
}
