package domain

import (
	"fmt"
	"math"
)

// Tolerance used when checking symmetry of floating point matrices.
const symmetryEpsilon = 1e-9

// Square matrix of pairwise travel costs indexed by node id.
// Travel time between two nodes is numerically equal to their distance.
type DistanceMatrix [][]float64

// Size returns the number of nodes covered by the matrix.
func (m DistanceMatrix) Size() int { return len(m) }

// At returns the cost of travelling from i to j.
func (m DistanceMatrix) At(i, j int) float64 { return m[i][j] }

// CheckSquare verifies that every row has exactly Size() entries.
func (m DistanceMatrix) CheckSquare() error {
	n := len(m)
	for i, row := range m {
		if len(row) != n {
			return fmt.Errorf("distance matrix row %d has %d entries, want %d: %w", i, len(row), n, ErrDimensionMismatch)
		}
	}
	return nil
}

// Validate checks shape, sign, diagonal and symmetry.
func (m DistanceMatrix) Validate() error {
	if err := m.CheckSquare(); err != nil {
		return err
	}

	for i := range m {
		if m[i][i] != 0 {
			return fmt.Errorf("distance matrix [%d][%d]=%v is not zero: %w", i, i, m[i][i], ErrInvalidMatrix)
		}
		for j := i + 1; j < len(m); j++ {
			a, b := m[i][j], m[j][i]
			if math.IsNaN(a) || math.IsNaN(b) || a < 0 || b < 0 {
				return fmt.Errorf("distance matrix [%d][%d] is negative or NaN: %w", i, j, ErrInvalidMatrix)
			}
			if math.Abs(a-b) > symmetryEpsilon {
				return fmt.Errorf("distance matrix [%d][%d]=%v != [%d][%d]=%v: %w", i, j, a, j, i, b, ErrInvalidMatrix)
			}
		}
	}
	return nil
}

// Gather returns the induced sub-matrix over the given node ids,
// in the order given. Rows and columns are copied, not recomputed.
func (m DistanceMatrix) Gather(ids []int) DistanceMatrix {
	out := make(DistanceMatrix, len(ids))
	for a, ga := range ids {
		row := make([]float64, len(ids))
		for b, gb := range ids {
			row[b] = m[ga][gb]
		}
		out[a] = row
	}
	return out
}
