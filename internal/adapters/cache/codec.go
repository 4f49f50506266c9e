package cache

import (
	"encoding/json"
	"fmt"
	"vrptw-route-service/internal/domain"
)

func encodeMatrix(m domain.DistanceMatrix) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode matrix: %w", err)
	}
	return b, nil
}

// decodeMatrix parses a stored matrix and checks it against the recorded size.
func decodeMatrix(b []byte, size int) (domain.DistanceMatrix, error) {
	var m domain.DistanceMatrix
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	if m.Size() != size {
		return nil, fmt.Errorf("decode matrix: stored size %d, decoded %d: %w", size, m.Size(), domain.ErrDimensionMismatch)
	}
	if err := m.CheckSquare(); err != nil {
		return nil, fmt.Errorf("decode matrix: %w", err)
	}
	return m, nil
}
