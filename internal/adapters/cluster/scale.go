package cluster

import "vrptw-route-service/internal/domain"

// MinMaxScale maps each axis independently onto [0, 1]. An axis with no
// spread maps to 0.
func MinMaxScale(points []domain.Point) []domain.Point {
	out := make([]domain.Point, len(points))
	if len(points) == 0 {
		return out
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	for i, p := range points {
		out[i] = domain.Point{X: scale(p.X, minX, maxX), Y: scale(p.Y, minY, maxY)}
	}
	return out
}

func scale(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
