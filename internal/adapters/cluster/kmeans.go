package cluster

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"vrptw-route-service/internal/domain"
)

const defaultMaxIter = 300

// KMeans partitions customers by spatial proximity.
//
// Coordinates are min-max scaled per axis before clustering. Centers are
// seeded with k-means++ from a seeded generator and refined with Lloyd
// iterations, so the same seed and input always give the same partition.
// The depot is never clustered.
type KMeans struct {
	Seed    int64
	MaxIter int
}

func NewKMeans(seed int64) *KMeans {
	return &KMeans{Seed: seed, MaxIter: defaultMaxIter}
}

func (k *KMeans) Partition(ctx context.Context, nodes []domain.Node, groupCount int) (domain.Partition, error) {
	if groupCount <= 0 {
		return nil, fmt.Errorf("kmeans: group count %d: %w", groupCount, domain.ErrInvalidPartition)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("kmeans: no depot: %w", domain.ErrDimensionMismatch)
	}

	customers := nodes[1:]
	out := make(domain.Partition, len(customers))
	if len(customers) == 0 {
		return out, nil
	}

	points := make([]domain.Point, len(customers))
	for i, c := range customers {
		points[i] = c.Location
	}
	points = MinMaxScale(points)

	labels, err := k.fit(ctx, points, min(groupCount, len(points)))
	if err != nil {
		return nil, err
	}

	for i, c := range customers {
		out[c.ID] = labels[i]
	}
	return out, nil
}

func (k *KMeans) fit(ctx context.Context, points []domain.Point, clusters int) ([]int, error) {
	maxIter := k.MaxIter
	if maxIter <= 0 {
		maxIter = defaultMaxIter
	}

	rng := rand.New(rand.NewPCG(uint64(k.Seed), 0x9e3779b97f4a7c15))
	centers := seedCenters(rng, points, clusters)

	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = -1
	}

	for iter := 0; iter < maxIter; iter++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("kmeans: %w", err)
		}

		changed := false
		for i, p := range points {
			c := nearestCenter(centers, p)
			if c != labels[i] {
				labels[i] = c
				changed = true
			}
		}
		if !changed {
			break
		}

		centers = recomputeCenters(points, labels, centers)
	}

	return labels, nil
}

// seedCenters picks initial centers with the k-means++ rule: each new center
// is drawn with probability proportional to its squared distance from the
// nearest existing one.
func seedCenters(rng *rand.Rand, points []domain.Point, clusters int) []domain.Point {
	centers := make([]domain.Point, 0, clusters)
	centers = append(centers, points[rng.IntN(len(points))])

	d2 := make([]float64, len(points))
	for len(centers) < clusters {
		total := 0.0
		for i, p := range points {
			d2[i] = sqDist(p, centers[nearestCenter(centers, p)])
			total += d2[i]
		}

		if total == 0 {
			centers = append(centers, points[rng.IntN(len(points))])
			continue
		}

		target := rng.Float64() * total
		pick := len(points) - 1
		for i, d := range d2 {
			target -= d
			if target < 0 {
				pick = i
				break
			}
		}
		centers = append(centers, points[pick])
	}

	return centers
}

// recomputeCenters moves each center to the mean of its members. An empty
// cluster takes the point farthest from its own center.
func recomputeCenters(points []domain.Point, labels []int, prev []domain.Point) []domain.Point {
	sums := make([]domain.Point, len(prev))
	counts := make([]int, len(prev))
	for i, p := range points {
		l := labels[i]
		sums[l].X += p.X
		sums[l].Y += p.Y
		counts[l]++
	}

	out := make([]domain.Point, len(prev))
	for c := range out {
		if counts[c] == 0 {
			out[c] = farthestPoint(points, labels, prev)
			continue
		}
		out[c] = domain.Point{X: sums[c].X / float64(counts[c]), Y: sums[c].Y / float64(counts[c])}
	}
	return out
}

func farthestPoint(points []domain.Point, labels []int, centers []domain.Point) domain.Point {
	best, bestD := 0, -1.0
	for i, p := range points {
		if d := sqDist(p, centers[labels[i]]); d > bestD {
			best, bestD = i, d
		}
	}
	return points[best]
}

// nearestCenter returns the index of the closest center; ties go to the lower index.
func nearestCenter(centers []domain.Point, p domain.Point) int {
	best, bestD := 0, math.Inf(1)
	for c, center := range centers {
		if d := sqDist(p, center); d < bestD {
			best, bestD = c, d
		}
	}
	return best
}

func sqDist(a, b domain.Point) float64 {
	dx, dy := a.X-b.X, a.Y-b.Y
	return dx*dx + dy*dy
}
