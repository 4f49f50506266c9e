package generator

import (
	"errors"
	"math/rand/v2"
	"vrptw-route-service/internal/domain"
)

// Options controls synthetic dataset generation. Start from DefaultOptions
// and override fields as needed.
type Options struct {
	Customers   int
	MinX, MaxX  float64
	MinY, MaxY  float64
	Depot       domain.Point
	ServiceTime float64
	// Window starts are drawn from [0, LatestStart).
	LatestStart float64
	// Window lengths are drawn from [MinWindow, MaxWindow).
	MinWindow   float64
	MaxWindow   float64
	Horizon     float64
	MaxPriority int
	Seed        int64
}

func DefaultOptions() Options {
	return Options{
		Customers:   50,
		MinX:        0,
		MaxX:        100,
		MinY:        0,
		MaxY:        100,
		Depot:       domain.Point{X: 50, Y: 50},
		ServiceTime: 10,
		LatestStart: 480,
		MinWindow:   30,
		MaxWindow:   120,
		Horizon:     1000,
		MaxPriority: 5,
		Seed:        42,
	}
}

// Generate returns a depot followed by opts.Customers random customers.
// The same options always produce the same nodes.
func Generate(opts Options) ([]domain.Node, error) {
	if opts.Customers < 0 {
		return nil, errors.New("generate: customer count must not be negative")
	}
	if opts.MaxX < opts.MinX || opts.MaxY < opts.MinY {
		return nil, errors.New("generate: coordinate ranges are inverted")
	}
	if opts.MaxWindow < opts.MinWindow || opts.MinWindow < 0 || opts.LatestStart < 0 {
		return nil, errors.New("generate: window bounds are invalid")
	}
	if opts.MaxPriority < 1 {
		opts.MaxPriority = 1
	}

	rng := rand.New(rand.NewPCG(uint64(opts.Seed), uint64(opts.Seed)>>1|1))

	nodes := make([]domain.Node, 0, opts.Customers+1)
	nodes = append(nodes, domain.Node{
		ID:       domain.DepotIndex,
		Location: opts.Depot,
		Window:   domain.TimeWindow{Start: 0, End: opts.Horizon},
	})

	for i := 1; i <= opts.Customers; i++ {
		x := uniform(rng, opts.MinX, opts.MaxX)
		y := uniform(rng, opts.MinY, opts.MaxY)
		start := uniform(rng, 0, opts.LatestStart)
		end := start + uniform(rng, opts.MinWindow, opts.MaxWindow)

		nodes = append(nodes, domain.Node{
			ID:          i,
			Location:    domain.Point{X: x, Y: y},
			Window:      domain.TimeWindow{Start: start, End: end},
			ServiceTime: opts.ServiceTime,
			Priority:    1 + rng.IntN(opts.MaxPriority),
		})
	}

	return nodes, nil
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}
