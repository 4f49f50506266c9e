package main

import (
	"fmt"
	"os"
	"vrptw-route-service/internal/domain"

	"gopkg.in/yaml.v3"
)

// instanceNode is one node of an instance file. JSON is a subset of YAML,
// so a single decoder reads both formats.
type instanceNode struct {
	ID          int     `yaml:"node_id"`
	X           float64 `yaml:"x"`
	Y           float64 `yaml:"y"`
	ServiceTime float64 `yaml:"service_time"`
	WindowStart float64 `yaml:"time_window_start"`
	WindowEnd   float64 `yaml:"time_window_end"`
	Priority    int     `yaml:"priority"`
}

type instance struct {
	K     int            `yaml:"k"`
	Nodes []instanceNode `yaml:"nodes"`
}

func loadInstance(path string) (instance, []domain.Node, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return instance{}, nil, fmt.Errorf("load instance: %w", err)
	}

	var in instance
	if err := yaml.Unmarshal(b, &in); err != nil {
		return instance{}, nil, fmt.Errorf("load instance: parse %q: %w", path, err)
	}

	nodes := make([]domain.Node, 0, len(in.Nodes))
	for _, n := range in.Nodes {
		nodes = append(nodes, domain.Node{
			ID:          n.ID,
			Location:    domain.Point{X: n.X, Y: n.Y},
			Window:      domain.TimeWindow{Start: n.WindowStart, End: n.WindowEnd},
			ServiceTime: n.ServiceTime,
			Priority:    n.Priority,
		})
	}
	if err := domain.ValidateNodes(nodes); err != nil {
		return instance{}, nil, fmt.Errorf("load instance: %w", err)
	}

	return in, nodes, nil
}
