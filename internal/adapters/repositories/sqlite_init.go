package repositories

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"vrptw-route-service/internal/domain"
)

// Initialize the SQLite database schema.
func InitSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	createNodesQuery := `
	CREATE TABLE IF NOT EXISTS nodes (
		node_id INTEGER PRIMARY KEY,
		x REAL NOT NULL,
		y REAL NOT NULL,
		service_time REAL NOT NULL DEFAULT 0,
		window_start REAL NOT NULL,
		window_end REAL NOT NULL,
		priority INTEGER NOT NULL DEFAULT 0,
		CHECK (window_end >= window_start),
		CHECK (service_time >= 0)
	);
	`

	createMatrixCacheQuery := `
	CREATE TABLE IF NOT EXISTS matrix_cache (
		cache_key TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		payload TEXT NOT NULL
	);
	`

	statements := []string{
		createNodesQuery,
		createMatrixCacheQuery,
	}

	for i, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}

// JSON shape of a seeded node.
type NodeSeed struct {
	NodeID      int     `json:"node_id"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	ServiceTime float64 `json:"service_time"`
	WindowStart float64 `json:"time_window_start"`
	WindowEnd   float64 `json:"time_window_end"`
	Priority    int     `json:"priority"`
}

// ToNode converts the seed into a domain node.
func (s NodeSeed) ToNode() domain.Node {
	return domain.Node{
		ID:          s.NodeID,
		Location:    domain.Point{X: s.X, Y: s.Y},
		Window:      domain.TimeWindow{Start: s.WindowStart, End: s.WindowEnd},
		ServiceTime: s.ServiceTime,
		Priority:    s.Priority,
	}
}

// NodeSeedFrom converts a domain node into its JSON shape.
func NodeSeedFrom(n domain.Node) NodeSeed {
	return NodeSeed{
		NodeID:      n.ID,
		X:           n.Location.X,
		Y:           n.Location.Y,
		ServiceTime: n.ServiceTime,
		WindowStart: n.Window.Start,
		WindowEnd:   n.Window.End,
		Priority:    n.Priority,
	}
}

// Populate the database with node data from a JSON file.
func SeedFromJSON(db *sql.DB, jsonPath string) error {
	bytes, err := os.ReadFile(jsonPath)
	if err != nil {
		return fmt.Errorf("seed nodes: read %q: %w", jsonPath, err)
	}

	var data []NodeSeed
	if err := json.Unmarshal(bytes, &data); err != nil {
		return fmt.Errorf("seed nodes: parse json: %w", err)
	}

	nodes := make([]domain.Node, 0, len(data))
	for _, item := range data {
		nodes = append(nodes, item.ToNode())
	}

	return SeedNodes(db, nodes)
}

// Replace the stored nodes with the given set. Nodes must be indexed
// 0..n-1 with the depot first.
func SeedNodes(db *sql.DB, nodes []domain.Node) error {
	if db == nil {
		return errors.New("seed nodes: DB is nil")
	}
	if err := domain.ValidateNodes(nodes); err != nil {
		return fmt.Errorf("seed nodes: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed nodes: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM nodes;`); err != nil {
		return fmt.Errorf("seed nodes: clear table: %w", err)
	}

	query := `
	INSERT INTO nodes (
		node_id,
		x,
		y,
		service_time,
		window_start,
		window_end,
		priority
	)
	VALUES (?, ?, ?, ?, ?, ?, ?);
	`
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("seed nodes: prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, n := range nodes {
		if _, err := stmt.Exec(n.ID, n.Location.X, n.Location.Y, n.ServiceTime, n.Window.Start, n.Window.End, n.Priority); err != nil {
			return fmt.Errorf("seed nodes: insert node_id=%d: %w", n.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed nodes: commit tx: %w", err)
	}

	return nil
}
