package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/obs"
)

// SQLite-backed implementation of the NodeRepository port.
type SqliteNodeRepository struct{ DB *sql.DB }

func NewSqliteNodeRepository(db *sql.DB) *SqliteNodeRepository {
	return &SqliteNodeRepository{DB: db}
}

// Return all nodes stored in the database, depot first.
func (s *SqliteNodeRepository) ListNodes(ctx context.Context) (_ []domain.Node, err error) {
	defer obs.Time(ctx, "repo.ListNodes")(&err)

	if s.DB == nil {
		return nil, errors.New("sqlite node repository: DB is nil")
	}

	query := `
	SELECT
		node_id,
		x,
		y,
		service_time,
		window_start,
		window_end,
		priority
	FROM nodes
	ORDER BY node_id;
	`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list nodes: query nodes table: %w", err)
	}
	defer rows.Close()

	nodes := make([]domain.Node, 0, 64)
	for rows.Next() {
		var n domain.Node
		err := rows.Scan(&n.ID, &n.Location.X, &n.Location.Y, &n.ServiceTime, &n.Window.Start, &n.Window.End, &n.Priority)
		if err != nil {
			return nil, fmt.Errorf("list nodes: scan row: %w", err)
		}
		nodes = append(nodes, n)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list nodes: row iteration: %w", err)
	}

	return nodes, nil
}
