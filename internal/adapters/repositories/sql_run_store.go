package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"vrptw-route-service/internal/platform/obs"
	"vrptw-route-service/internal/ports"
)

// PostgreSQL-backed implementation of the RunStore port.
type SQLRunStore struct{ DB *sql.DB }

func NewSQLRunStore(db *sql.DB) *SQLRunStore {
	return &SQLRunStore{DB: db}
}

// InitSchema creates the solve_runs table when missing.
func (s *SQLRunStore) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("run store: DB is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS solve_runs (
		run_id UUID PRIMARY KEY,
		mode TEXT NOT NULL,
		group_count INTEGER NOT NULL,
		node_count INTEGER NOT NULL,
		visited INTEGER NOT NULL,
		total_distance DOUBLE PRECISION NOT NULL,
		total_time DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	);
	`)
	if err != nil {
		return fmt.Errorf("run store: create table: %w", err)
	}
	return nil
}

// Record a completed planning run.
func (s *SQLRunStore) SaveRun(ctx context.Context, run ports.RunRecord) (err error) {
	defer obs.Time(ctx, "runs.SaveRun")(&err)

	if s.DB == nil {
		return errors.New("run store: DB is nil")
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO solve_runs (run_id, mode, group_count, node_count, visited, total_distance, total_time, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`, run.ID, run.Mode, run.GroupCount, run.NodeCount, run.Visited, run.TotalDistance, run.TotalTime, run.CreatedAt)
	if err != nil {
		return fmt.Errorf("save run %s: %w", run.ID, err)
	}
	return nil
}

// Return the most recent runs, newest first.
func (s *SQLRunStore) ListRuns(ctx context.Context, limit int) (_ []ports.RunRecord, err error) {
	defer obs.Time(ctx, "runs.ListRuns")(&err)

	if s.DB == nil {
		return nil, errors.New("run store: DB is nil")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.DB.QueryContext(ctx, `
	SELECT run_id, mode, group_count, node_count, visited, total_distance, total_time, created_at
	FROM solve_runs
	ORDER BY created_at DESC
	LIMIT $1;
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: query solve_runs table: %w", err)
	}
	defer rows.Close()

	out := make([]ports.RunRecord, 0, limit)
	for rows.Next() {
		var r ports.RunRecord
		if err := rows.Scan(&r.ID, &r.Mode, &r.GroupCount, &r.NodeCount, &r.Visited, &r.TotalDistance, &r.TotalTime, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: scan row: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: row iteration: %w", err)
	}

	return out, nil
}
