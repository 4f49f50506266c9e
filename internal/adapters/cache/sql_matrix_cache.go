package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/obs"
)

// SQLMatrixCache is a PostgreSQL-backed cache of whole distance matrices.
type SQLMatrixCache struct {
	DB *sql.DB
}

func NewSQLMatrixCache(db *sql.DB) *SQLMatrixCache {
	return &SQLMatrixCache{DB: db}
}

// InitSchema creates the matrix_cache table when missing.
func (s *SQLMatrixCache) InitSchema(ctx context.Context) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}

	_, err := s.DB.ExecContext(ctx, `
	CREATE TABLE IF NOT EXISTS matrix_cache (
		cache_key TEXT PRIMARY KEY,
		size INTEGER NOT NULL,
		payload JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	`)
	if err != nil {
		return fmt.Errorf("matrix cache: create table: %w", err)
	}
	return nil
}

// Fetch the cached matrix for key.
func (s *SQLMatrixCache) Get(ctx context.Context, key string) (_ domain.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.sql.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	var (
		size    int
		payload []byte
	)
	err = s.DB.QueryRowContext(ctx, `
	SELECT size, payload
	FROM matrix_cache
	WHERE cache_key = $1;
	`, key).Scan(&size, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	m, err := decodeMatrix(payload, size)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache key=%q: %w", key, err)
	}
	return m, true, nil
}

// Store the matrix under key.
func (s *SQLMatrixCache) Put(ctx context.Context, key string, m domain.DistanceMatrix) error {
	if s.DB == nil {
		return errors.New("matrix cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}

	payload, err := encodeMatrix(m)
	if err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO matrix_cache (cache_key, size, payload, updated_at)
	VALUES ($1, $2, $3, now())
	ON CONFLICT (cache_key) DO UPDATE
	SET size = EXCLUDED.size,
		payload = EXCLUDED.payload,
		updated_at = EXCLUDED.updated_at;
	`, key, m.Size(), payload)
	if err != nil {
		return fmt.Errorf("insert matrix cache key=%q: %w", key, err)
	}

	return nil
}
