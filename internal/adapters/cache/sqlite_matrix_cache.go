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

// SQLite backed cache of whole distance matrices.
// The matrix_cache table is created by repositories.InitSchema.
type SqliteMatrixCache struct {
	DB *sql.DB
}

func NewSqliteMatrixCache(db *sql.DB) *SqliteMatrixCache {
	return &SqliteMatrixCache{DB: db}
}

// Fetch the cached matrix for key.
func (s *SqliteMatrixCache) Get(ctx context.Context, key string) (_ domain.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.sqlite.Get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("matrix cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	var (
		size    int
		payload string
	)
	err = s.DB.QueryRowContext(ctx, `
	SELECT
		size,
		payload
	FROM matrix_cache
	WHERE cache_key = ?;
	`, key).Scan(&size, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: query matrix_cache table: %w", err)
	}

	m, err := decodeMatrix([]byte(payload), size)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache key=%q: %w", key, err)
	}
	return m, true, nil
}

// Store the matrix under key.
func (s *SqliteMatrixCache) Put(ctx context.Context, key string, m domain.DistanceMatrix) error {
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
	INSERT OR REPLACE INTO matrix_cache (
		cache_key,
		size,
		payload
	)
	VALUES (?, ?, ?);
	`, key, m.Size(), string(payload))
	if err != nil {
		return fmt.Errorf("insert matrix cache key=%q: %w", key, err)
	}

	return nil
}
