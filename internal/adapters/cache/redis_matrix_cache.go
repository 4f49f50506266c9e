package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"vrptw-route-service/internal/domain"
	"vrptw-route-service/internal/platform/obs"

	"github.com/redis/go-redis/v9"
)

// RedisMatrixCache stores matrices as hashes holding the size and the
// encoded payload, with an optional expiry.
type RedisMatrixCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisMatrixCache wraps an existing client. A ttl of zero keeps entries forever.
func NewRedisMatrixCache(rdb *redis.Client, ttl time.Duration) *RedisMatrixCache {
	return &RedisMatrixCache{rdb: rdb, ttl: ttl}
}

// Fetch the cached matrix for key.
func (r *RedisMatrixCache) Get(ctx context.Context, key string) (_ domain.DistanceMatrix, _ bool, err error) {
	defer obs.Time(ctx, "matrix.cache.redis.Get")(&err)

	if r.rdb == nil {
		return nil, false, errors.New("matrix cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, errors.New("get matrix cache: key must not be empty")
	}

	vals, err := r.rdb.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache: hgetall %q: %w", key, err)
	}
	if len(vals) == 0 {
		return nil, false, nil
	}

	size, err := strconv.Atoi(vals["size"])
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache key=%q: parse size: %w", key, err)
	}

	m, err := decodeMatrix([]byte(vals["payload"]), size)
	if err != nil {
		return nil, false, fmt.Errorf("get matrix cache key=%q: %w", key, err)
	}
	return m, true, nil
}

// Store the matrix under key.
func (r *RedisMatrixCache) Put(ctx context.Context, key string, m domain.DistanceMatrix) error {
	if r.rdb == nil {
		return errors.New("matrix cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return errors.New("insert matrix cache: key must not be empty")
	}

	payload, err := encodeMatrix(m)
	if err != nil {
		return fmt.Errorf("insert matrix cache: %w", err)
	}

	_, err = r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, "size", m.Size(), "payload", string(payload))
		if r.ttl > 0 {
			pipe.Expire(ctx, key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert matrix cache key=%q: %w", key, err)
	}

	return nil
}
