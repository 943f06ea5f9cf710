// Package catalogcache caches the de-duplicated catalog snapshot in Redis.
package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/internal/domain"
)

// Cache stores the catalog snapshot.
type Cache interface {
	Get(ctx context.Context) ([]domain.ProductRecord, bool, error)
	Set(ctx context.Context, records []domain.ProductRecord) error
	Invalidate(ctx context.Context) error
}

type redisCache struct {
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *zap.Logger
}

// NewClient opens a Redis client for addr.
func NewClient(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

func NewRedis(rdb redis.UniversalClient, ttl time.Duration, logger *zap.Logger) Cache {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = TTLSnapshot
	}
	return &redisCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (c *redisCache) Get(ctx context.Context) ([]domain.ProductRecord, bool, error) {
	data, err := c.rdb.Get(ctx, KeySnapshot).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get snapshot: %w", err)
	}
	var records []domain.ProductRecord
	if err := json.Unmarshal(data, &records); err != nil {
		c.logger.Warn("discarding corrupt catalog snapshot", zap.Error(err))
		return nil, false, nil
	}
	c.logger.Debug("catalog snapshot cache hit", zap.Int("records", len(records)))
	return records, true, nil
}

func (c *redisCache) Set(ctx context.Context, records []domain.ProductRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := c.rdb.Set(ctx, KeySnapshot, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, KeySnapshot).Err()
}

// Nop never hits. Used when Redis is not configured.
type Nop struct{}

func (Nop) Get(context.Context) ([]domain.ProductRecord, bool, error)  { return nil, false, nil }
func (Nop) Set(context.Context, []domain.ProductRecord) error          { return nil }
func (Nop) Invalidate(context.Context) error                           { return nil }
