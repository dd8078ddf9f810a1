package cache

import (
	"context"
	"encoding/json"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/Cascadia376/invoice-automator-sub000/internal/config"
	"github.com/Cascadia376/invoice-automator-sub000/internal/domain"
	"github.com/Cascadia376/invoice-automator-sub000/internal/port"
)

const keyPrefix = "stellarpost:suppliers:"

// RedisSupplierSearchCache caches supplier search results in Redis with a
// short TTL. Safe because directory search is read-only and vendor
// resolution always re-runs preflight.
type RedisSupplierSearchCache struct {
	client *redis.Client
}

// NewRedisSupplierSearchCache creates a Redis-backed supplier search
// cache.
func NewRedisSupplierSearchCache(cfg *config.RedisConfig) *RedisSupplierSearchCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return &RedisSupplierSearchCache{client: client}
}

// Ping verifies connectivity.
func (c *RedisSupplierSearchCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (c *RedisSupplierSearchCache) Close() error {
	return c.client.Close()
}

func (c *RedisSupplierSearchCache) Get(ctx context.Context, key string) ([]domain.SupplierMatch, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var matches []domain.SupplierMatch
	if err := json.Unmarshal([]byte(val), &matches); err != nil {
		return nil, false, err
	}
	return matches, true, nil
}

func (c *RedisSupplierSearchCache) Set(ctx context.Context, key string, matches []domain.SupplierMatch, ttl time.Duration) error {
	if matches == nil {
		return nil
	}
	payload, err := json.Marshal(matches)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, payload, ttl).Err()
}

var _ port.SupplierSearchCache = (*RedisSupplierSearchCache)(nil)
