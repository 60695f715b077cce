package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"trackify/internal/domain/sighting"
)

const keyPrefix = "sightings:"

// ResultCache keeps recent query results in redis for a short TTL.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// Open parses a redis:// URL and verifies the server answers.
func Open(ctx context.Context, redisURL string, ttl time.Duration) (*ResultCache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewResultCache(rdb, ttl), nil
}

func key(filter sighting.Filter) string {
	if plate, ok := filter.Plate(); ok {
		return keyPrefix + "plate:" + plate
	}
	return keyPrefix + "*"
}

// Get returns the cached result for filter. A miss is (nil, false, nil).
func (c *ResultCache) Get(ctx context.Context, filter sighting.Filter) ([]sighting.Sighting, bool, error) {
	data, err := c.rdb.Get(ctx, key(filter)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var result []sighting.Sighting
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	if result == nil {
		result = []sighting.Sighting{}
	}
	return result, true, nil
}

func (c *ResultCache) Set(ctx context.Context, filter sighting.Filter, result []sighting.Sighting) error {
	data, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key(filter), data, c.ttl).Err()
}

func (c *ResultCache) Close() error {
	return c.rdb.Close()
}
