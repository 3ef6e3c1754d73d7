// Package cache stores solve responses in Redis under the problem's
// fingerprint. Solving is deterministic, so a hit is as good as a re-solve.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/njchilds90/penalty"
)

// KeyPrefix namespaces cached reports.
const KeyPrefix = "penalty:report:"

// KV is the subset of *redis.Client the cache needs.
type KV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// Cache reads and writes SolveResponses.
type Cache struct {
	kv  KV
	ttl time.Duration
}

// New wraps a Redis client. A zero ttl keeps entries forever.
func New(kv KV, ttl time.Duration) *Cache {
	return &Cache{kv: kv, ttl: ttl}
}

// ConnectRedis creates a Redis client from a URL.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis URL: %w", err)
	}
	return redis.NewClient(opts), nil
}

// Key returns the Redis key for a fingerprint.
func Key(fingerprint string) string { return KeyPrefix + fingerprint }

// Get returns the cached response. A miss is (zero, false, nil).
func (c *Cache) Get(ctx context.Context, fingerprint string) (penalty.SolveResponse, bool, error) {
	var resp penalty.SolveResponse
	raw, err := c.kv.Get(ctx, Key(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return resp, false, nil
	}
	if err != nil {
		return resp, false, fmt.Errorf("cache get %s: %w", fingerprint, err)
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return resp, false, fmt.Errorf("cache decode %s: %w", fingerprint, err)
	}
	return resp, true, nil
}

// Put stores resp under fingerprint.
func (c *Cache) Put(ctx context.Context, fingerprint string, resp penalty.SolveResponse) error {
	raw, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", fingerprint, err)
	}
	if err := c.kv.Set(ctx, Key(fingerprint), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", fingerprint, err)
	}
	return nil
}
