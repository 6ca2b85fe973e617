package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moonlight-energy/solar-dashboard/internal/solar"
)

const summariesKey = "solardash:summaries"

// SummaryCache shares computed country summaries between dashboard replicas
// through Redis, so a fleet serving the same data files does not recompute
// the report on every instance. Entries expire after the configured TTL;
// a miss or Redis error simply falls back to a local recompute.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSummaryCache connects to Redis and returns a cache handle.
// ttl of 0 uses a default of 30 minutes.
func NewSummaryCache(addr, password string, db int, ttl time.Duration) (*SummaryCache, error) {
	if addr == "" {
		return nil, errors.New("redis address cannot be empty")
	}
	if db < 0 {
		return nil, errors.New("redis database number must be >= 0")
	}

	if ttl == 0 {
		ttl = 30 * time.Minute
	}

	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &SummaryCache{
		client: client,
		ttl:    ttl,
	}, nil
}

// Put stores the computed summaries with TTL-based expiration.
func (c *SummaryCache) Put(ctx context.Context, summaries map[string]solar.CountrySummary) error {
	data, err := json.Marshal(summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal summaries: %w", err)
	}

	if err := c.client.Set(ctx, summariesKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store summaries in redis: %w", err)
	}
	return nil
}

// Get retrieves the cached summaries.
//
// Returns:
//   - summaries: the cached map (nil if not found)
//   - found: true if an entry exists
//   - error: non-nil on Redis or decode failure (excluding "not found")
func (c *SummaryCache) Get(ctx context.Context) (map[string]solar.CountrySummary, bool, error) {
	data, err := c.client.Get(ctx, summariesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get summaries from redis: %w", err)
	}

	var summaries map[string]solar.CountrySummary
	if err := json.Unmarshal(data, &summaries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal summaries: %w", err)
	}
	return summaries, true, nil
}

// Invalidate drops the cached summaries, forcing the next read to recompute.
func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, summariesKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate summaries in redis: %w", err)
	}
	return nil
}

// Close releases the Redis connection pool.
func (c *SummaryCache) Close() error {
	return c.client.Close()
}
