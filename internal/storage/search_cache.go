package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/listing-sync/internal/models"
	"github.com/redis/go-redis/v9"
)

// SearchCache caches serialized search responses so repeated frontend
// queries between syncs skip Postgres. Entries expire on a short TTL rather
// than being invalidated by the sync.
type SearchCache struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewSearchCache creates a new search cache
func NewSearchCache(redis *RedisCache, ttl time.Duration) *SearchCache {
	return &SearchCache{redis: redis, ttl: ttl}
}

// Key builds the cache key for a normalized set of search params.
// Format: search:<city>:<zip>:<type>:<minp>:<maxp>:<beds>:<baths>:<kw>:<page>:<limit>
func (c *SearchCache) Key(params *models.PropertySearchParams) string {
	parts := []string{
		"search",
		strings.ToLower(params.City),
		params.Zip,
		strings.ToLower(params.PropertyType),
		fmt.Sprintf("%.0f", params.MinPrice),
		fmt.Sprintf("%.0f", params.MaxPrice),
		fmt.Sprintf("%d", params.Bedrooms),
		fmt.Sprintf("%d", params.Bathrooms),
		strings.ToLower(params.Keyword),
		fmt.Sprintf("%d", params.Page),
		fmt.Sprintf("%d", params.Limit),
	}
	return strings.Join(parts, ":")
}

// Get returns the cached response for params, or (nil, nil) on a miss.
func (c *SearchCache) Get(ctx context.Context, params *models.PropertySearchParams) (*models.PropertyResponse, error) {
	data, err := c.redis.Get(ctx, c.Key(params))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read search cache: %w", err)
	}

	var resp models.PropertyResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		// Treat a corrupt entry as a miss.
		_ = c.redis.Del(ctx, c.Key(params)) // nolint:errcheck
		return nil, nil
	}
	return &resp, nil
}

// Set stores a response for params with the configured TTL.
func (c *SearchCache) Set(ctx context.Context, params *models.PropertySearchParams, resp *models.PropertyResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("failed to marshal search response: %w", err)
	}
	return c.redis.Set(ctx, c.Key(params), data, c.ttl)
}
