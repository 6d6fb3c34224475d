package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Ramsey-B/edelweiss/pkg/models"
	"github.com/Ramsey-B/edelweiss/pkg/tracing"
)

const keyPrefix = "edelweiss:resolution:"

// Store is the subset of the Redis client the cache needs.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// ResolutionCache keeps resolutions for a fixed time so repeated polls of an
// unchanged source skip matching.
type ResolutionCache struct {
	store Store
	ttl   time.Duration
}

// NewResolutionCache creates a cache whose entries expire after ttl.
func NewResolutionCache(store Store, ttl time.Duration) *ResolutionCache {
	return &ResolutionCache{store: store, ttl: ttl}
}

// Get returns the cached resolution for a fingerprint, if any.
func (c *ResolutionCache) Get(ctx context.Context, key string) (*models.Resolution, bool, error) {
	ctx, span := tracing.StartSpan(ctx, "cache.ResolutionCache.Get")
	defer span.End()

	raw, err := c.store.Get(ctx, keyPrefix+key)
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read cached resolution: %w", err)
	}

	var resolution models.Resolution
	if err := json.Unmarshal([]byte(raw), &resolution); err != nil {
		return nil, false, fmt.Errorf("failed to decode cached resolution: %w", err)
	}
	return &resolution, true, nil
}

// Set stores a resolution under a fingerprint.
func (c *ResolutionCache) Set(ctx context.Context, key string, resolution *models.Resolution) error {
	ctx, span := tracing.StartSpan(ctx, "cache.ResolutionCache.Set")
	defer span.End()

	data, err := json.Marshal(resolution)
	if err != nil {
		return fmt.Errorf("failed to encode resolution: %w", err)
	}
	if err := c.store.Set(ctx, keyPrefix+key, data, c.ttl); err != nil {
		return fmt.Errorf("failed to cache resolution: %w", err)
	}
	return nil
}
