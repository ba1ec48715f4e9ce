package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// AvailabilityCache stores the marshaled availability view of an event
// in redis under a TTL. The purchase service invalidates the entry
// after every committed booking, so a warm entry is at most TTL stale
// and never survives a counter change.
type AvailabilityCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewAvailabilityCache wraps the given redis client. ttl values <= 0
// fall back to 30 seconds.
func NewAvailabilityCache(rdb *redis.Client, ttl time.Duration) *AvailabilityCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &AvailabilityCache{rdb: rdb, ttl: ttl}
}

func availabilityKey(eventID uint64) string {
	return fmt.Sprintf("availability:%d", eventID)
}

// Get returns the cached payload for the event, or (nil, nil) on a
// cache miss.
func (c *AvailabilityCache) Get(ctx context.Context, eventID uint64) ([]byte, error) {
	bs, err := c.rdb.Get(ctx, availabilityKey(eventID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	return bs, nil
}

// Set stores the payload under the configured TTL.
func (c *AvailabilityCache) Set(ctx context.Context, eventID uint64, payload []byte) error {
	return c.rdb.SetEx(ctx, availabilityKey(eventID), payload, c.ttl).Err()
}

// Invalidate drops the cached entry for the event.
func (c *AvailabilityCache) Invalidate(ctx context.Context, eventID uint64) error {
	return c.rdb.Del(ctx, availabilityKey(eventID)).Err()
}
