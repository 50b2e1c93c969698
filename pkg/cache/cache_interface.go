package cache

import (
	"context"
	"time"
)

// Cache is the contract of the cache layer so the Redis implementation
// can be swapped in tests.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found=false on a miss, dest untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value as JSON with a TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Ping(ctx context.Context) error
}
