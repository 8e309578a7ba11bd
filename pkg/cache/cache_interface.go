package cache

import (
	"context"
	"time"
)

// Cache is the contract for the cache layer. It allows the Redis
// implementation to be swapped out for an in-memory one in tests.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// found is false on a cache miss, in which case dest is untouched.
	Get(ctx context.Context, key string, dest interface{}) (found bool, err error)

	// Set stores a value under key with the given TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes the given keys.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes all keys matching a glob pattern.
	DeletePattern(ctx context.Context, pattern string) error

	// Ping verifies the connection.
	Ping(ctx context.Context) error
}
