// Package cache defines the byte-store abstraction used for owner-scoped
// snapshots. The cache is a lossy accelerator: entries may vanish at any
// time (TTL expiry, eviction, restart) and callers must treat every failure
// as a miss, never as a request failure. Ground truth lives in the store.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the same []byte that was previously passed to Set for a key. The keyspace
// "cache:<ns>:" is owned by shelfcache; foreign writes under it may be
// treated as corruption and deleted.
package cache

import (
	"context"
	"time"
)

// Cache is a minimal byte store with TTLs.
// Must be safe for concurrent use.
type Cache interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	// Expired entries are misses, not errors.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL, overwriting unconditionally.
	// Returns ok=false when the store rejected the write under pressure.
	// ttl <= 0 means "no expiry" where the backend supports it.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Deleting an absent key is a no-op success.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
