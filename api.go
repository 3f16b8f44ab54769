package shelfcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/shelfcache/cache"
	"github.com/unkn0wn-root/shelfcache/codec"
	"github.com/unkn0wn-root/shelfcache/queue"
	"github.com/unkn0wn-root/shelfcache/store"
)

// Service is the operation surface exposed to the request-handling layer.
// owner is an already-authenticated principal identifier; authentication is
// the caller's job and owner is opaque here.
type Service interface {
	// GetByOwner returns all of owner's records, from cache when a fresh
	// snapshot exists, otherwise from the store (populating the cache
	// best-effort). Cache failures never fail the read.
	//
	// A read racing a concurrent mutation may repopulate the cache with
	// pre-mutation data; such staleness lasts at most one TTL.
	GetByOwner(ctx context.Context, owner string) ([]store.Record, error)

	// Create validates payload, writes it to the store, then invalidates
	// owner's cached snapshot.
	Create(ctx context.Context, owner string, payload store.Payload) (store.Record, error)

	// Update shallow-merges partial into an existing record, then
	// invalidates owner's cached snapshot.
	Update(ctx context.Context, owner, id string, partial store.Payload) (store.Record, error)

	// Delete removes one record, then invalidates owner's cached snapshot.
	Delete(ctx context.Context, owner, id string) error

	// EnqueueBulk accepts a non-empty batch of payloads for later,
	// asynchronous application and returns the batch id immediately.
	// The acknowledgment means "accepted", not "applied"; processing
	// failures are logged, never surfaced to this caller.
	EnqueueBulk(ctx context.Context, owner string, items []store.Payload) (batchID string, err error)

	// ProcessPending drains every owner's queued batches once: validates
	// items (skipping bad ones individually), bulk-inserts the valid ones,
	// drops each fully-applied queue, and invalidates the owner's cache.
	// A failure on one owner never blocks the others. Normally driven by
	// a Processor; exposed for manual ticks in tests and one-shot jobs.
	ProcessPending(ctx context.Context) error

	// Close releases the cache, queue, and store.
	Close(ctx context.Context) error
}

// Options tune the service. Namespace, Store, Cache, and Queue are required;
// others have sensible defaults.
type Options struct {
	// Required
	Namespace string // logical namespace to avoid collisions, e.g. "books"
	Store     store.Store
	Cache     cache.Cache
	Queue     queue.Queue

	Codec    codec.Codec[[]store.Record] // nil => JSON
	Logger   Logger                      // nil => NopLogger
	Hooks    Hooks                       // nil => NopHooks
	Validate ItemValidator               // nil => NonEmpty()

	CacheTTL     time.Duration // snapshot freshness bound; 0 => 60s
	CacheTimeout time.Duration // per-call bound on cache ops; 0 => 500ms
	StoreTimeout time.Duration // per-call bound on store ops; 0 => 5s

	// Disabled bypasses the cache entirely: every read is answered by the
	// store and invalidation becomes a no-op. Queue and store behavior is
	// unchanged. Useful when chasing staleness bugs.
	Disabled bool
}

func New(opts Options) (Service, error) {
	return newService(opts)
}
