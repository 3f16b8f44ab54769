// Package queue defines the bulk-ingest queue: a durable, owner-scoped,
// append-only list of pending batches. Enqueue acknowledges acceptance, not
// application; a separate processor drains queues on its own schedule.
//
// Delivery is at-least-once. A batch stays queued until the processor has
// fully applied it and explicitly dropped the owner's queue; a crash between
// those two steps re-delivers the batch on the next drain.
package queue

import (
	"context"
	"time"

	"github.com/unkn0wn-root/shelfcache/store"
)

// Batch is one enqueued bulk-write request.
type Batch struct {
	ID         string
	Owner      string
	Items      []store.Payload // ordered, as submitted
	EnqueuedAt time.Time
}

// Drained is one owner's pending batches as seen by DrainAll.
// Corrupt counts list entries that failed to decode and were skipped.
type Drained struct {
	Owner   string
	Batches []Batch
	Corrupt int
}

// Queue is the bulk-ingest queue.
// Must be safe for concurrent use.
type Queue interface {
	// Enqueue appends a new batch to owner's queue and returns its id.
	// Items must be non-empty; emptiness is rejected before this layer.
	// Implementations refresh a retention expiry on the queue as a safety
	// net against indefinitely orphaned data.
	Enqueue(ctx context.Context, owner string, items []store.Payload) (string, error)

	// DrainAll enumerates every owner's pending batches without removing
	// them. Removal is the caller's job, via Drop, after successful
	// application. Each owner appears at most once per call.
	//
	// DrainAll may return results and an error together: owners whose
	// queues could not be read are reported in the error and left queued,
	// while the returned entries are still valid to process.
	DrainAll(ctx context.Context) ([]Drained, error)

	// Drop deletes owner's entire queue. Dropping an absent queue is a
	// no-op success.
	Drop(ctx context.Context, owner string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
