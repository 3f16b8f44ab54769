// Package shelfcache implements an owner-scoped cache-aside read path with
// asynchronous, queued bulk-write ingestion on top of pluggable backends.
//
// Components:
//   - store.Store: persistent record repository, the source of truth.
//   - cache.Cache: byte store with TTL (e.g. Redis, BigCache, Ristretto).
//   - queue.Queue: durable per-owner list of pending bulk batches (Redis).
//   - codec.Codec[V]: (de)serializes values <-> []byte.
//   - Service: cache-aside reads, invalidate-after-write mutations, and
//     fire-and-forget bulk enqueue.
//   - Processor: fixed-interval consumer that applies queued batches to the
//     store, then clears the queue and the owner's cache entry.
//
// Keys, owner-scoped:
//
//	cache:<ns>:<owner>  - cached snapshot of the owner's records
//	bulk:<ns>:<owner>   - the owner's pending bulk batches
//
// Consistency: the cache is fail-open. Every cache error is treated as a
// miss and answered from the store; store errors are surfaced unchanged.
// Within one owner the system is eventually consistent, not linearizable: a
// read racing a write may repopulate the cache with pre-write state for up
// to one TTL. Mutations therefore invalidate after the store write, which
// narrows but does not close that window.
package shelfcache
