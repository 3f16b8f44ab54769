package shelfcache

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; the service calls them on
// hot paths. Wrap with hooks/async to offload slow sinks.
type Hooks interface {
	// A read was answered from the cache.
	CacheHit(owner string)

	// A read fell through to the store.
	// reason ∈ {"absent", "corrupt", "decode", "unavailable", "disabled"}
	CacheMiss(owner, reason string)

	// Best-effort cache population after a store read failed.
	CachePopulateFailed(owner string, err error)

	// Cache delete after a successful mutation failed; the owner may see
	// stale reads for up to one TTL.
	InvalidateFailed(owner string, err error)

	// A bulk batch was accepted for later processing.
	BatchEnqueued(owner, batchID string, items int)

	// One bulk item failed validation and was skipped; its siblings were
	// still applied.
	ItemSkipped(owner, batchID string, index int, err error)

	// One owner's queue was fully applied and cleared.
	OwnerProcessed(owner string, batches, inserted, skipped int)

	// One owner's queue could not be applied this tick; it stays queued
	// and is retried on a later tick.
	OwnerFailed(owner string, err error)

	// A processor tick fired while the previous tick was still running.
	TickSkipped()
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) CacheHit(string)                          {}
func (NopHooks) CacheMiss(string, string)                 {}
func (NopHooks) CachePopulateFailed(string, error)        {}
func (NopHooks) InvalidateFailed(string, error)           {}
func (NopHooks) BatchEnqueued(string, string, int)        {}
func (NopHooks) ItemSkipped(string, string, int, error)   {}
func (NopHooks) OwnerProcessed(string, int, int, int)     {}
func (NopHooks) OwnerFailed(string, error)                {}
func (NopHooks) TickSkipped()                             {}
