package shelfcache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/shelfcache/cache"
	"github.com/unkn0wn-root/shelfcache/codec"
	"github.com/unkn0wn-root/shelfcache/internal/keys"
	"github.com/unkn0wn-root/shelfcache/internal/wire"
	"github.com/unkn0wn-root/shelfcache/queue"
	"github.com/unkn0wn-root/shelfcache/store"
)

const (
	defaultCacheTTL     = 60 * time.Second
	defaultCacheTimeout = 500 * time.Millisecond
	defaultStoreTimeout = 5 * time.Second
)

type service struct {
	ns       string
	store    store.Store
	cache    cache.Cache
	queue    queue.Queue
	codec    codec.Codec[[]store.Record]
	log      Logger
	hooks    Hooks
	validate ItemValidator

	enabled bool

	ttl          time.Duration
	cacheTimeout time.Duration
	storeTimeout time.Duration
}

func newService(opts Options) (*service, error) {
	if opts.Namespace == "" {
		return nil, fmt.Errorf("shelfcache: namespace is required")
	}
	if opts.Store == nil {
		return nil, fmt.Errorf("shelfcache: store is required")
	}
	if opts.Cache == nil {
		return nil, fmt.Errorf("shelfcache: cache is required")
	}
	if opts.Queue == nil {
		return nil, fmt.Errorf("shelfcache: queue is required")
	}

	s := &service{
		ns:      opts.Namespace,
		store:   opts.Store,
		cache:   opts.Cache,
		queue:   opts.Queue,
		enabled: !opts.Disabled,
	}

	// defaults
	s.codec = coalesce[codec.Codec[[]store.Record]](opts.Codec, codec.JSON[[]store.Record]{})
	s.log = coalesce[Logger](opts.Logger, NopLogger{})
	s.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	s.ttl = coalesce[time.Duration](opts.CacheTTL, defaultCacheTTL)
	s.cacheTimeout = coalesce[time.Duration](opts.CacheTimeout, defaultCacheTimeout)
	s.storeTimeout = coalesce[time.Duration](opts.StoreTimeout, defaultStoreTimeout)

	if opts.Validate != nil {
		s.validate = opts.Validate
	} else {
		s.validate = NonEmpty()
	}
	return s, nil
}

func (s *service) Close(ctx context.Context) error {
	return errors.Join(
		s.cache.Close(ctx),
		s.queue.Close(ctx),
		s.store.Close(),
	)
}

// ==============================
// Read path (cache-aside)
// ==============================

func (s *service) GetByOwner(ctx context.Context, owner string) ([]store.Record, error) {
	if !s.enabled {
		s.hooks.CacheMiss(owner, "disabled")
		return s.findByOwner(ctx, owner)
	}

	k := keys.Cache(s.ns, owner)
	if recs, ok := s.readSnapshot(ctx, owner, k); ok {
		s.hooks.CacheHit(owner)
		s.log.Debug("cache hit", Fields{"owner": owner})
		return recs, nil
	}

	recs, err := s.findByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, owner, k, recs)
	return recs, nil
}

// readSnapshot is fail-open: any cache error, and any corrupt or undecodable
// entry, is reported as a miss. Corrupt entries are deleted (self-heal) so
// the next read does not pay the decode attempt again.
func (s *service) readSnapshot(ctx context.Context, owner, k string) ([]store.Record, bool) {
	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	raw, ok, err := s.cache.Get(cctx, k)
	cancel()
	if err != nil {
		s.hooks.CacheMiss(owner, "unavailable")
		s.log.Warn("cache get failed; reading store", Fields{"owner": owner, "err": err})
		return nil, false
	}
	if !ok {
		s.hooks.CacheMiss(owner, "absent")
		s.log.Debug("cache miss", Fields{"owner": owner})
		return nil, false
	}

	payload, err := wire.DecodeSnapshot(raw)
	if err != nil {
		s.selfHeal(ctx, k)
		s.hooks.CacheMiss(owner, "corrupt")
		return nil, false
	}
	recs, err := s.codec.Decode(payload)
	if err != nil {
		s.selfHeal(ctx, k)
		s.hooks.CacheMiss(owner, "decode")
		return nil, false
	}
	return recs, true
}

// populate is best-effort; a failed Set never affects the response.
func (s *service) populate(ctx context.Context, owner, k string, recs []store.Record) {
	payload, err := s.codec.Encode(recs)
	if err != nil {
		s.hooks.CachePopulateFailed(owner, err)
		s.log.Warn("snapshot encode failed", Fields{"owner": owner, "err": err})
		return
	}

	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	ok, err := s.cache.Set(cctx, k, wire.EncodeSnapshot(payload), s.ttl)
	cancel()
	if err != nil {
		s.hooks.CachePopulateFailed(owner, err)
		s.log.Warn("cache set failed", Fields{"owner": owner, "err": err})
		return
	}
	if !ok {
		s.log.Debug("cache set rejected (pressure)", Fields{"owner": owner})
	}
}

func (s *service) selfHeal(ctx context.Context, k string) {
	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	_ = s.cache.Del(cctx, k)
	cancel()
}

// ==============================
// Write path (invalidate after store write)
// ==============================

func (s *service) Create(ctx context.Context, owner string, payload store.Payload) (store.Record, error) {
	if err := s.validate(payload); err != nil {
		return store.Record{}, err
	}

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	rec, err := s.store.Create(sctx, owner, payload)
	cancel()
	if err != nil {
		return store.Record{}, err
	}

	s.invalidate(ctx, owner)
	return rec, nil
}

func (s *service) Update(ctx context.Context, owner, id string, partial store.Payload) (store.Record, error) {
	if len(partial) == 0 {
		return store.Record{}, &ValidationError{Reason: "update must change at least one field"}
	}

	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	rec, err := s.store.UpdateByID(sctx, owner, id, partial)
	cancel()
	if err != nil {
		return store.Record{}, err
	}

	s.invalidate(ctx, owner)
	return rec, nil
}

func (s *service) Delete(ctx context.Context, owner, id string) error {
	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	err := s.store.DeleteByID(sctx, owner, id)
	cancel()
	if err != nil {
		return err
	}

	s.invalidate(ctx, owner)
	return nil
}

// invalidate runs only after the store acknowledged the write. Deleting the
// cache first would open a window for a concurrent read to repopulate it
// with pre-write data that then survives a full TTL.
//
// A failed delete is logged and absorbed: the mutation already succeeded and
// staleness is bounded by the TTL.
func (s *service) invalidate(ctx context.Context, owner string) {
	if !s.enabled {
		return
	}
	cctx, cancel := context.WithTimeout(ctx, s.cacheTimeout)
	err := s.cache.Del(cctx, keys.Cache(s.ns, owner))
	cancel()
	if err != nil {
		s.hooks.InvalidateFailed(owner, err)
		s.log.Warn("cache invalidate failed; stale reads possible until TTL",
			Fields{"owner": owner, "err": err})
		return
	}
	s.log.Debug("cache invalidated", Fields{"owner": owner})
}

// ==============================
// Bulk ingestion
// ==============================

func (s *service) EnqueueBulk(ctx context.Context, owner string, items []store.Payload) (string, error) {
	if len(items) == 0 {
		return "", &ValidationError{Reason: "batch must contain at least one item"}
	}

	id, err := s.queue.Enqueue(ctx, owner, items)
	if err != nil {
		return "", err
	}
	s.hooks.BatchEnqueued(owner, id, len(items))
	s.log.Debug("bulk batch enqueued", Fields{"owner": owner, "batch": id, "items": len(items)})
	return id, nil
}

func (s *service) ProcessPending(ctx context.Context) error {
	drained, err := s.queue.DrainAll(ctx)
	if err != nil && len(drained) == 0 {
		return fmt.Errorf("drain queues: %w", err)
	}
	if err != nil {
		// partial drain: unreadable queues stay queued and retry next tick;
		// whatever did drain is still applied below
		s.log.Warn("partial drain; some queues unreadable", Fields{"err": err})
	}

	for _, d := range drained {
		if err := ctx.Err(); err != nil {
			return err
		}
		// per-owner error boundary: one owner's failure leaves its queue
		// intact for the next tick and never blocks the siblings
		if err := s.processOwner(ctx, d); err != nil {
			s.hooks.OwnerFailed(d.Owner, err)
			s.log.Error("bulk processing failed; queue kept for retry",
				Fields{"owner": d.Owner, "err": err})
		}
	}
	return nil
}

func (s *service) processOwner(ctx context.Context, d queue.Drained) error {
	if d.Corrupt > 0 {
		s.log.Warn("skipped corrupt queue entries", Fields{"owner": d.Owner, "count": d.Corrupt})
	}
	if len(d.Batches) == 0 {
		// nothing decodable left; clear the key instead of re-scanning it forever
		return s.queue.Drop(ctx, d.Owner)
	}

	var (
		valid   []store.Payload
		skipped int
	)
	for _, b := range d.Batches {
		for i, item := range b.Items {
			if err := s.validate(item); err != nil {
				skipped++
				s.hooks.ItemSkipped(d.Owner, b.ID, i, err)
				s.log.Warn("skipped invalid bulk item",
					Fields{"owner": d.Owner, "batch": b.ID, "index": i, "err": err})
				continue
			}
			valid = append(valid, item)
		}
	}

	if len(valid) > 0 {
		sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
		_, err := s.store.BulkCreate(sctx, d.Owner, valid)
		cancel()
		if err != nil {
			return fmt.Errorf("apply %d items: %w", len(valid), err)
		}
	}

	// delete only after successful application; a crash in between means
	// the batch is re-applied next tick (at-least-once, never lost)
	if err := s.queue.Drop(ctx, d.Owner); err != nil {
		return fmt.Errorf("drop queue: %w", err)
	}

	s.invalidate(ctx, d.Owner)
	s.hooks.OwnerProcessed(d.Owner, len(d.Batches), len(valid), skipped)
	s.log.Info("bulk batches applied",
		Fields{"owner": d.Owner, "batches": len(d.Batches), "inserted": len(valid), "skipped": skipped})
	return nil
}

func (s *service) findByOwner(ctx context.Context, owner string) ([]store.Record, error) {
	sctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.store.FindByOwner(sctx, owner)
}
