// Package asynchook decouples hook sinks from the hot path: events are
// handed to a bounded queue and replayed by worker goroutines. When the
// queue is full, events are dropped rather than blocking the caller.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{ItemSkipEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	svc, _ := shelfcache.New(shelfcache.Options{ ..., Hooks: hooks })
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/shelfcache"
)

type Hooks struct {
	inner shelfcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ shelfcache.Hooks = (*Hooks)(nil)

func New(inner shelfcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) CacheHit(owner string)          { h.try(func() { h.inner.CacheHit(owner) }) }
func (h *Hooks) CacheMiss(owner, reason string) { h.try(func() { h.inner.CacheMiss(owner, reason) }) }
func (h *Hooks) TickSkipped()                   { h.try(func() { h.inner.TickSkipped() }) }
func (h *Hooks) CachePopulateFailed(owner string, err error) {
	h.try(func() { h.inner.CachePopulateFailed(owner, err) })
}
func (h *Hooks) InvalidateFailed(owner string, err error) {
	h.try(func() { h.inner.InvalidateFailed(owner, err) })
}
func (h *Hooks) BatchEnqueued(owner, batchID string, items int) {
	h.try(func() { h.inner.BatchEnqueued(owner, batchID, items) })
}
func (h *Hooks) ItemSkipped(owner, batchID string, index int, err error) {
	h.try(func() { h.inner.ItemSkipped(owner, batchID, index, err) })
}
func (h *Hooks) OwnerProcessed(owner string, batches, inserted, skipped int) {
	h.try(func() { h.inner.OwnerProcessed(owner, batches, inserted, skipped) })
}
func (h *Hooks) OwnerFailed(owner string, err error) {
	h.try(func() { h.inner.OwnerFailed(owner, err) })
}
