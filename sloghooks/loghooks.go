// Package sloghooks implements shelfcache.Hooks on log/slog, with sampling
// for the chatty events (hits, misses, per-item skips).
package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/shelfcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery      uint64
	MissEvery     uint64
	ItemSkipEvery uint64
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr  atomic.Uint64
	missCtr atomic.Uint64
	skipCtr atomic.Uint64
}

var _ shelfcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheHit(owner string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("shelfcache.cache_hit", "owner", owner)
}

func (h *Hooks) CacheMiss(owner, reason string) {
	if h.l == nil || !sample(h.opts.MissEvery, &h.missCtr) {
		return
	}
	h.l.Debug("shelfcache.cache_miss",
		"owner", owner,
		"reason", reason)
}

func (h *Hooks) CachePopulateFailed(owner string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("shelfcache.cache_populate_failed",
		"owner", owner,
		"err", err)
}

func (h *Hooks) InvalidateFailed(owner string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("shelfcache.invalidate_failed",
		"owner", owner,
		"err", err)
}

func (h *Hooks) BatchEnqueued(owner, batchID string, items int) {
	if h.l == nil {
		return
	}
	h.l.Info("shelfcache.batch_enqueued",
		"owner", owner,
		"batch", batchID,
		"items", items)
}

func (h *Hooks) ItemSkipped(owner, batchID string, index int, err error) {
	if h.l == nil || !sample(h.opts.ItemSkipEvery, &h.skipCtr) {
		return
	}
	h.l.Warn("shelfcache.item_skipped",
		"owner", owner,
		"batch", batchID,
		"index", index,
		"err", err)
}

func (h *Hooks) OwnerProcessed(owner string, batches, inserted, skipped int) {
	if h.l == nil {
		return
	}
	h.l.Info("shelfcache.owner_processed",
		"owner", owner,
		"batches", batches,
		"inserted", inserted,
		"skipped", skipped)
}

func (h *Hooks) OwnerFailed(owner string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("shelfcache.owner_failed",
		"owner", owner,
		"err", err)
}

func (h *Hooks) TickSkipped() {
	if h.l == nil {
		return
	}
	h.l.Warn("shelfcache.tick_skipped",
		"msg", "previous tick still running")
}
