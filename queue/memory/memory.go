// Package memory provides an in-process queue.Queue for tests and demos.
// Retention expiry is not enforced; entries live until dropped.
package memory

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/unkn0wn-root/shelfcache/queue"
	"github.com/unkn0wn-root/shelfcache/store"
)

type Queue struct {
	mu      sync.Mutex
	byOwner map[string][]queue.Batch
}

var _ queue.Queue = (*Queue)(nil)

func New() *Queue {
	return &Queue{byOwner: make(map[string][]queue.Batch)}
}

func (q *Queue) Enqueue(_ context.Context, owner string, items []store.Payload) (string, error) {
	cp := make([]store.Payload, len(items))
	for i, it := range items {
		cp[i] = maps.Clone(it)
	}
	b := queue.Batch{
		ID:         uuid.NewString(),
		Owner:      owner,
		Items:      cp,
		EnqueuedAt: time.Now().UTC(),
	}

	q.mu.Lock()
	q.byOwner[owner] = append(q.byOwner[owner], b)
	q.mu.Unlock()
	return b.ID, nil
}

func (q *Queue) DrainAll(_ context.Context) ([]queue.Drained, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]queue.Drained, 0, len(q.byOwner))
	for owner, batches := range q.byOwner {
		d := queue.Drained{Owner: owner, Batches: make([]queue.Batch, len(batches))}
		copy(d.Batches, batches)
		out = append(out, d)
	}
	return out, nil
}

func (q *Queue) Drop(_ context.Context, owner string) error {
	q.mu.Lock()
	delete(q.byOwner, owner)
	q.mu.Unlock()
	return nil
}

func (q *Queue) Close(context.Context) error { return nil }

// Pending reports queued batches for owner. Test helper.
func (q *Queue) Pending(owner string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.byOwner[owner])
}
