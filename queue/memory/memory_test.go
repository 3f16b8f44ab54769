package memory

import (
	"context"
	"testing"

	"github.com/unkn0wn-root/shelfcache/store"
)

func TestEnqueueDrainDrop(t *testing.T) {
	ctx := context.Background()
	q := New()

	id1, err := q.Enqueue(ctx, "u1", []store.Payload{{"title": "Dune"}})
	if err != nil || id1 == "" {
		t.Fatalf("Enqueue: id=%q err=%v", id1, err)
	}
	id2, err := q.Enqueue(ctx, "u1", []store.Payload{{"title": "Hyperion"}, {"title": "Foundation"}})
	if err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	if id1 == id2 {
		t.Fatalf("duplicate batch IDs")
	}
	if _, err := q.Enqueue(ctx, "u2", []store.Payload{{"title": "Other"}}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}

	drained, err := q.DrainAll(ctx)
	if err != nil {
		t.Fatalf("DrainAll: %v", err)
	}
	if len(drained) != 2 {
		t.Fatalf("got %d owners, want 2", len(drained))
	}
	byOwner := map[string]int{}
	for _, d := range drained {
		byOwner[d.Owner] = len(d.Batches)
	}
	if byOwner["u1"] != 2 || byOwner["u2"] != 1 {
		t.Fatalf("batch counts: %v", byOwner)
	}

	// drain does not consume; only Drop does
	again, _ := q.DrainAll(ctx)
	if len(again) != 2 {
		t.Fatalf("drain consumed batches: %v", again)
	}

	if err := q.Drop(ctx, "u1"); err != nil {
		t.Fatalf("Drop: %v", err)
	}
	if q.Pending("u1") != 0 {
		t.Fatalf("u1 batches survived Drop")
	}
	if q.Pending("u2") != 1 {
		t.Fatalf("Drop crossed owners")
	}
	// dropping an unknown owner is a no-op
	if err := q.Drop(ctx, "nobody"); err != nil {
		t.Fatalf("Drop unknown: %v", err)
	}
}

func TestBatchOrderAndContents(t *testing.T) {
	ctx := context.Background()
	q := New()

	q.Enqueue(ctx, "u1", []store.Payload{{"n": 1}})
	q.Enqueue(ctx, "u1", []store.Payload{{"n": 2}})
	q.Enqueue(ctx, "u1", []store.Payload{{"n": 3}})

	drained, _ := q.DrainAll(ctx)
	if len(drained) != 1 {
		t.Fatalf("owners: %d", len(drained))
	}
	batches := drained[0].Batches
	if len(batches) != 3 {
		t.Fatalf("batches: %d", len(batches))
	}
	for i, b := range batches {
		if b.Owner != "u1" || b.EnqueuedAt.IsZero() {
			t.Fatalf("bad batch: %+v", b)
		}
		if got := b.Items[0]["n"]; got != i+1 {
			t.Fatalf("batch %d out of order: n=%v", i, got)
		}
	}
}

func TestItemIsolation(t *testing.T) {
	ctx := context.Background()
	q := New()

	p := store.Payload{"title": "Dune"}
	if _, err := q.Enqueue(ctx, "u1", []store.Payload{p}); err != nil {
		t.Fatalf("Enqueue: %v", err)
	}
	p["title"] = "mutated"

	drained, _ := q.DrainAll(ctx)
	if got := drained[0].Batches[0].Items[0]["title"]; got != "Dune" {
		t.Fatalf("queue aliased caller map: %v", got)
	}
}
