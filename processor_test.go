package shelfcache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	cachemem "github.com/unkn0wn-root/shelfcache/cache/memory"
	queuemem "github.com/unkn0wn-root/shelfcache/queue/memory"
	"github.com/unkn0wn-root/shelfcache/store"
	storemem "github.com/unkn0wn-root/shelfcache/store/memory"
)

// blockingService stalls ProcessPending until released, to provoke
// overlapping ticks.
type blockingService struct {
	Service
	calls   atomic.Int64
	release chan struct{}
}

func (b *blockingService) ProcessPending(ctx context.Context) error {
	b.calls.Add(1)
	select {
	case <-b.release:
	case <-ctx.Done():
	}
	return nil
}

type tickHooks struct {
	NopHooks
	skipped atomic.Int64
}

func (h *tickHooks) TickSkipped() { h.skipped.Add(1) }

func TestNewProcessorRequiresService(t *testing.T) {
	if _, err := NewProcessor(ProcessorOptions{}); err == nil {
		t.Fatalf("NewProcessor accepted nil service")
	}
}

func TestProcessorAppliesOnSchedule(t *testing.T) {
	ctx := context.Background()

	mq := queuemem.New()
	ms := storemem.New()
	svc, err := New(Options{
		Namespace: "books",
		Store:     ms,
		Cache:     cachemem.New(),
		Queue:     mq,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := svc.EnqueueBulk(ctx, "alice", []store.Payload{{"title": "A"}}); err != nil {
		t.Fatalf("EnqueueBulk: %v", err)
	}

	p, err := NewProcessor(ProcessorOptions{Service: svc, Interval: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	p.Start(ctx)
	defer p.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mq.Pending("alice") == 0 {
			recs, err := svc.GetByOwner(ctx, "alice")
			if err != nil {
				t.Fatalf("GetByOwner: %v", err)
			}
			if len(recs) != 1 {
				t.Fatalf("queue cleared but records missing: %+v", recs)
			}
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("processor never applied the batch")
}

func TestProcessorSkipsOverlappingTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bs := &blockingService{release: make(chan struct{})}
	hooks := &tickHooks{}
	p, err := NewProcessor(ProcessorOptions{
		Service:  bs,
		Interval: 10 * time.Millisecond,
		Hooks:    hooks,
	})
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	p.Start(ctx)

	// Let several intervals elapse while the first tick is stuck.
	deadline := time.Now().Add(2 * time.Second)
	for hooks.skipped.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	close(bs.release)
	p.Stop()

	if hooks.skipped.Load() == 0 {
		t.Fatalf("overlapping ticks were not skipped")
	}
	if bs.calls.Load() == 0 {
		t.Fatalf("ProcessPending never ran")
	}
}

// Stop must wait for an in-flight tick, not just the select loop, so a
// caller can close the service's backends right after Stop returns.
func TestStopWaitsForInFlightTick(t *testing.T) {
	ctx := context.Background()

	bs := &blockingService{release: make(chan struct{})}
	p, err := NewProcessor(ProcessorOptions{Service: bs, Interval: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	p.Start(ctx)

	// Wait for a tick to be stuck inside ProcessPending.
	deadline := time.Now().Add(2 * time.Second)
	for bs.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if bs.calls.Load() == 0 {
		t.Fatalf("tick never started")
	}

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatalf("Stop returned while a tick was still running")
	case <-time.After(50 * time.Millisecond):
	}

	close(bs.release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatalf("Stop did not return after the tick finished")
	}
}

func TestRunOnce(t *testing.T) {
	ctx := context.Background()

	mq := queuemem.New()
	svc, err := New(Options{
		Namespace: "books",
		Store:     storemem.New(),
		Cache:     cachemem.New(),
		Queue:     mq,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := svc.EnqueueBulk(ctx, "alice", []store.Payload{{"title": "A"}}); err != nil {
		t.Fatalf("EnqueueBulk: %v", err)
	}

	p, err := NewProcessor(ProcessorOptions{Service: svc})
	if err != nil {
		t.Fatalf("NewProcessor: %v", err)
	}
	if err := p.RunOnce(ctx); err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if mq.Pending("alice") != 0 {
		t.Fatalf("RunOnce did not drain the queue")
	}
}
