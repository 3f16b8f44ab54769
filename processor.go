package shelfcache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const defaultProcessInterval = 2 * time.Minute

// Processor drives Service.ProcessPending on a fixed interval. It is not
// request-triggered: it runs from Start until Stop or context cancellation.
//
// Ticks fire at a fixed rate. If a tick is still running when the next one
// fires, the new tick is skipped and counted rather than queued behind it,
// so a stuck backend cannot pile up overlapping drains.
type Processor struct {
	svc      Service
	interval time.Duration
	log      Logger
	hooks    Hooks

	inFlight atomic.Bool
	ticks    sync.WaitGroup

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// ProcessorOptions tune the Processor. Only Service is required.
type ProcessorOptions struct {
	Service  Service       // required
	Interval time.Duration // 0 => 2m
	Logger   Logger        // nil => NopLogger
	Hooks    Hooks         // nil => NopHooks
}

func NewProcessor(opts ProcessorOptions) (*Processor, error) {
	if opts.Service == nil {
		return nil, fmt.Errorf("shelfcache: processor service is required")
	}
	return &Processor{
		svc:       opts.Service,
		interval:  coalesce[time.Duration](opts.Interval, defaultProcessInterval),
		log:       coalesce[Logger](opts.Logger, NopLogger{}),
		hooks:     coalesce[Hooks](opts.Hooks, NopHooks{}),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}, nil
}

// Start launches the tick loop in its own goroutine. Safe to call once;
// repeated calls are no-ops.
func (p *Processor) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.log.Info("bulk processor starting", Fields{"interval": p.interval.String()})
		go p.loop(ctx)
	})
}

// Stop shuts the loop down and waits for it, and for any in-flight tick,
// to finish. A tick is not interrupted; cancel the Start context to abort
// it. Only after Stop returns is it safe to close the service's backends.
func (p *Processor) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		<-p.stoppedCh
		p.ticks.Wait()
		p.log.Info("bulk processor stopped", nil)
	})
}

// RunOnce performs a single synchronous tick. Useful in tests and one-shot
// jobs that want the processing semantics without the schedule.
func (p *Processor) RunOnce(ctx context.Context) error {
	return p.svc.ProcessPending(ctx)
}

func (p *Processor) loop(ctx context.Context) {
	defer close(p.stoppedCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info("context cancelled; bulk processor exiting", nil)
			return
		case <-p.stopCh:
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

func (p *Processor) tick(ctx context.Context) {
	if !p.inFlight.CompareAndSwap(false, true) {
		p.hooks.TickSkipped()
		p.log.Warn("previous tick still running; skipping", nil)
		return
	}

	p.ticks.Add(1)
	go func() {
		defer p.ticks.Done()
		defer p.inFlight.Store(false)
		start := time.Now()
		if err := p.svc.ProcessPending(ctx); err != nil {
			p.log.Error("tick failed", Fields{"err": err})
			return
		}
		p.log.Debug("tick finished", Fields{"took": time.Since(start).String()})
	}()
}
