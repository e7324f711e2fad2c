package goTimelock

import (
	"context"
	"sync"
	"sync/atomic"
)

// auditDispatcher decouples audit emission from the operation path: events go
// through a bounded queue to a single drain goroutine, so a slow sink never
// stalls a transition. Engine transitions are already serialized, which means
// at most one producer races Close.
type auditDispatcher struct {
	sink       AuditSink
	queue      chan AuditEvent
	quit       chan struct{}
	drained    sync.WaitGroup
	dropped    atomic.Uint64
	closed     atomic.Bool
	dropIfFull bool
	closeOnce  sync.Once
}

func newAuditDispatcher(cfg AuditConfig, sink AuditSink) *auditDispatcher {
	if !cfg.Enabled {
		return nil
	}
	if sink == nil {
		sink = NoOpSink{}
	}
	buffer := cfg.BufferSize
	if buffer <= 0 {
		buffer = 1
	}

	d := &auditDispatcher{
		sink:       sink,
		queue:      make(chan AuditEvent, buffer),
		quit:       make(chan struct{}),
		dropIfFull: cfg.DropIfFull,
	}
	d.drained.Add(1)
	go d.drain()
	return d
}

// drain forwards queued events until quit, then empties whatever the queue
// still holds so Close never loses accepted events.
func (d *auditDispatcher) drain() {
	defer d.drained.Done()

	for {
		select {
		case event := <-d.queue:
			d.sink.Emit(context.Background(), event)
		case <-d.quit:
			for {
				select {
				case event := <-d.queue:
					d.sink.Emit(context.Background(), event)
				default:
					return
				}
			}
		}
	}
}

// Emit enqueues event. Under the drop policy a full queue increments the drop
// counter instead of blocking; otherwise Emit waits until the queue accepts
// the event, the context expires, or the dispatcher closes.
func (d *auditDispatcher) Emit(ctx context.Context, event AuditEvent) {
	if d == nil || d.closed.Load() {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	if d.dropIfFull {
		select {
		case d.queue <- event:
		case <-d.quit:
		default:
			d.dropped.Add(1)
		}
		return
	}

	select {
	case d.queue <- event:
	case <-ctx.Done():
	case <-d.quit:
	}
}

// Close stops accepting events and blocks until the queue is drained.
func (d *auditDispatcher) Close() {
	if d == nil {
		return
	}
	d.closeOnce.Do(func() {
		d.closed.Store(true)
		close(d.quit)
		d.drained.Wait()
	})
}

// Dropped reports how many events the drop policy discarded.
func (d *auditDispatcher) Dropped() uint64 {
	if d == nil {
		return 0
	}
	return d.dropped.Load()
}
