package goTimelock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/internal/flows"
	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
	"github.com/MrEthical07/goTimelock/permission"
)

// Engine is the secure operation state machine façade. It owns the aggregate
// state — schema registry, role directory, transaction ledger, verifier — and
// serializes every transition: one operation, including its nested executor
// and hook calls, completes before the next begins.
//
// Engine instances are configured through [Builder] and treated as immutable
// wiring afterwards; only the aggregate state they own mutates.
type Engine struct {
	config    Config
	registry  *permission.Registry
	directory *permission.Directory
	ledger    *ledger.Ledger
	verifier  *metatx.Verifier
	archive   *ledger.Archive
	executors map[permission.Selector]Executor
	hooks     map[permission.Selector][]Hook
	whitelist TargetWhitelist
	audit     *auditDispatcher
	metrics   *Metrics

	mu sync.Mutex
	// external is set for the duration of an executor or hook call; entry
	// points reject while it is set, which is exactly a re-entrant call on
	// the operation's own goroutine.
	external atomic.Bool

	now func() time.Time
}

var zeroAddress common.Address

func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.Snapshot()
}

// Tx returns the record for id.
func (e *Engine) Tx(id ledger.TxID) (ledger.TxRecord, error) {
	if e == nil || e.ledger == nil {
		return ledger.TxRecord{}, ErrEngineNotReady
	}
	return e.ledger.Get(id)
}

// PendingTransactions enumerates the pending working set.
func (e *Engine) PendingTransactions() []ledger.TxRecord {
	if e == nil || e.ledger == nil {
		return nil
	}
	ids := e.ledger.PendingIDs()
	recs := make([]ledger.TxRecord, 0, len(ids))
	for _, id := range ids {
		rec, err := e.ledger.Get(id)
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs
}

// PendingCount reports the size of the pending working set.
func (e *Engine) PendingCount() int {
	if e == nil || e.ledger == nil {
		return 0
	}
	return len(e.ledger.PendingIDs())
}

// Schema returns the registered schema for selector.
func (e *Engine) Schema(selector permission.Selector) (permission.FunctionSchema, bool) {
	if e == nil || e.registry == nil {
		return permission.FunctionSchema{}, false
	}
	return e.registry.Schema(selector)
}

// RegisterFunction adds a schema through the host's registration workflow.
func (e *Engine) RegisterFunction(schema permission.FunctionSchema) error {
	if e == nil || e.registry == nil {
		return ErrEngineNotReady
	}
	return e.registry.Register(schema)
}

// UnregisterFunction removes an unprotected schema.
func (e *Engine) UnregisterFunction(selector permission.Selector) error {
	if e == nil || e.registry == nil {
		return ErrEngineNotReady
	}
	return e.registry.Unregister(selector)
}

// Role returns the public view of a role.
func (e *Engine) Role(id permission.RoleID) (permission.RoleInfo, bool) {
	if e == nil || e.directory == nil {
		return permission.RoleInfo{}, false
	}
	return e.directory.Role(id)
}

// RoleMembers returns the member wallets of a role.
func (e *Engine) RoleMembers(id permission.RoleID) []common.Address {
	if e == nil || e.directory == nil {
		return nil
	}
	return e.directory.Members(id)
}

// begin rejects calls while an external executor or hook is in flight. The
// flag is read before e.mu so a nested call errors instead of deadlocking on
// the mutex; the cost is that concurrent callers landing in that window also
// get ErrReentrantCall rather than queueing (documented in the package doc).
func (e *Engine) begin() error {
	if e == nil || e.ledger == nil {
		return ErrEngineNotReady
	}
	if e.external.Load() {
		return ErrReentrantCall
	}
	return nil
}

// deps assembles the state machine dependency set for one operation.
func (e *Engine) deps() flows.Deps {
	d := flows.Deps{
		Ledger:    e.ledger,
		Registry:  e.registry,
		Directory: e.directory,
		Verifier:  e.verifier,
		Delay:     e.config.TimeLock.Delay,
		ChainID:   e.config.MetaTx.ChainID,
		Now:       e.now,
		Gate:      e.gate,
		Execute:   e.execute,
		Hooks:     e.runHooks,
	}
	if e.archive != nil {
		d.Archive = func(ctx context.Context, rec ledger.TxRecord) error {
			return e.archive.Put(ctx, rec)
		}
	}
	return d
}

// gate runs dispatch checks that must abort the approval with no state
// change: executor registration and the external-target whitelist.
func (e *Engine) gate(ctx context.Context, rec ledger.TxRecord) error {
	if _, ok := e.executors[rec.Params.ExecutionSelector]; !ok {
		return ErrNoExecutor
	}
	if rec.Params.Target != zeroAddress {
		if e.whitelist == nil || !e.whitelist.Allowed(rec.Params.ExecutionSelector, rec.Params.Target) {
			return ErrTargetNotWhitelisted
		}
	}
	return nil
}

func (e *Engine) execute(ctx context.Context, rec ledger.TxRecord) error {
	exec := e.executors[rec.Params.ExecutionSelector]

	e.external.Store(true)
	defer e.external.Store(false)
	return exec(ctx, rec)
}

func (e *Engine) runHooks(ctx context.Context, rec ledger.TxRecord) error {
	list := e.hooks[rec.Params.ExecutionSelector]
	if len(list) == 0 {
		return nil
	}

	e.external.Store(true)
	defer e.external.Store(false)
	for _, hook := range list {
		if err := hook(ctx, rec); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, event AuditEvent) {
	if e == nil || e.audit == nil {
		return
	}
	event.Timestamp = e.now()
	e.audit.Emit(ctx, event)
}

// observe records the outcome of one transition: the success metric and audit
// event on the happy path, or the failure-specific counterparts.
func (e *Engine) observe(ctx context.Context, eventType string, caller common.Address, rec ledger.TxRecord, err error, okMetric MetricID) {
	event := AuditEvent{
		EventType: eventType,
		Actor:     caller.Hex(),
		TxID:      uint64(rec.ID),
		Success:   err == nil,
	}

	switch {
	case err == nil:
		e.metricInc(okMetric)
	case errors.Is(err, ErrUnauthorized):
		e.metricInc(MetricUnauthorized)
		event.EventType = auditEventUnauthorized
		event.Error = err.Error()
	case errors.Is(err, ErrTimeLockNotExpired):
		e.metricInc(MetricTimeLockBlocked)
		event.EventType = auditEventTimeLockNotExpiry
		event.Error = err.Error()
	case errors.Is(err, ErrReplayDetected):
		e.metricInc(MetricReplayDetected)
		event.EventType = auditEventReplayDetected
		event.Error = err.Error()
	case errors.Is(err, ErrExecutionRejected), errors.Is(err, ErrPayloadMismatch):
		e.metricInc(MetricRejected)
		event.EventType = auditEventRejected
		event.Error = err.Error()
	case errors.Is(err, ErrHookAborted):
		e.metricInc(MetricHookAborted)
		event.EventType = auditEventHookAborted
		event.Error = err.Error()
	default:
		event.Error = err.Error()
	}

	e.emitAudit(ctx, event)
}
