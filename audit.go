package goTimelock

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"
)

const (
	auditEventRequested         = "tx.requested"
	auditEventApproved          = "tx.approved"
	auditEventCancelled         = "tx.cancelled"
	auditEventRejected          = "tx.rejected"
	auditEventMetaApproved      = "tx.meta.approved"
	auditEventMetaCancelled     = "tx.meta.cancelled"
	auditEventMetaRequested     = "tx.meta.request_approved"
	auditEventReplayDetected    = "tx.meta.replay_detected"
	auditEventHookAborted       = "tx.hook.aborted"
	auditEventBatchApplied      = "roles.batch.applied"
	auditEventBatchAborted      = "roles.batch.aborted"
	auditEventUnauthorized      = "tx.unauthorized"
	auditEventTimeLockNotExpiry = "tx.timelock_blocked"
)

type AuditEvent struct {
	Timestamp time.Time         `json:"timestamp"`
	EventType string            `json:"event_type"`
	Actor     string            `json:"actor,omitempty"`
	TxID      uint64            `json:"tx_id,omitempty"`
	Success   bool              `json:"success"`
	Error     string            `json:"error,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// AuditSink receives lifecycle events from the dispatcher. Emit runs on the
// dispatcher goroutine, so a sink that blocks delays later events but never
// the engine transition that produced them.
type AuditSink interface {
	Emit(ctx context.Context, event AuditEvent)
}

// NoOpSink discards every event. It backs audit-enabled configurations that
// supply no sink.
type NoOpSink struct{}

func (NoOpSink) Emit(context.Context, AuditEvent) {}

// ChannelSink forwards events to a buffered channel for in-process consumers.
type ChannelSink struct {
	events chan AuditEvent
}

func NewChannelSink(buffer int) *ChannelSink {
	if buffer <= 0 {
		buffer = 1
	}
	return &ChannelSink{events: make(chan AuditEvent, buffer)}
}

func (s *ChannelSink) Emit(ctx context.Context, event AuditEvent) {
	select {
	case s.events <- event:
	case <-ctx.Done():
	}
}

// Events exposes the receive side of the sink's channel.
func (s *ChannelSink) Events() <-chan AuditEvent {
	return s.events
}

// JSONWriterSink writes one JSON object per line to an io.Writer, suitable
// for log shipping or piping to stdout.
type JSONWriterSink struct {
	mu  sync.Mutex
	enc *json.Encoder
}

func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	if w == nil {
		return &JSONWriterSink{}
	}
	return &JSONWriterSink{enc: json.NewEncoder(w)}
}

func (s *JSONWriterSink) Emit(ctx context.Context, event AuditEvent) {
	if s == nil || s.enc == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.enc.Encode(event)
}
