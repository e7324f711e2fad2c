package goTimelock

import "sync/atomic"

// MetricID identifies one engine counter.
type MetricID uint16

const (
	// MetricRequested counts created transactions.
	MetricRequested MetricID = iota
	// MetricApproved counts time-locked approvals that reached EXECUTED.
	MetricApproved
	// MetricCancelled counts cancellations.
	MetricCancelled
	// MetricRejected counts downstream failures recorded as REJECTED.
	MetricRejected
	// MetricTimeLockBlocked counts approvals attempted before release time.
	MetricTimeLockBlocked
	// MetricUnauthorized counts permission denials.
	MetricUnauthorized
	// MetricMetaApproved counts meta-transaction approvals.
	MetricMetaApproved
	// MetricMetaCancelled counts meta-transaction cancellations.
	MetricMetaCancelled
	// MetricMetaRequestApproved counts request-and-approve meta transactions.
	MetricMetaRequestApproved
	// MetricReplayDetected counts replayed meta-transaction payloads.
	MetricReplayDetected
	// MetricHookAborted counts transitions rolled back by a failing hook.
	MetricHookAborted
	// MetricBatchApplied counts applied administrative batches.
	MetricBatchApplied
	// MetricBatchAborted counts aborted administrative batches.
	MetricBatchAborted

	metricCount
)

var metricNames = [metricCount]string{
	"requested",
	"approved",
	"cancelled",
	"rejected",
	"timelock_blocked",
	"unauthorized",
	"meta_approved",
	"meta_cancelled",
	"meta_request_approved",
	"replay_detected",
	"hook_aborted",
	"batch_applied",
	"batch_aborted",
}

// Name returns the stable exposition name of the metric.
func (id MetricID) Name() string {
	if id >= metricCount {
		return "unknown"
	}
	return metricNames[id]
}

// Metrics holds the engine's atomic counters.
type Metrics struct {
	enabled  bool
	counters [metricCount]atomic.Uint64
}

func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{enabled: cfg.Enabled}
}

func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricCount {
		return
	}
	m.counters[id].Add(1)
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	snap := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, metricCount),
	}
	if m == nil {
		return snap
	}
	for id := MetricID(0); id < metricCount; id++ {
		snap.Counters[id] = m.counters[id].Load()
	}
	return snap
}
