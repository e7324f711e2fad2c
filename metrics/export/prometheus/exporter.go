package prometheus

import (
	"net/http"
	"strconv"
	"strings"

	goTimelock "github.com/MrEthical07/goTimelock"
)

type metricsSource interface {
	MetricsSnapshot() goTimelock.MetricsSnapshot
	AuditDropped() uint64
	PendingCount() int
}

type counterDef struct {
	id   goTimelock.MetricID
	name string
	help string
}

var counterDefs = []counterDef{
	{goTimelock.MetricRequested, "gotimelock_requested_total", "Created time-locked transactions."},
	{goTimelock.MetricApproved, "gotimelock_approved_total", "Approvals that reached EXECUTED."},
	{goTimelock.MetricCancelled, "gotimelock_cancelled_total", "Cancelled transactions."},
	{goTimelock.MetricRejected, "gotimelock_rejected_total", "Downstream failures recorded as REJECTED."},
	{goTimelock.MetricTimeLockBlocked, "gotimelock_timelock_blocked_total", "Approvals attempted before release time."},
	{goTimelock.MetricUnauthorized, "gotimelock_unauthorized_total", "Permission denials."},
	{goTimelock.MetricMetaApproved, "gotimelock_meta_approved_total", "Meta-transaction approvals."},
	{goTimelock.MetricMetaCancelled, "gotimelock_meta_cancelled_total", "Meta-transaction cancellations."},
	{goTimelock.MetricMetaRequestApproved, "gotimelock_meta_request_approved_total", "Request-and-approve meta transactions."},
	{goTimelock.MetricReplayDetected, "gotimelock_replay_detected_total", "Replayed meta-transaction payloads."},
	{goTimelock.MetricHookAborted, "gotimelock_hook_aborted_total", "Transitions rolled back by a failing hook."},
	{goTimelock.MetricBatchApplied, "gotimelock_batch_applied_total", "Applied role administration batches."},
	{goTimelock.MetricBatchAborted, "gotimelock_batch_aborted_total", "Aborted role administration batches."},
}

// PrometheusExporter renders goTimelock metrics in Prometheus text exposition format.
type PrometheusExporter struct {
	source metricsSource
}

// NewPrometheusExporter creates an exporter that reads from the given [goTimelock.Engine].
func NewPrometheusExporter(engine *goTimelock.Engine) *PrometheusExporter {
	return &PrometheusExporter{source: engine}
}

// NewPrometheusExporterFromSource creates an exporter from a custom source.
func NewPrometheusExporterFromSource(source metricsSource) *PrometheusExporter {
	return &PrometheusExporter{source: source}
}

// Handler returns an http.Handler that serves Prometheus metrics.
func (p *PrometheusExporter) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; version=0.0.4; charset=utf-8")
		_, _ = w.Write([]byte(p.Render()))
	})
}

// Render writes the current counters in Prometheus text exposition format.
func (p *PrometheusExporter) Render() string {
	if p == nil || p.source == nil {
		return ""
	}

	snapshot := p.source.MetricsSnapshot()
	dropped := p.source.AuditDropped()
	if len(snapshot.Counters) == 0 && dropped == 0 {
		return ""
	}

	var b strings.Builder
	b.Grow(4096)

	for _, def := range counterDefs {
		writeCounter(&b, def.name, def.help, snapshot.Counters[def.id])
	}

	writeCounter(&b, "gotimelock_audit_dropped_total", "Dropped audit events due to dispatcher backpressure.", dropped)
	writeGauge(&b, "gotimelock_pending_transactions", "Transactions currently awaiting approval or cancellation.", uint64(p.source.PendingCount()))

	return b.String()
}

func writeGauge(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" gauge\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func writeCounter(b *strings.Builder, name, help string, value uint64) {
	b.WriteString("# HELP ")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(escapeHelp(help))
	b.WriteByte('\n')
	b.WriteString("# TYPE ")
	b.WriteString(name)
	b.WriteString(" counter\n")
	b.WriteString(name)
	b.WriteByte(' ')
	b.WriteString(strconv.FormatUint(value, 10))
	b.WriteByte('\n')
}

func escapeHelp(help string) string {
	help = strings.ReplaceAll(help, "\\", "\\\\")
	help = strings.ReplaceAll(help, "\n", "\\n")
	return help
}
