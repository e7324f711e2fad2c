// Package prometheus renders goTimelock engine counters in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [goTimelock.Engine] and exposes an
// [net/http.Handler] that serves every engine counter plus the audit-drop
// counter and a pending-transactions gauge. Counter names are prefixed
// gotimelock_*_total.
//
// # What this package must NOT do
//
//   - Register metrics in a global Prometheus registry. Callers mount the
//     Handler themselves.
//   - Mutate engine state.
package prometheus
