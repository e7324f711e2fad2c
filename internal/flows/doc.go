// Package flows contains the secure operation state machine: pure-function
// orchestrators for every Engine transition (request, approve, cancel, and the
// meta-transaction variants).
//
// Each flow function accepts a [Deps] struct and returns results without
// side-effects beyond those dependencies. All four governance shapes —
// self-service after delay, dual-control immediate, recovery override,
// automated relay — funnel through the same terminal-transition helpers here,
// so lifecycle rules exist in exactly one place.
//
// # Ordering invariants
//
// Validate before mutate: permission, schema, and signature checks complete
// before any ledger write. Checks-effects-interactions: the terminal status
// and pending-set removal are committed before the external call; a failing
// call demotes the record to rejected, a failing post-action observer rolls
// the transition back.
//
// # What this package must NOT do
//
//   - Hold mutable state between calls.
//   - Import goTimelock (to avoid import cycles).
//   - Perform I/O directly — external execution, hooks, and archival are
//     mediated through the callbacks on [Deps].
package flows
