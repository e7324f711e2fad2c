// Package ledger is the authoritative store of transaction records and their
// lifecycle. It owns the monotonic transaction counter and the pending-id
// working set.
//
// # Lifecycle
//
// A record is created PENDING and moves exactly once to a terminal status
// (EXECUTED, CANCELLED, or REJECTED). Records are never deleted; terminal
// transitions only remove the id from the pending working set. The approval
// path additionally uses Demote and Reinstate to honor checks-effects-
// interactions ordering: the terminal status is committed before the external
// call, then rewritten if the call fails or rolled back if a post-action
// observer aborts.
//
// # Architecture boundaries
//
// The in-memory [Ledger] performs no I/O. [Archive] is the only Redis-backed
// component: a write-through copy of terminal records, fed by the engine.
//
// # What this package must NOT do
//
//   - Make authorization or time-lock decisions (the state machine does).
//   - Import goTimelock or metatx.
package ledger
