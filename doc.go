// Package goTimelock provides a permissioned, time-delayed execution engine:
// privileged operations execute only after a mandatory delay, or immediately
// when co-signed by two independent parties (an off-chain signer and an
// on-chain broadcaster).
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build]. Operations are serialized — one transition, including its
// nested executor and hook calls, completes before the next begins — and a
// re-entrancy guard rejects transitions entered while an executor or hook
// callback is in flight. The guard cannot distinguish a nested call from a
// concurrent one: during that window, calls from other goroutines also fail
// fast with [ErrReentrantCall] instead of queueing behind the external call.
// Callers sharing an engine across goroutines should treat that error as
// retryable.
//
// # Architecture boundaries
//
// goTimelock is the public surface. It exposes [Engine], [Builder], [Config],
// and value types. The state machine itself lives under internal/flows and is
// never exported; the schema registry, role directory, meta-transaction
// verifier, and transaction ledger live in their own subpackages and are
// composed by the engine — no ambient or singleton state anywhere.
//
// # What this package must NOT do
//
//   - Expose Redis clients, internal stores, or encoding details in its
//     public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Offer any direct role-mutation entry point: role administration is
//     itself a governed operation type and only reachable through the
//     time-lock or meta-transaction workflow.
package goTimelock
