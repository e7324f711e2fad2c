// Package permission provides the action bitmask type, the function schema
// registry, and the role directory used by goTimelock authorization checks.
//
// # Action masks
//
// Actions form a closed enumeration of at most 16 entries packed one bit per
// action into a [Mask16]. Bit positions follow declaration order of the
// [Action] constants and are part of the stored-state format; they must never
// be reordered.
//
// # Architecture boundaries
//
// This package is a pure in-memory data structure with no I/O. It provides the
// batch codec (EncodeBatch/DecodeBatch) used to carry administrative batches
// through the ledger as opaque call parameters.
//
// # What this package must NOT do
//
//   - Access Redis, databases, or the network.
//   - Import goTimelock, ledger, or metatx.
//   - Mutate the role directory outside [Directory.Apply] once the engine is
//     built (all runtime role administration funnels through the governed
//     batch workflow).
package permission
