// Package metatx canonicalizes transaction records into signable digests and
// validates meta-transaction envelopes: signature recovery, deadline, chain
// binding, and nonce replay protection.
//
// # Digest stability
//
// [Digest] is a pure function of the record fields, the nonce, the deadline,
// and the chain id. No timestamp or environment value leaks into it, so the
// same logical record always produces the same digest on the signer and the
// verifier side.
//
// # Architecture boundaries
//
// The verifier recovers and returns a signer identity; it makes no
// authorization decision. Checking the recovered signer against the role
// directory is the state machine's job. Signature recovery itself is
// delegated to go-ethereum's secp256k1 primitives and treated as trusted.
//
// # What this package must NOT do
//
//   - Consult roles, schemas, or the ledger's lifecycle state.
//   - Consume a nonce during Verify — consumption is a separate, explicit
//     step taken by the state machine after authorization succeeds, so a
//     rejected submission does not burn the signer's payload.
package metatx
