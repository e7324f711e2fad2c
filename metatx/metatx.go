package metatx

import (
	"errors"

	"github.com/MrEthical07/goTimelock/ledger"
)

var (
	// ErrSignatureInvalid is returned when recovery fails or yields the zero address.
	ErrSignatureInvalid = errors.New("meta-transaction signature invalid")
	// ErrExpired is returned when the current time exceeds the embedded deadline.
	ErrExpired = errors.New("meta-transaction expired")
	// ErrWrongChain is returned when the chain binding mismatches the verifier.
	ErrWrongChain = errors.New("meta-transaction chain mismatch")
	// ErrReplayDetected is returned when the nonce was already consumed for the signer.
	ErrReplayDetected = errors.New("meta-transaction replay detected")
	// ErrNonceUnavailable is returned when the redis nonce backend fails.
	ErrNonceUnavailable = errors.New("nonce backend unavailable")
)

// MetaTransaction packages a transaction record (or a record-in-formation for
// the request-and-approve path, where TxID is zero) with a signature, nonce,
// deadline, and chain binding. It is produced off-chain by an authorized
// signer and submitted by a separately authorized broadcaster.
type MetaTransaction struct {
	Params ledger.TxParams
	// TxID is the ledger id the signature applies to; zero means the payload
	// requests creation and immediate approval in one step.
	TxID      ledger.TxID
	Nonce     uint64
	Deadline  int64
	ChainID   uint64
	Signature [65]byte
}
