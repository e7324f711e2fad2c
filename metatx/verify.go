package metatx

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/MrEthical07/goTimelock/permission"
)

var zeroAddress common.Address

// Verifier validates meta-transaction envelopes against a fixed chain binding
// and a nonce store.
//
// Verifier instances are configured during initialization and then treated as
// immutable.
type Verifier struct {
	chainID uint64
	nonces  NonceStore
}

// NewVerifier creates a [Verifier] bound to chainID. nonces defaults to an
// in-memory store.
func NewVerifier(chainID uint64, nonces NonceStore) *Verifier {
	if nonces == nil {
		nonces = NewMemoryNonceStore()
	}
	return &Verifier{
		chainID: chainID,
		nonces:  nonces,
	}
}

// ChainID returns the chain binding the verifier enforces.
func (v *Verifier) ChainID() uint64 {
	return v.chainID
}

// Verify checks chain binding, deadline, signature, and replay state, and
// returns the recovered signer. It does not consume the nonce and makes no
// authorization decision; see [Verifier.ConsumeNonce].
func (v *Verifier) Verify(ctx context.Context, mt MetaTransaction, now time.Time) (common.Address, error) {
	if mt.ChainID != v.chainID {
		return zeroAddress, ErrWrongChain
	}
	if now.Unix() > mt.Deadline {
		return zeroAddress, ErrExpired
	}

	digest := Digest(mt.Params, mt.TxID, mt.Nonce, mt.Deadline, mt.ChainID)
	pubkey, err := crypto.SigToPub(digest[:], mt.Signature[:])
	if err != nil {
		return zeroAddress, fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	}

	signer := crypto.PubkeyToAddress(*pubkey)
	if signer == zeroAddress {
		return zeroAddress, ErrSignatureInvalid
	}

	used, err := v.nonces.Used(ctx, signer, mt.Params.FunctionSelector, mt.Nonce)
	if err != nil {
		return zeroAddress, err
	}
	if used {
		return zeroAddress, ErrReplayDetected
	}

	return signer, nil
}

// ConsumeNonce marks the nonce spent for the signer/selector pair. The state
// machine calls this once both sides of the dual-permission check pass,
// immediately before the ledger transition.
func (v *Verifier) ConsumeNonce(ctx context.Context, signer common.Address, selector permission.Selector, nonce uint64) error {
	return v.nonces.Consume(ctx, signer, selector, nonce)
}
