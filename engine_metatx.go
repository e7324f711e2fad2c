package goTimelock

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/internal/flows"
	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
)

// ApproveMeta executes a pending transaction on the strength of a signed
// approval, bypassing the remaining time-lock wait. The recovered signer must
// hold the sign-approve action and the submitting caller the execute-approve
// action for the transaction's handler.
func (e *Engine) ApproveMeta(ctx context.Context, caller common.Address, mt metatx.MetaTransaction) (ledger.TxRecord, error) {
	if err := e.begin(); err != nil {
		return ledger.TxRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := flows.RunApproveMeta(ctx, e.deps(), caller, mt)
	e.observe(ctx, auditEventMetaApproved, caller, rec, err, MetricMetaApproved)
	return rec, err
}

// CancelMeta cancels a pending transaction on the strength of a signed
// cancellation.
func (e *Engine) CancelMeta(ctx context.Context, caller common.Address, mt metatx.MetaTransaction) (ledger.TxRecord, error) {
	if err := e.begin(); err != nil {
		return ledger.TxRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := flows.RunCancelMeta(ctx, e.deps(), caller, mt)
	e.observe(ctx, auditEventMetaCancelled, caller, rec, err, MetricMetaCancelled)
	return rec, err
}

// RequestAndApproveMeta creates and immediately executes a transaction from a
// single signed payload. mt.TxID must be zero. The payload's requester field,
// when left zero, is filled with the recovered signer.
func (e *Engine) RequestAndApproveMeta(ctx context.Context, caller common.Address, mt metatx.MetaTransaction) (ledger.TxRecord, error) {
	if err := e.begin(); err != nil {
		return ledger.TxRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := flows.RunRequestAndApproveMeta(ctx, e.deps(), caller, mt)
	e.observe(ctx, auditEventMetaRequested, caller, rec, err, MetricMetaRequestApproved)
	return rec, err
}
