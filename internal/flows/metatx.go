package flows

import (
	"context"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
	"github.com/MrEthical07/goTimelock/permission"

	"github.com/ethereum/go-ethereum/common"
)

var zeroAddress common.Address

// RunApproveMeta applies a signed approval, bypassing the time-lock wait.
// Dual-permission model: the recovered signer must hold the sign-side action
// and the submitting caller the execute-side action, independently.
func RunApproveMeta(ctx context.Context, d Deps, caller common.Address, mt metatx.MetaTransaction) (ledger.TxRecord, error) {
	signer, err := d.Verifier.Verify(ctx, mt, d.Now())
	if err != nil {
		return ledger.TxRecord{}, err
	}

	rec, err := d.Ledger.Get(mt.TxID)
	if err != nil {
		return ledger.TxRecord{}, err
	}
	if !d.Directory.HoldsAction(signer, rec.Params.FunctionSelector, permission.ActionSignApprove) {
		return rec, ErrUnauthorized
	}
	if !d.Directory.HoldsAction(caller, rec.Params.FunctionSelector, permission.ActionExecuteApprove) {
		return rec, ErrUnauthorized
	}
	if rec.Status != ledger.StatusPending {
		return rec, ledger.ErrNotPending
	}

	if !mt.Params.Equal(rec.Params) {
		return rejectMismatch(ctx, d, rec)
	}

	if err := d.Verifier.ConsumeNonce(ctx, signer, rec.Params.FunctionSelector, mt.Nonce); err != nil {
		return rec, err
	}

	return finalizeExecute(ctx, d, mt.TxID)
}

// RunCancelMeta applies a signed cancellation.
func RunCancelMeta(ctx context.Context, d Deps, caller common.Address, mt metatx.MetaTransaction) (ledger.TxRecord, error) {
	signer, err := d.Verifier.Verify(ctx, mt, d.Now())
	if err != nil {
		return ledger.TxRecord{}, err
	}

	rec, err := d.Ledger.Get(mt.TxID)
	if err != nil {
		return ledger.TxRecord{}, err
	}
	if !d.Directory.HoldsAction(signer, rec.Params.FunctionSelector, permission.ActionSignCancel) {
		return rec, ErrUnauthorized
	}
	if !d.Directory.HoldsAction(caller, rec.Params.FunctionSelector, permission.ActionExecuteCancel) {
		return rec, ErrUnauthorized
	}
	if rec.Status != ledger.StatusPending {
		return rec, ledger.ErrNotPending
	}

	if !mt.Params.Equal(rec.Params) {
		return rejectMismatch(ctx, d, rec)
	}

	if err := d.Verifier.ConsumeNonce(ctx, signer, rec.Params.FunctionSelector, mt.Nonce); err != nil {
		return rec, err
	}

	return finalizeCancel(ctx, d, mt.TxID)
}

// RunRequestAndApproveMeta folds creation and immediate approval into one
// atomic step. Schema, signature, both permission checks, and dispatch gate
// checks all complete before the nonce is consumed or the ledger mutated.
func RunRequestAndApproveMeta(ctx context.Context, d Deps, caller common.Address, mt metatx.MetaTransaction) (ledger.TxRecord, error) {
	if mt.TxID != 0 {
		return ledger.TxRecord{}, ErrPayloadMismatch
	}

	schema, ok := d.Registry.Schema(mt.Params.FunctionSelector)
	if !ok {
		return ledger.TxRecord{}, permission.ErrUnknownSchema
	}
	if mt.Params.OperationType != schema.OperationType {
		return ledger.TxRecord{}, ErrPayloadMismatch
	}
	if !schema.PermitsExecution(mt.Params.ExecutionSelector) {
		return ledger.TxRecord{}, ErrUnauthorized
	}

	signer, err := d.Verifier.Verify(ctx, mt, d.Now())
	if err != nil {
		return ledger.TxRecord{}, err
	}
	if !d.Directory.HoldsAction(signer, mt.Params.FunctionSelector, permission.ActionSignRequestApprove) {
		return ledger.TxRecord{}, ErrUnauthorized
	}
	if !d.Directory.HoldsAction(caller, mt.Params.FunctionSelector, permission.ActionExecuteRequestApprove) {
		return ledger.TxRecord{}, ErrUnauthorized
	}

	params := mt.Params
	if params.Requester == zeroAddress {
		params.Requester = signer
	}

	// Dispatch checks run here, not in finalizeExecute alone: a gate failure
	// after creation would strand a pending record with an elapsed release
	// time and burn the signer's nonce.
	if d.Gate != nil {
		if err := d.Gate(ctx, ledger.TxRecord{Params: params}); err != nil {
			return ledger.TxRecord{}, err
		}
	}

	if err := d.Verifier.ConsumeNonce(ctx, signer, mt.Params.FunctionSelector, mt.Nonce); err != nil {
		return ledger.TxRecord{}, err
	}

	now := d.Now()
	id := d.Ledger.NextID()
	message := metatx.Digest(params, id, 0, 0, d.ChainID)
	if _, err := d.Ledger.Create(id, params, now.Unix(), message); err != nil {
		return ledger.TxRecord{}, err
	}

	return finalizeExecute(ctx, d, id)
}

// rejectMismatch records a validation failure discovered at approval time:
// the record moves to REJECTED and the transaction slot is consumed.
func rejectMismatch(ctx context.Context, d Deps, rec ledger.TxRecord) (ledger.TxRecord, error) {
	if err := d.Ledger.MarkRejected(rec.ID, ErrPayloadMismatch.Error()); err != nil {
		return rec, err
	}
	rejected, err := d.Ledger.Get(rec.ID)
	if err != nil {
		return rec, err
	}
	if archErr := archiveTerminal(ctx, d, rejected); archErr != nil {
		return rejected, archErr
	}
	return rejected, ErrPayloadMismatch
}
