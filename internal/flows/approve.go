package flows

import (
	"context"
	"fmt"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/permission"

	"github.com/ethereum/go-ethereum/common"
)

// RunApprove executes the time-locked approval path: the caller must hold the
// approve action, and the release time must have passed.
func RunApprove(ctx context.Context, d Deps, caller common.Address, id ledger.TxID) (ledger.TxRecord, error) {
	rec, err := d.Ledger.Get(id)
	if err != nil {
		return ledger.TxRecord{}, err
	}
	if !d.Directory.HoldsAction(caller, rec.Params.FunctionSelector, permission.ActionApprove) {
		return rec, ErrUnauthorized
	}
	if rec.Status != ledger.StatusPending {
		return rec, ledger.ErrNotPending
	}
	if d.Now().Unix() < rec.ReleaseTime {
		return rec, ErrTimeLockNotExpired
	}

	return finalizeExecute(ctx, d, id)
}

// finalizeExecute is the single terminal-execution path shared by time-locked
// and meta-transaction approvals. Ordering: gate checks (abort, no state
// change), then status commit, then the external call.
func finalizeExecute(ctx context.Context, d Deps, id ledger.TxID) (ledger.TxRecord, error) {
	rec, err := d.Ledger.Get(id)
	if err != nil {
		return ledger.TxRecord{}, err
	}
	if d.Gate != nil {
		if err := d.Gate(ctx, rec); err != nil {
			return rec, err
		}
	}

	if err := d.Ledger.MarkExecuted(id); err != nil {
		return rec, err
	}
	rec, err = d.Ledger.Get(id)
	if err != nil {
		return ledger.TxRecord{}, err
	}

	if err := d.Execute(ctx, rec); err != nil {
		demoted, demoteErr := d.Ledger.Demote(id, err.Error())
		if demoteErr != nil {
			return rec, demoteErr
		}
		if archErr := archiveTerminal(ctx, d, demoted); archErr != nil {
			return demoted, fmt.Errorf("%w: %v (archive: %v)", ErrExecutionRejected, err, archErr)
		}
		return demoted, fmt.Errorf("%w: %v", ErrExecutionRejected, err)
	}

	if d.Hooks != nil {
		if err := d.Hooks(ctx, rec); err != nil {
			if reinstateErr := d.Ledger.Reinstate(id); reinstateErr != nil {
				return rec, reinstateErr
			}
			rec, _ = d.Ledger.Get(id)
			return rec, fmt.Errorf("%w: %v", ErrHookAborted, err)
		}
	}

	if err := archiveTerminal(ctx, d, rec); err != nil {
		if reinstateErr := d.Ledger.Reinstate(id); reinstateErr != nil {
			return rec, reinstateErr
		}
		rec, _ = d.Ledger.Get(id)
		return rec, err
	}

	return rec, nil
}

func archiveTerminal(ctx context.Context, d Deps, rec ledger.TxRecord) error {
	if d.Archive == nil {
		return nil
	}
	return d.Archive(ctx, rec)
}
