package flows

import (
	"context"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/permission"

	"github.com/ethereum/go-ethereum/common"
)

// RunCancel cancels a pending transaction. Any pending transaction may be
// cancelled regardless of its release time.
func RunCancel(ctx context.Context, d Deps, caller common.Address, id ledger.TxID) (ledger.TxRecord, error) {
	rec, err := d.Ledger.Get(id)
	if err != nil {
		return ledger.TxRecord{}, err
	}
	if !d.Directory.HoldsAction(caller, rec.Params.FunctionSelector, permission.ActionCancel) {
		return rec, ErrUnauthorized
	}

	return finalizeCancel(ctx, d, id)
}

// finalizeCancel is the terminal-cancel path shared by the time-locked and
// meta-transaction variants.
func finalizeCancel(ctx context.Context, d Deps, id ledger.TxID) (ledger.TxRecord, error) {
	if err := d.Ledger.MarkCancelled(id); err != nil {
		rec, _ := d.Ledger.Get(id)
		return rec, err
	}
	rec, err := d.Ledger.Get(id)
	if err != nil {
		return ledger.TxRecord{}, err
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
