package goTimelock

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/internal/flows"
	"github.com/MrEthical07/goTimelock/ledger"
)

// Cancel moves a pending transaction to CANCELLED. The caller must hold the
// cancel action for the transaction's handler. Cancellation is permitted
// regardless of release-time status; an elapsed time lock does not expire the
// transaction.
func (e *Engine) Cancel(ctx context.Context, caller common.Address, id ledger.TxID) (ledger.TxRecord, error) {
	if err := e.begin(); err != nil {
		return ledger.TxRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := flows.RunCancel(ctx, e.deps(), caller, id)
	e.observe(ctx, auditEventCancelled, caller, rec, err, MetricCancelled)
	return rec, err
}
