package goTimelock

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/internal/flows"
	"github.com/MrEthical07/goTimelock/ledger"
)

// Approve executes a pending transaction through the time-locked path. The
// caller must hold the approve action for the transaction's handler and the
// release time must have passed. A downstream execution failure is recorded
// as REJECTED with the failure reason on the record; the returned error wraps
// [ErrExecutionRejected] in that case.
func (e *Engine) Approve(ctx context.Context, caller common.Address, id ledger.TxID) (ledger.TxRecord, error) {
	if err := e.begin(); err != nil {
		return ledger.TxRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := flows.RunApprove(ctx, e.deps(), caller, id)
	e.observe(ctx, auditEventApproved, caller, rec, err, MetricApproved)
	return rec, err
}
