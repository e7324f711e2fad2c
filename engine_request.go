package goTimelock

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/internal/flows"
	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/permission"
)

// Request creates a time-locked transaction for the handler named by
// params.FunctionSelector. The caller must hold a role granting the request
// action; nothing executes until an approval after the release time.
func (e *Engine) Request(ctx context.Context, caller common.Address, params ledger.TxParams) (ledger.TxRecord, error) {
	if err := e.begin(); err != nil {
		return ledger.TxRecord{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	rec, err := flows.RunRequest(ctx, e.deps(), caller, params)
	e.observe(ctx, auditEventRequested, caller, rec, err, MetricRequested)
	return rec, err
}

// RequestRoleBatch requests a role-administration transaction carrying the
// batch. The batch is applied only when the transaction is later approved.
func (e *Engine) RequestRoleBatch(ctx context.Context, caller common.Address, batch permission.Batch) (ledger.TxRecord, error) {
	params, err := RoleBatchParams(batch)
	if err != nil {
		return ledger.TxRecord{}, err
	}
	return e.Request(ctx, caller, params)
}
