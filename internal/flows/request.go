package flows

import (
	"context"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
	"github.com/MrEthical07/goTimelock/permission"

	"github.com/ethereum/go-ethereum/common"
)

var zeroOperationType permission.OperationType

// RunRequest validates a request against the schema registry and the caller's
// roles, then creates a pending ledger entry released after the configured
// delay. Nothing executes on this path.
func RunRequest(ctx context.Context, d Deps, caller common.Address, params ledger.TxParams) (ledger.TxRecord, error) {
	schema, ok := d.Registry.Schema(params.FunctionSelector)
	if !ok {
		return ledger.TxRecord{}, permission.ErrUnknownSchema
	}
	if params.OperationType == zeroOperationType {
		params.OperationType = schema.OperationType
	} else if params.OperationType != schema.OperationType {
		return ledger.TxRecord{}, ErrPayloadMismatch
	}
	if !schema.PermitsExecution(params.ExecutionSelector) {
		return ledger.TxRecord{}, ErrUnauthorized
	}
	if !d.Directory.HoldsAction(caller, params.FunctionSelector, permission.ActionRequest) {
		return ledger.TxRecord{}, ErrUnauthorized
	}

	params.Requester = caller

	now := d.Now()
	id := d.Ledger.NextID()
	message := metatx.Digest(params, id, 0, 0, d.ChainID)
	return d.Ledger.Create(id, params, now.Add(d.Delay).Unix(), message)
}
