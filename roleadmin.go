package goTimelock

import (
	"context"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/permission"
)

// Role administration is itself a governed operation type: there is no direct
// synchronous role-mutation entry point. A batch travels through the ledger as
// the opaque call parameters of a transaction on the built-in handler below,
// and is applied by the built-in executor once that transaction is approved.
var (
	// RoleAdminOperationType tags role-administration transactions.
	RoleAdminOperationType = permission.OperationTypeOf("ROLE_ADMIN")
	// RoleAdminSelector is the built-in handler selector for batch requests.
	RoleAdminSelector = permission.SelectorOf("requestRoleBatch(bytes)")
	// RoleBatchExecuteSelector is the built-in execution selector applying a batch.
	RoleBatchExecuteSelector = permission.SelectorOf("executeRoleBatch(bytes)")
)

func allActions() permission.Mask16 {
	return permission.MaskOf(
		permission.ActionRequest,
		permission.ActionApprove,
		permission.ActionCancel,
		permission.ActionSignApprove,
		permission.ActionExecuteApprove,
		permission.ActionSignCancel,
		permission.ActionExecuteCancel,
		permission.ActionSignRequestApprove,
		permission.ActionExecuteRequestApprove,
	)
}

func roleAdminSchema() permission.FunctionSchema {
	return permission.FunctionSchema{
		Selector:      RoleAdminSelector,
		Name:          "roleAdmin",
		OperationType: RoleAdminOperationType,
		Supported:     allActions(),
		Protected:     true,
		HandlerFor:    []permission.Selector{RoleBatchExecuteSelector},
	}
}

// RoleBatchParams encodes a batch into the transaction parameters expected by
// the built-in role-administration handler. The result can be passed to
// [Engine.Request] or embedded in a meta-transaction for the signed paths.
func RoleBatchParams(batch permission.Batch) (ledger.TxParams, error) {
	encoded, err := permission.EncodeBatch(batch)
	if err != nil {
		return ledger.TxParams{}, err
	}
	return ledger.TxParams{
		OperationType:     RoleAdminOperationType,
		ExecutionType:     ledger.ExecutionStandard,
		FunctionSelector:  RoleAdminSelector,
		ExecutionSelector: RoleBatchExecuteSelector,
		CallParams:        encoded,
	}, nil
}

// executeRoleBatch is the built-in executor behind RoleBatchExecuteSelector.
func (e *Engine) executeRoleBatch(ctx context.Context, rec ledger.TxRecord) error {
	batch, err := permission.DecodeBatch(rec.Params.CallParams)
	if err != nil {
		return err
	}

	if err := e.directory.Apply(batch); err != nil {
		e.metricInc(MetricBatchAborted)
		e.emitAudit(ctx, AuditEvent{
			EventType: auditEventBatchAborted,
			TxID:      uint64(rec.ID),
			Success:   false,
			Error:     err.Error(),
			Metadata:  map[string]string{"batch_id": batch.ID.String()},
		})
		return err
	}

	e.metricInc(MetricBatchApplied)
	e.emitAudit(ctx, AuditEvent{
		EventType: auditEventBatchApplied,
		TxID:      uint64(rec.ID),
		Success:   true,
		Metadata:  map[string]string{"batch_id": batch.ID.String()},
	})
	return nil
}
