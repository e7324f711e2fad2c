package goTimelock

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/permission"
)

// Executor invokes the target execution selector with the finalized record.
// Executors are registered per execution selector through [Builder.WithExecutor]
// and run after the record's terminal status has been committed; a returned
// error demotes the record to REJECTED with the error text as failure reason.
type Executor func(ctx context.Context, rec ledger.TxRecord) error

// Hook observes a finalized EXECUTED record. Hooks for a selector run
// synchronously in registration order; a returned error aborts the whole
// operation and rolls the transition back. They are not fire-and-forget.
type Hook func(ctx context.Context, rec ledger.TxRecord) error

// TargetWhitelist is the external security layer consulted before invoking an
// execution selector on an external target. An empty whitelist denies all
// targets for a selector — explicit-deny default.
type TargetWhitelist interface {
	Allowed(selector permission.Selector, target common.Address) bool
}

// RoleSeed declares a role created at build time, before the directory is
// sealed behind the governed batch workflow.
type RoleSeed struct {
	Name       string
	MaxWallets int
	Protected  bool
	Members    []common.Address
	Grants     []permission.FunctionPermission
}
