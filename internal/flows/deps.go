package flows

import (
	"context"
	"errors"
	"time"

	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
	"github.com/MrEthical07/goTimelock/permission"
)

var (
	// ErrUnauthorized is returned when the caller's roles lack the required action bit.
	ErrUnauthorized = errors.New("caller lacks required action permission")
	// ErrTimeLockNotExpired is returned when approving before the release time.
	ErrTimeLockNotExpired = errors.New("time lock not expired")
	// ErrExecutionRejected wraps a downstream execution failure; the record is
	// recorded REJECTED and the transaction slot stays consumed.
	ErrExecutionRejected = errors.New("downstream execution failed, transaction rejected")
	// ErrHookAborted wraps a post-action observer failure; the transition is
	// rolled back and the record stays pending.
	ErrHookAborted = errors.New("post-action hook aborted transition")
	// ErrPayloadMismatch is returned when a signed meta payload does not match
	// the ledger record it references; the record is recorded REJECTED.
	ErrPayloadMismatch = errors.New("meta payload does not match ledger record")
)

// Deps captures state machine dependencies. The root engine builds this once
// per call and delegates each public method to the matching flow function.
type Deps struct {
	Ledger    *ledger.Ledger
	Registry  *permission.Registry
	Directory *permission.Directory
	Verifier  *metatx.Verifier

	Delay   time.Duration
	ChainID uint64
	Now     func() time.Time

	// Gate runs pre-commit dispatch checks (target whitelist, executor
	// registration). A Gate failure aborts the approval with no state change.
	Gate func(ctx context.Context, rec ledger.TxRecord) error
	// Execute invokes the target execution selector. Failure demotes the
	// record to rejected.
	Execute func(ctx context.Context, rec ledger.TxRecord) error
	// Hooks runs the ordered post-action observers for an executed record.
	// May be nil. Failure rolls the transition back.
	Hooks func(ctx context.Context, rec ledger.TxRecord) error
	// Archive persists a terminal record. May be nil. Failure on the
	// executed/cancelled path rolls the transition back.
	Archive func(ctx context.Context, rec ledger.TxRecord) error
}
