package goTimelock

import (
	"errors"

	"github.com/MrEthical07/goTimelock/internal/flows"
	"github.com/MrEthical07/goTimelock/ledger"
	"github.com/MrEthical07/goTimelock/metatx"
	"github.com/MrEthical07/goTimelock/permission"
)

// The full error taxonomy of the engine. Subpackage sentinels are re-exported
// under their canonical names so callers can match with errors.Is against
// this package alone.
var (
	// ErrNotFound is returned when a transaction id was never issued.
	ErrNotFound = ledger.ErrNotFound
	// ErrNotPending is returned when transitioning a transaction out of a terminal state.
	ErrNotPending = ledger.ErrNotPending
	// ErrArchiveUnavailable is returned when the redis archive backend fails.
	ErrArchiveUnavailable = ledger.ErrArchiveUnavailable

	// ErrDuplicateSchema is returned when re-registering a protected function schema.
	ErrDuplicateSchema = permission.ErrDuplicateSchema
	// ErrUnknownSchema is returned when requesting an unregistered function selector.
	ErrUnknownSchema = permission.ErrUnknownSchema
	// ErrProtectedSchema is returned when unregistering a protected schema.
	ErrProtectedSchema = permission.ErrProtectedSchema
	// ErrRoleExists is returned when creating a role that already exists.
	ErrRoleExists = permission.ErrRoleExists
	// ErrRoleNotFound is returned when addressing a role that was never created.
	ErrRoleNotFound = permission.ErrRoleNotFound
	// ErrProtectedRole is returned when removing a protected role.
	ErrProtectedRole = permission.ErrProtectedRole
	// ErrRoleFull is returned when adding a wallet to a role at capacity.
	ErrRoleFull = permission.ErrRoleFull
	// ErrAlreadyMember is returned when adding a wallet that already holds the role.
	ErrAlreadyMember = permission.ErrAlreadyMember
	// ErrNotMember is returned when revoking a wallet that does not hold the role.
	ErrNotMember = permission.ErrNotMember
	// ErrProtectedRoleUnderflow is returned when revoking the last member of a protected role.
	ErrProtectedRoleUnderflow = permission.ErrProtectedRoleUnderflow
	// ErrGrantBeyondSchema is returned when a grant exceeds the schema's supported actions.
	ErrGrantBeyondSchema = permission.ErrGrantBeyondSchema
	// ErrBatchAborted is returned when any entry of an administrative batch fails.
	ErrBatchAborted = permission.ErrBatchAborted

	// ErrSignatureInvalid is returned when meta-transaction recovery fails.
	ErrSignatureInvalid = metatx.ErrSignatureInvalid
	// ErrExpired is returned when a meta-transaction deadline has lapsed.
	ErrExpired = metatx.ErrExpired
	// ErrWrongChain is returned when a meta-transaction targets another chain.
	ErrWrongChain = metatx.ErrWrongChain
	// ErrReplayDetected is returned when a signed payload is submitted twice.
	ErrReplayDetected = metatx.ErrReplayDetected
	// ErrNonceUnavailable is returned when the redis nonce backend fails.
	ErrNonceUnavailable = metatx.ErrNonceUnavailable

	// ErrUnauthorized is returned when the caller's roles lack the required action bit.
	ErrUnauthorized = flows.ErrUnauthorized
	// ErrTimeLockNotExpired is returned when approving before the release time.
	ErrTimeLockNotExpired = flows.ErrTimeLockNotExpired
	// ErrExecutionRejected wraps a downstream execution failure recorded as REJECTED.
	ErrExecutionRejected = flows.ErrExecutionRejected
	// ErrHookAborted wraps a post-action observer failure that rolled the transition back.
	ErrHookAborted = flows.ErrHookAborted
	// ErrPayloadMismatch is returned when a signed payload does not match its ledger record.
	ErrPayloadMismatch = flows.ErrPayloadMismatch
)

var (
	// ErrEngineNotReady is returned when calling a nil or unbuilt engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrReentrantCall is returned when an executor or hook re-enters the engine.
	ErrReentrantCall = errors.New("re-entrant engine call rejected")
	// ErrTargetNotWhitelisted is returned when the execution target is not whitelisted.
	ErrTargetNotWhitelisted = errors.New("execution target not whitelisted")
	// ErrNoExecutor is returned when no executor is registered for an execution selector.
	ErrNoExecutor = errors.New("no executor registered for selector")
)
