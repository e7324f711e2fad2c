package permission

import "errors"

var (
	// ErrDuplicateSchema is returned when re-registering a protected function schema.
	ErrDuplicateSchema = errors.New("function schema already registered")
	// ErrUnknownSchema is returned when a selector has no registered schema.
	ErrUnknownSchema = errors.New("function schema not registered")
	// ErrProtectedSchema is returned when unregistering a protected schema.
	ErrProtectedSchema = errors.New("function schema is protected")
	// ErrRoleExists is returned when creating a role whose ID is already taken.
	ErrRoleExists = errors.New("role already exists")
	// ErrRoleNotFound is returned when addressing a role that was never created.
	ErrRoleNotFound = errors.New("role not found")
	// ErrProtectedRole is returned when removing a protected role.
	ErrProtectedRole = errors.New("role is protected")
	// ErrRoleFull is returned when adding a wallet to a role at capacity.
	ErrRoleFull = errors.New("role wallet capacity reached")
	// ErrAlreadyMember is returned when adding a wallet that already holds the role.
	ErrAlreadyMember = errors.New("wallet already member of role")
	// ErrNotMember is returned when revoking a wallet that does not hold the role.
	ErrNotMember = errors.New("wallet not member of role")
	// ErrProtectedRoleUnderflow is returned when revoking the last member of a protected role.
	ErrProtectedRoleUnderflow = errors.New("protected role requires at least one member")
	// ErrGrantBeyondSchema is returned when a granted mask exceeds the schema's supported mask.
	ErrGrantBeyondSchema = errors.New("granted actions exceed schema supported actions")
	// ErrGrantNotFound is returned when revoking a function grant that does not exist.
	ErrGrantNotFound = errors.New("function grant not found")
	// ErrBatchAborted is returned when any entry of an administrative batch fails.
	ErrBatchAborted = errors.New("administrative batch aborted")
)
