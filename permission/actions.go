package permission

// Action identifies one governed capability on a function selector. The
// enumeration is closed: every action fits in a [Mask16] bit and the bit
// assignment is storage format, so new actions may only be appended.
type Action uint8

const (
	// ActionRequest permits creating a time-locked transaction for a handler.
	ActionRequest Action = iota
	// ActionApprove permits the time-locked approval path after the release time.
	ActionApprove
	// ActionCancel permits cancelling any pending transaction for a handler.
	ActionCancel
	// ActionSignApprove permits producing an off-chain approval signature.
	ActionSignApprove
	// ActionExecuteApprove permits broadcasting a signed approval.
	ActionExecuteApprove
	// ActionSignCancel permits producing an off-chain cancellation signature.
	ActionSignCancel
	// ActionExecuteCancel permits broadcasting a signed cancellation.
	ActionExecuteCancel
	// ActionSignRequestApprove permits signing a combined request-and-approve payload.
	ActionSignRequestApprove
	// ActionExecuteRequestApprove permits broadcasting a signed request-and-approve.
	ActionExecuteRequestApprove

	actionCount
)

var actionNames = [actionCount]string{
	"request",
	"approve",
	"cancel",
	"sign-approve",
	"execute-approve",
	"sign-cancel",
	"execute-cancel",
	"sign-request-approve",
	"execute-request-approve",
}

// Valid reports whether a names a member of the closed action enumeration.
func (a Action) Valid() bool {
	return a < actionCount
}

func (a Action) String() string {
	if !a.Valid() {
		return "unknown"
	}
	return actionNames[a]
}
