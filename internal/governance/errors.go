package governance

import "errors"

// Rejection is the error returned when an invocation is refused. A rejected
// invocation never changes module state and never emits events.
type Rejection struct {
	code    string
	message string
}

// Error implements the error interface
func (r *Rejection) Error() string {
	return r.message
}

// Code returns the stable machine-readable code of the rejection
func (r *Rejection) Code() string {
	return r.code
}

func newRejection(code, message string) *Rejection {
	return &Rejection{code: code, message: message}
}

// Common errors
var (
	ErrInsufficientFee     = newRejection("INSUFFICIENT_FEE", "attached value is below the join fee")
	ErrAlreadyMember       = newRejection("ALREADY_MEMBER", "identity is already an active member")
	ErrNotMember           = newRejection("NOT_MEMBER", "identity is not an active member")
	ErrInvalidVotingPeriod = newRejection("INVALID_VOTING_PERIOD", "voting period is out of range")
	ErrInvalidPayload      = newRejection("INVALID_PAYLOAD", "proposal payload is missing or malformed")
	ErrNoSuchProposal      = newRejection("NO_SUCH_PROPOSAL", "proposal not found")
	ErrVotingClosed        = newRejection("VOTING_CLOSED", "voting on this proposal is closed")
	ErrVotingStillOpen     = newRejection("VOTING_STILL_OPEN", "voting period has not ended yet")
	ErrAlreadyVoted        = newRejection("ALREADY_VOTED", "identity already voted on this proposal")
	ErrAlreadyFinalized    = newRejection("ALREADY_FINALIZED", "proposal is already finalized")
	ErrInvalidIdentity     = newRejection("INVALID_IDENTITY", "caller identity is required")
	ErrInvalidChoice       = newRejection("INVALID_CHOICE", "vote choice must be FOR or AGAINST")
	ErrTreasuryOverflow    = newRejection("TREASURY_OVERFLOW", "attached value exceeds what the treasury can hold")
)

// Code reports the rejection code carried by err, if any.
func Code(err error) (string, bool) {
	var r *Rejection
	if errors.As(err, &r) {
		return r.code, true
	}
	return "", false
}

// payloadError wraps ErrInvalidPayload with the concrete reason so errors.Is
// keeps matching the sentinel.
type payloadError struct {
	reason string
}

func (e *payloadError) Error() string {
	return ErrInvalidPayload.message + ": " + e.reason
}

func (e *payloadError) Unwrap() error {
	return ErrInvalidPayload
}

func invalidPayload(reason string) error {
	return &payloadError{reason: reason}
}
