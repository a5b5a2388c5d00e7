package verification

import "errors"

// Conflict errors are distinguishable from generic failures so callers can
// render "already voted" instead of a generic error.
var (
	ErrAlreadyVoted     = errors.New("already voted on this report")
	ErrAlreadyConfirmed = errors.New("already confirmed this report")
	ErrAlreadyPolled    = errors.New("already participated in this poll")
)

// Authorization errors. No partial state change occurs when one is returned.
var (
	ErrUnauthorized = errors.New("authentication required")
	ErrLowClearance = errors.New("high-level clearance required for this action")
	ErrNotAdmin     = errors.New("admin override required")
	ErrNotOwner     = errors.New("you can only modify your own reports")
)

// Validation errors.
var (
	ErrInvalidVoteType = errors.New("vote type must be yes or no")
	ErrEmptyPollOption = errors.New("poll option is required")
	ErrNotPending      = errors.New("only pending reports can be modified")
	ErrReportClosed    = errors.New("report is expired or dismissed")
	ErrReportNotFound  = errors.New("report not found")
)
