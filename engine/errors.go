package engine

import (
	"errors"
)

// Rejection kinds. All of these except ErrPartialApproval and
// ErrPostedButNotRecorded are expected outcomes of normal operation: the
// caller distinguishes them with errors.Is and relays them to the reporter.
var (
	// referenced comment, parent content, or account absent on chain
	ErrNotFound = errors.New("referenced content or account not found")

	// report body has no recognized abuse category
	ErrNoCategory = errors.New("no abuse category found")

	// the reporter has no negative-rshares vote on the flagged content
	ErrNoActionFound = errors.New("no matching downvote found on the flagged content")

	// the shared account already voted on this report comment
	ErrAlreadyApproved = errors.New("report already approved")

	// the downvote was too small to earn a nonzero incentive weight
	ErrWeightZero = errors.New("computed incentive weight is zero")

	// statement would exceed the chain's beneficiary count or total-weight
	// cap; composition aborted before submission, batch left pending
	ErrBeneficiaryLimit = errors.New("statement beneficiary limits exceeded")

	// the approval vote was broadcast but a later step failed; the vote
	// cannot be cheaply undone, so this is surfaced rather than retried
	ErrPartialApproval = errors.New("approval vote broadcast but follow-up failed")

	// the statement was published but the batch could not be marked
	// included; requires operator intervention, must never re-submit
	ErrPostedButNotRecorded = errors.New("statement posted but batch not marked included")
)

// RejectKind maps an expected rejection to a stable string for API
// responses and metrics; unexpected errors map to "internal".
func RejectKind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrNoCategory):
		return "no_category"
	case errors.Is(err, ErrNoActionFound):
		return "no_action_found"
	case errors.Is(err, ErrAlreadyApproved):
		return "already_approved"
	case errors.Is(err, ErrWeightZero):
		return "weight_zero"
	case errors.Is(err, ErrBeneficiaryLimit):
		return "beneficiary_limit"
	case errors.Is(err, ErrPartialApproval):
		return "partial_approval"
	case errors.Is(err, ErrPostedButNotRecorded):
		return "posted_but_not_recorded"
	default:
		return "internal"
	}
}

// IsExpectedRejection reports whether err is a normal candidate rejection,
// as opposed to an infrastructure failure or inconsistency.
func IsExpectedRejection(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrNoCategory) ||
		errors.Is(err, ErrNoActionFound) ||
		errors.Is(err, ErrAlreadyApproved) ||
		errors.Is(err, ErrWeightZero)
}
