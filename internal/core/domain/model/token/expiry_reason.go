package token

import (
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// ExpiryReason records why a token left the active queue. The reason is
// persisted alongside expired_at and is part of the audit trail; tokens are
// never deleted.
type ExpiryReason int

const (
	// ReasonUnknown means the token has not expired. This value (0) is the
	// in-memory form of a NULL reason column.
	ReasonUnknown ExpiryReason = iota

	// ReasonAssignmentTimeout marks tokens reclaimed by the sweeper because the
	// driver did not accept the offered trip within the assignment timeout.
	ReasonAssignmentTimeout

	// ReasonTripCompleted marks tokens retired because their trip reached the
	// final step, freeing the driver to re-queue.
	ReasonTripCompleted

	// ReasonShiftEnded marks tokens retired because the driver's shift ended
	// while the token was still waiting.
	ReasonShiftEnded

	// ReasonCancelled marks tokens the driver or an operator withdrew explicitly.
	ReasonCancelled
)

// getExpiryReasonStrings returns a map of ExpiryReason values to their
// persisted string representations.
func getExpiryReasonStrings() map[ExpiryReason]string {
	return map[ExpiryReason]string{
		ReasonAssignmentTimeout: "ASSIGNMENT_TIMEOUT",
		ReasonTripCompleted:     "TRIP_COMPLETED",
		ReasonShiftEnded:        "SHIFT_ENDED",
		ReasonCancelled:         "CANCELLED",
	}
}

// ExpiryReasonFromString parses the persisted form of a reason.
// It is used when reconstructing tokens from storage.
func ExpiryReasonFromString(s string) (ExpiryReason, error) {
	for reason, str := range getExpiryReasonStrings() {
		if str == s {
			return reason, nil
		}
	}
	return ReasonUnknown, errs.NewValueIsInvalidErrorWithCause("expiryReason",
		fmt.Errorf("%q is not a valid expiry reason", s))
}

// Validate checks if the ExpiryReason is one of the defined reasons.
// ReasonUnknown is invalid: an expired token must always carry a reason.
func (r ExpiryReason) Validate() error {
	if _, ok := getExpiryReasonStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("expiryReason is invalid",
			fmt.Errorf("%d is not a valid expiry reason", r))
	}
	return nil
}

// String returns the persisted form, e.g. "ASSIGNMENT_TIMEOUT".
// This method implements the fmt.Stringer interface.
func (r ExpiryReason) String() string {
	if str, ok := getExpiryReasonStrings()[r]; ok {
		return str
	}
	return "UNKNOWN"
}
