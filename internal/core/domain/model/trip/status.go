package trip

import (
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// Status represents the lifecycle state of a trip.
//
// State transitions:
//
//	Offered ──┬──> InProgress ──┬──> Completed
//	          │                 │
//	          └──> Cancelled <──┘
//
// Offered means the matcher created the trip at step 0 and the driver has
// not accepted yet. Completed and Cancelled are terminal; a cancelled trip
// keeps its snapshot and transfer records for audit.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Offered is the initial status set by the matcher: the trip exists at
	// step 0 as an extended offer awaiting driver acceptance.
	Offered

	// InProgress means the driver accepted and the trip advances through
	// steps 1 to 6.
	InProgress

	// Completed means the trip reached the final step. This is a final state.
	Completed

	// Cancelled means the offer was reclaimed or the trip was aborted; the
	// step is forced back to 0. This is a final state.
	Cancelled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Offered:    "Offered",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Offered:    "Offered",
		InProgress: "InProgress",
		Completed:  "Completed",
		Cancelled:  "Cancelled",
	}
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// This method implements the fmt.Stringer interface.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsTerminal reports whether the trip can no longer change.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled
}
