package token

import (
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// Status represents the lifecycle state of a vehicle token.
// It implements a state machine with defined transitions so tokens
// follow the queue workflow.
//
// State transitions:
//
//	Waiting ──> Allocated ──> Expired
//	    │                       ▲
//	    └───────────────────────┘
//
// A token is never deleted; Expired is the single terminal state and
// carries the reason it was reached.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Waiting is the initial status when a token is issued.
	// Tokens in this status hold a queue position and wait for a demand.
	Waiting

	// Allocated indicates the matcher paired the token with a demand
	// and a trip offer was extended to the driver.
	Allocated

	// Expired indicates the token was retired by the sweeper or by an
	// explicit cancellation. This is a final state.
	Expired
)

// getStatusStrings returns a map of Status values to their string representations.
// All statuses are included for string conversion.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Waiting:   "Waiting",
		Allocated: "Allocated",
		Expired:   "Expired",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
// Only valid statuses are included to support validation.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Waiting:   "Waiting",
		Allocated: "Allocated",
		Expired:   "Expired",
	}
}

// Validate checks if the Status value is valid.
//
// Valid statuses are: Waiting, Allocated, Expired.
// Unknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the human-readable name of the status.
// This method implements the fmt.Stringer interface and is safe
// to call on any Status value, including invalid ones.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsActive reports whether the status still occupies the driver's
// one-active-token-per-day slot. Waiting and Allocated are active.
func (s Status) IsActive() bool {
	return s == Waiting || s == Allocated
}

// Allocate transitions the status to Allocated.
//
// Valid transitions:
//   - Waiting -> Allocated (matcher paired the token with a demand)
//
// Any other source state returns a StateConflictError: the caller lost
// a race against a concurrent matcher or sweeper.
func (s Status) Allocate() (Status, error) {
	if s != Waiting {
		return 0, errs.NewStateConflictError("token status", Waiting.String(), s.String())
	}

	return Allocated, nil
}

// Expire transitions the status to Expired.
//
// Valid transitions:
//   - Waiting -> Expired (shift ended, cancelled before allocation)
//   - Allocated -> Expired (assignment timeout, trip completed, cancelled)
//
// Expiring an already expired token returns a StateConflictError.
func (s Status) Expire() (Status, error) {
	if !s.IsActive() {
		return 0, errs.NewStateConflictError("token status", "Waiting or Allocated", s.String())
	}

	return Expired, nil
}
