package demand

import (
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// Status represents the lifecycle state of a transport demand.
//
// State transitions:
//
//	Pending ──┬──> Approved ──> Assigning ──> Fulfilled
//	    ▲     │                     │
//	    │     └──> Rejected         │
//	    └───────────────────────────┘
//	      (sweeper reclaim on assignment timeout)
//
// Only Approved demands sit in the matching pool. Assigning means a token
// was paired and an offer is out; the sweeper reverts stale Assigning
// demands to Pending. Rejected and Fulfilled are terminal.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of a submitted demand. Pending demands
	// are not eligible for matching until approved.
	Pending

	// Approved marks the demand eligible for matching.
	Approved

	// Assigning means the matcher paired the demand with a token and the
	// driver has an open offer. The demand is out of the matching pool.
	Assigning

	// Rejected marks a demand refused during intake. This is a final state.
	Rejected

	// Fulfilled marks a demand whose trip completed. This is a final state.
	Fulfilled
)

// getStatusStrings returns a map of Status values to their string representations.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Approved:  "Approved",
		Assigning: "Assigning",
		Rejected:  "Rejected",
		Fulfilled: "Fulfilled",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // Unknown is intentionally excluded as it's invalid
	return map[Status]string{
		Pending:   "Pending",
		Approved:  "Approved",
		Assigning: "Assigning",
		Rejected:  "Rejected",
		Fulfilled: "Fulfilled",
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

// Approve transitions the status to Approved. Only Pending demands can be approved.
func (s Status) Approve() (Status, error) {
	if s != Pending {
		return 0, errs.NewStateConflictError("demand status", Pending.String(), s.String())
	}
	return Approved, nil
}

// Reject transitions the status to Rejected. Only Pending demands can be rejected.
func (s Status) Reject() (Status, error) {
	if s != Pending {
		return 0, errs.NewStateConflictError("demand status", Pending.String(), s.String())
	}
	return Rejected, nil
}

// BeginAssignment transitions the status to Assigning. Only Approved demands
// are in the matching pool; anything else means the caller lost a race.
func (s Status) BeginAssignment() (Status, error) {
	if s != Approved {
		return 0, errs.NewStateConflictError("demand status", Approved.String(), s.String())
	}
	return Assigning, nil
}

// RevertToPending transitions the status back to Pending. Used by the sweeper
// when an assignment timed out; the demand must be re-approved to match again.
func (s Status) RevertToPending() (Status, error) {
	if s != Assigning {
		return 0, errs.NewStateConflictError("demand status", Assigning.String(), s.String())
	}
	return Pending, nil
}

// Fulfill transitions the status to Fulfilled when the paired trip completes.
func (s Status) Fulfill() (Status, error) {
	if s != Assigning {
		return 0, errs.NewStateConflictError("demand status", Assigning.String(), s.String())
	}
	return Fulfilled, nil
}
