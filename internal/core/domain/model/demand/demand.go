package demand

import (
	"errors"
	"fmt"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

// ErrDemandIsNotConstructed is returned when a Demand instance was not created
// through the NewDemand or RestoreDemand factory methods.
var ErrDemandIsNotConstructed = errors.New("Demand must be created via NewDemand or RestoreDemand constructor")

// Demand represents a request to move a quantity between two stations.
// It enters the system Pending, becomes matchable once Approved, and is
// mutated only by the matcher (begin assignment) and the sweeper
// (revert or fulfill) after that.
//
// Invariants:
//   - Origin and destination are distinct stations
//   - Quantity is positive
//   - Only Approved demands are eligible for matching
//   - An Assigning demand always references the paired token and target driver
type Demand struct {
	id                  kernel.UUID
	origin              kernel.StationCode
	destination         kernel.StationCode
	quantity            int
	priority            Priority
	status              Status
	submittedAt         time.Time
	approvedAt          *time.Time
	assignmentStartedAt *time.Time
	allocatedTokenID    *kernel.UUID
	targetDriverID      *kernel.UUID
	guard               guard.ConstructorGuard
}

// NewDemand creates a freshly submitted Demand in Pending status.
func NewDemand(
	id kernel.UUID,
	origin kernel.StationCode,
	destination kernel.StationCode,
	quantity int,
	priority Priority,
	submittedAt time.Time,
) (*Demand, error) {
	demand := &Demand{
		status: Pending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		demand.setID(id),
		demand.setRoute(origin, destination),
		demand.setQuantity(quantity),
		demand.setPriority(priority),
		demand.setSubmittedAt(submittedAt),
	); err != nil {
		return nil, err
	}

	return demand, nil
}

// RestoreDemand reconstructs a Demand aggregate from persistent storage,
// re-checking the consistency of the optional assignment fields against
// the status.
func RestoreDemand(
	id kernel.UUID,
	origin kernel.StationCode,
	destination kernel.StationCode,
	quantity int,
	priority Priority,
	status Status,
	submittedAt time.Time,
	approvedAt *time.Time,
	assignmentStartedAt *time.Time,
	allocatedTokenID *kernel.UUID,
	targetDriverID *kernel.UUID,
) (*Demand, error) {
	demand := &Demand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		demand.setID(id),
		demand.setRoute(origin, destination),
		demand.setQuantity(quantity),
		demand.setPriority(priority),
		demand.setSubmittedAt(submittedAt),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	demand.status = status
	demand.approvedAt = approvedAt
	demand.assignmentStartedAt = assignmentStartedAt
	demand.allocatedTokenID = allocatedTokenID
	demand.targetDriverID = targetDriverID

	if err := demand.validateStateConsistency(); err != nil {
		return nil, err
	}

	return demand, nil
}

// Validate ensures the Demand instance was properly constructed.
func (d *Demand) Validate() error {
	if d == nil {
		return ErrDemandIsNotConstructed
	}
	return d.guard.Validate(ErrDemandIsNotConstructed)
}

// IsEqual compares two demands by their unique identifiers.
func (d *Demand) IsEqual(other *Demand) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the demand's unique identifier.
func (d *Demand) ID() kernel.UUID {
	return d.id
}

// Origin returns the station the quantity moves from.
func (d *Demand) Origin() kernel.StationCode {
	return d.origin
}

// Destination returns the station the quantity moves to.
func (d *Demand) Destination() kernel.StationCode {
	return d.destination
}

// Quantity returns the amount to move.
func (d *Demand) Quantity() int {
	return d.quantity
}

// Priority returns the matching tier.
func (d *Demand) Priority() Priority {
	return d.priority
}

// Status returns the current status of the demand.
func (d *Demand) Status() Status {
	return d.status
}

// SubmittedAt returns when the demand entered the system.
func (d *Demand) SubmittedAt() time.Time {
	return d.submittedAt
}

// ApprovedAt returns when the demand was approved, nil before approval.
// The matcher breaks priority ties by this timestamp.
func (d *Demand) ApprovedAt() *time.Time {
	return d.approvedAt
}

// AssignmentStartedAt returns when the current assignment began, nil when
// the demand is not Assigning. The sweeper compares it against the
// assignment timeout.
func (d *Demand) AssignmentStartedAt() *time.Time {
	return d.assignmentStartedAt
}

// AllocatedTokenID returns the paired token, nil when no assignment is open.
func (d *Demand) AllocatedTokenID() *kernel.UUID {
	return d.allocatedTokenID
}

// TargetDriverID returns the driver the open offer targets, nil when no
// assignment is open.
func (d *Demand) TargetDriverID() *kernel.UUID {
	return d.targetDriverID
}

// IsMatchable reports whether the demand sits in the matching pool.
func (d *Demand) IsMatchable() bool {
	return d.status == Approved
}

// Approve moves a Pending demand into the matching pool.
func (d *Demand) Approve(at time.Time) error {
	newStatus, err := d.status.Approve()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.approvedAt = &at
	return nil
}

// Reject refuses a Pending demand. This is a final state.
func (d *Demand) Reject() error {
	newStatus, err := d.status.Reject()
	if err != nil {
		return err
	}

	d.status = newStatus
	return nil
}

// BeginAssignment pairs the demand with a token and takes it out of the
// matching pool. Only the matcher calls this, inside the same atomic unit
// that allocates the token.
func (d *Demand) BeginAssignment(tokenID kernel.UUID, driverID kernel.UUID, at time.Time) error {
	if err := errors.Join(tokenID.Validate(), driverID.Validate()); err != nil {
		return err
	}

	newStatus, err := d.status.BeginAssignment()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.allocatedTokenID = &tokenID
	d.targetDriverID = &driverID
	d.assignmentStartedAt = &at
	return nil
}

// RevertToPending reclaims a stale assignment: the token link, target driver
// and assignment start are cleared and the demand must be re-approved before
// it can match again. Only the sweeper calls this.
func (d *Demand) RevertToPending() error {
	newStatus, err := d.status.RevertToPending()
	if err != nil {
		return err
	}

	d.status = newStatus
	d.allocatedTokenID = nil
	d.targetDriverID = nil
	d.assignmentStartedAt = nil
	d.approvedAt = nil
	return nil
}

// Fulfill closes the demand after its trip completed. The token link is kept
// for audit.
func (d *Demand) Fulfill() error {
	newStatus, err := d.status.Fulfill()
	if err != nil {
		return err
	}

	d.status = newStatus
	return nil
}

// setID validates and sets the demand's unique identifier.
func (d *Demand) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setRoute validates and sets the origin and destination pair.
func (d *Demand) setRoute(origin kernel.StationCode, destination kernel.StationCode) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}
	if origin.IsEqual(destination) {
		return errs.NewValueIsInvalidErrorWithCause("route is invalid",
			fmt.Errorf("origin and destination are both %s", origin))
	}

	d.origin = origin
	d.destination = destination
	return nil
}

// setQuantity validates and sets the quantity. Quantity must be positive.
func (d *Demand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity is invalid",
			fmt.Errorf("%d is not greater than 0", quantity))
	}
	d.quantity = quantity
	return nil
}

// setPriority validates and sets the matching tier.
func (d *Demand) setPriority(priority Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}
	d.priority = priority
	return nil
}

// setSubmittedAt validates and sets the submission instant.
func (d *Demand) setSubmittedAt(submittedAt time.Time) error {
	if submittedAt.IsZero() {
		return errs.NewValueIsRequiredError("submittedAt")
	}
	d.submittedAt = submittedAt
	return nil
}

// validateStateConsistency cross-checks status against the optional fields
// when restoring from persistence.
func (d *Demand) validateStateConsistency() error {
	hasAssignment := d.allocatedTokenID != nil && d.targetDriverID != nil && d.assignmentStartedAt != nil

	switch d.status {
	case Pending, Rejected:
		if d.allocatedTokenID != nil || d.targetDriverID != nil || d.assignmentStartedAt != nil {
			return errs.NewValueIsInvalidErrorWithCause("demand state",
				fmt.Errorf("%s demand %s carries assignment fields", d.status, d.id))
		}
	case Approved:
		if d.approvedAt == nil {
			return errs.NewValueIsInvalidErrorWithCause("demand state",
				fmt.Errorf("approved demand %s is missing approvedAt", d.id))
		}
		if d.allocatedTokenID != nil || d.targetDriverID != nil || d.assignmentStartedAt != nil {
			return errs.NewValueIsInvalidErrorWithCause("demand state",
				fmt.Errorf("approved demand %s carries assignment fields", d.id))
		}
	case Assigning, Fulfilled:
		if !hasAssignment {
			return errs.NewValueIsInvalidErrorWithCause("demand state",
				fmt.Errorf("%s demand %s is missing assignment fields", d.status, d.id))
		}
	case Unknown:
		return errs.NewValueIsInvalidError("demand status")
	}
	return nil
}
