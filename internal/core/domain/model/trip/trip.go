package trip

import (
	"errors"
	"fmt"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

// ErrTripIsNotConstructed is returned when a Trip instance was not created
// through the NewTrip or RestoreTrip factory methods.
var ErrTripIsNotConstructed = errors.New("Trip must be created via NewTrip or RestoreTrip constructor")

// Trip tracks one vehicle's fulfillment of one demand from offer to
// completion. The matcher creates it at step 0 ("offer extended"); explicit
// actor actions advance it through the eight-step workflow.
//
// Trip follows these invariants:
//   - current_step is monotonically non-decreasing: AdvanceStep applies
//     max(current, new), so a late or repeated action never moves it back
//   - the single exception is an explicit cancel, which forces step 0
//   - completion fixes the step at 7; terminal trips reject further advances
//   - the snapshot is additive: merges fill gaps and supersede placeholders
//     but never drop or overwrite recorded values
type Trip struct {
	// id is the unique identifier for the trip
	id kernel.UUID

	// demandID references the demand being fulfilled
	demandID kernel.UUID

	// tokenID references the token whose allocation created the trip
	tokenID kernel.UUID

	// driverID and vehicleID are denormalized from the token for direct lookup
	driverID  kernel.UUID
	vehicleID kernel.UUID

	// origin and destination are denormalized from the demand
	origin      kernel.StationCode
	destination kernel.StationCode

	// currentStep is the stored workflow position
	currentStep Step

	// snapshot accumulates the per-step payload
	snapshot Snapshot

	// status is the coarse lifecycle state
	status Status

	// milestone timestamps
	createdAt   time.Time
	completedAt *time.Time
	cancelledAt *time.Time

	// guard ensures the trip was created via a constructor
	guard guard.ConstructorGuard
}

// NewTrip creates a trip at step 0 in Offered status. The matcher calls this
// inside the same atomic unit that allocates the token and moves the demand
// to Assigning.
func NewTrip(
	id kernel.UUID,
	demandID kernel.UUID,
	tokenID kernel.UUID,
	driverID kernel.UUID,
	vehicleID kernel.UUID,
	origin kernel.StationCode,
	destination kernel.StationCode,
	createdAt time.Time,
) (*Trip, error) {
	trip := &Trip{
		currentStep: StepNone,
		status:      Offered,
		guard:       guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		trip.setID(id),
		trip.setDemandID(demandID),
		trip.setTokenID(tokenID),
		trip.setDriverID(driverID),
		trip.setVehicleID(vehicleID),
		trip.setRoute(origin, destination),
		trip.setCreatedAt(createdAt),
	); err != nil {
		return nil, err
	}

	return trip, nil
}

// RestoreTrip reconstructs a Trip aggregate from persistent storage,
// re-checking step/status consistency.
func RestoreTrip(
	id kernel.UUID,
	demandID kernel.UUID,
	tokenID kernel.UUID,
	driverID kernel.UUID,
	vehicleID kernel.UUID,
	origin kernel.StationCode,
	destination kernel.StationCode,
	currentStep Step,
	snapshot Snapshot,
	status Status,
	createdAt time.Time,
	completedAt *time.Time,
	cancelledAt *time.Time,
) (*Trip, error) {
	trip := &Trip{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		trip.setID(id),
		trip.setDemandID(demandID),
		trip.setTokenID(tokenID),
		trip.setDriverID(driverID),
		trip.setVehicleID(vehicleID),
		trip.setRoute(origin, destination),
		trip.setCreatedAt(createdAt),
		currentStep.Validate(),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	trip.currentStep = currentStep
	trip.snapshot = snapshot
	trip.status = status
	trip.completedAt = completedAt
	trip.cancelledAt = cancelledAt

	if err := trip.validateStateConsistency(); err != nil {
		return nil, err
	}

	return trip, nil
}

// Validate ensures the Trip instance was properly constructed.
func (t *Trip) Validate() error {
	if t == nil {
		return ErrTripIsNotConstructed
	}
	return t.guard.Validate(ErrTripIsNotConstructed)
}

// IsEqual compares two trips by their unique identifiers.
func (t *Trip) IsEqual(other *Trip) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the trip's unique identifier.
func (t *Trip) ID() kernel.UUID {
	return t.id
}

// DemandID returns the demand being fulfilled.
func (t *Trip) DemandID() kernel.UUID {
	return t.demandID
}

// TokenID returns the token whose allocation created the trip.
func (t *Trip) TokenID() kernel.UUID {
	return t.tokenID
}

// DriverID returns the driver executing the trip.
func (t *Trip) DriverID() kernel.UUID {
	return t.driverID
}

// VehicleID returns the vehicle executing the trip.
func (t *Trip) VehicleID() kernel.UUID {
	return t.vehicleID
}

// Origin returns the station the trip starts from.
func (t *Trip) Origin() kernel.StationCode {
	return t.origin
}

// Destination returns the station the trip delivers to.
func (t *Trip) Destination() kernel.StationCode {
	return t.destination
}

// CurrentStep returns the stored workflow position.
func (t *Trip) CurrentStep() Step {
	return t.currentStep
}

// Snapshot returns the accumulated per-step payload.
func (t *Trip) Snapshot() Snapshot {
	return t.snapshot
}

// Status returns the coarse lifecycle state.
func (t *Trip) Status() Status {
	return t.status
}

// CreatedAt returns when the matcher created the trip.
func (t *Trip) CreatedAt() time.Time {
	return t.createdAt
}

// CompletedAt returns when the trip reached the final step, nil before that.
func (t *Trip) CompletedAt() *time.Time {
	return t.completedAt
}

// CancelledAt returns when the trip was cancelled, nil otherwise.
func (t *Trip) CancelledAt() *time.Time {
	return t.cancelledAt
}

// IsMidTransfer reports whether a transfer record is open for the trip,
// holding a bay at the corresponding station.
func (t *Trip) IsMidTransfer() bool {
	return t.currentStep.IsMidTransfer()
}

// TransferStation returns the station whose bay the trip occupies while
// mid-transfer: the origin at step 3, the destination at step 5.
// The second return value is false when no transfer is open.
func (t *Trip) TransferStation() (kernel.StationCode, bool) {
	switch t.currentStep {
	case StepOriginTransfer:
		return t.origin, true
	case StepDestinationTransfer:
		return t.destination, true
	default:
		return kernel.StationCode{}, false
	}
}

// AdvanceStep moves the trip to max(currentStep, newStep) and merges the
// partial payload into the snapshot. A lower or equal newStep is not an
// error: the merge still applies, the step simply does not move. The
// returned bool reports whether the stored step actually increased.
//
// Milestones the caller did not supply are stamped from the action instant
// when a threshold is crossed: acceptance (>=1), origin arrival (>=2),
// destination arrival (>=5) and completion (=7).
//
// Business rules:
//   - a cancelled trip fails with an ExpiredError: the offer was reclaimed
//     and a late action must observe that, not resurrect the trip
//   - a completed trip fails with a StateConflictError: the step is fixed at 7
//   - crossing into step 1 moves the status from Offered to InProgress
//   - reaching step 7 completes the trip
func (t *Trip) AdvanceStep(newStep Step, partial Snapshot, at time.Time) (bool, error) {
	if err := newStep.Validate(); err != nil {
		return false, err
	}

	switch t.status {
	case Cancelled:
		return false, errs.NewExpiredError("trip", t.id.String(), "offer reclaimed")
	case Completed:
		return false, errs.NewStateConflictError("trip status", "Offered or InProgress", t.status.String())
	case Offered, InProgress:
	case Unknown:
		return false, errs.NewValueIsInvalidError("trip status")
	}

	effective := t.currentStep
	if newStep > effective {
		effective = newStep
	}

	merged := t.snapshot.Merge(partial)
	merged = t.stampMilestones(merged, effective, at)

	advanced := effective > t.currentStep
	t.currentStep = effective
	t.snapshot = merged

	if t.status == Offered && effective >= StepAccepted {
		t.status = InProgress
	}
	if effective == StepCompleted {
		t.status = Completed
		t.completedAt = &at
	}

	return advanced, nil
}

// Cancel aborts the trip and forces the step back to 0. The snapshot and any
// transfer records are kept for audit. The sweeper cancels step-0 trips when
// reclaiming timed-out assignments; operators may cancel later steps
// explicitly.
func (t *Trip) Cancel(at time.Time) error {
	if t.status.IsTerminal() {
		return errs.NewStateConflictError("trip status", "Offered or InProgress", t.status.String())
	}

	t.status = Cancelled
	t.currentStep = StepNone
	t.cancelledAt = &at
	return nil
}

// stampMilestones fills threshold timestamps the partial payload left empty.
func (t *Trip) stampMilestones(snapshot Snapshot, effective Step, at time.Time) Snapshot {
	if effective >= StepAccepted && snapshot.AcceptedAt == nil {
		snapshot.AcceptedAt = &at
	}
	if effective >= StepArrivedOrigin && snapshot.ArrivedOriginAt == nil {
		snapshot.ArrivedOriginAt = &at
	}
	if effective >= StepDestinationTransfer && snapshot.ArrivedDestinationAt == nil {
		snapshot.ArrivedDestinationAt = &at
	}
	if effective == StepCompleted && snapshot.CompletedAt == nil {
		snapshot.CompletedAt = &at
	}
	return snapshot
}

// setID validates and sets the trip's unique identifier.
func (t *Trip) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

// setDemandID validates and sets the demand reference.
func (t *Trip) setDemandID(demandID kernel.UUID) error {
	if err := demandID.Validate(); err != nil {
		return err
	}
	t.demandID = demandID
	return nil
}

// setTokenID validates and sets the token reference.
func (t *Trip) setTokenID(tokenID kernel.UUID) error {
	if err := tokenID.Validate(); err != nil {
		return err
	}
	t.tokenID = tokenID
	return nil
}

// setDriverID validates and sets the driver reference.
func (t *Trip) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	t.driverID = driverID
	return nil
}

// setVehicleID validates and sets the vehicle reference.
func (t *Trip) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}
	t.vehicleID = vehicleID
	return nil
}

// setRoute validates and sets the origin and destination pair.
func (t *Trip) setRoute(origin kernel.StationCode, destination kernel.StationCode) error {
	if err := errors.Join(origin.Validate(), destination.Validate()); err != nil {
		return err
	}
	if origin.IsEqual(destination) {
		return errs.NewValueIsInvalidErrorWithCause("route is invalid",
			fmt.Errorf("origin and destination are both %s", origin))
	}

	t.origin = origin
	t.destination = destination
	return nil
}

// setCreatedAt validates and sets the creation instant.
func (t *Trip) setCreatedAt(createdAt time.Time) error {
	if createdAt.IsZero() {
		return errs.NewValueIsRequiredError("createdAt")
	}
	t.createdAt = createdAt
	return nil
}

// validateStateConsistency cross-checks status against step and milestones
// when restoring from persistence.
func (t *Trip) validateStateConsistency() error {
	switch t.status {
	case Offered:
		if t.currentStep != StepNone {
			return errs.NewValueIsInvalidErrorWithCause("trip state",
				fmt.Errorf("offered trip %s is at step %d", t.id, t.currentStep))
		}
	case InProgress:
		if t.currentStep < StepAccepted || t.currentStep > StepDestinationConfirmed {
			return errs.NewValueIsInvalidErrorWithCause("trip state",
				fmt.Errorf("in-progress trip %s is at step %d", t.id, t.currentStep))
		}
	case Completed:
		if t.currentStep != StepCompleted || t.completedAt == nil {
			return errs.NewValueIsInvalidErrorWithCause("trip state",
				fmt.Errorf("completed trip %s is at step %d", t.id, t.currentStep))
		}
	case Cancelled:
		if t.currentStep != StepNone || t.cancelledAt == nil {
			return errs.NewValueIsInvalidErrorWithCause("trip state",
				fmt.Errorf("cancelled trip %s is at step %d", t.id, t.currentStep))
		}
	case Unknown:
		return errs.NewValueIsInvalidError("trip status")
	}
	return nil
}
