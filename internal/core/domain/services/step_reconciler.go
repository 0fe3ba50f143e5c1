package services

import (
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
)

// StepReconciler is a domain service that derives a trip's true progress from
// persisted facts rather than trusting the stored step counter.
//
// The derivation looks at the trip status, the milestone timestamps in the
// snapshot and the trip's transfer records. Read paths compare the result
// against the stored step and serve the higher of the two, so a missed sync
// never hides progress and a corrupted counter never regresses it.
type StepReconciler struct{}

// NewStepReconciler creates a new StepReconciler instance.
func NewStepReconciler() StepReconciler {
	return StepReconciler{}
}

// ComputeStepFromState derives the step a trip must be at, given only its
// persisted state. The records must belong to the trip.
//
// Derivation rules:
//   - Completed trips are at the final step, cancelled trips at the first
//   - InProgress implies at least acceptance
//   - Each stamped milestone raises the floor (accepted, arrived at origin,
//     arrived at destination)
//   - An open transfer record puts the trip in the point's mid-transfer
//     step; a confirmed record puts it past the point's confirmation
//
// The result is the maximum floor any fact supports.
func (r StepReconciler) ComputeStepFromState(
	t *trip.Trip,
	records []*transfer.TransferRecord,
) (trip.Step, error) {
	if err := t.Validate(); err != nil {
		return trip.StepNone, err
	}

	switch t.Status() {
	case trip.Completed:
		return trip.StepCompleted, nil
	case trip.Cancelled:
		return trip.StepNone, nil
	}

	step := trip.StepNone
	if t.Status() == trip.InProgress {
		step = maxStep(step, trip.StepAccepted)
	}

	snapshot := t.Snapshot()
	if snapshot.AcceptedAt != nil {
		step = maxStep(step, trip.StepAccepted)
	}
	if snapshot.ArrivedOriginAt != nil {
		step = maxStep(step, trip.StepArrivedOrigin)
	}
	if snapshot.ArrivedDestinationAt != nil {
		step = maxStep(step, trip.StepDestinationTransfer)
	}
	if snapshot.CompletedAt != nil {
		step = maxStep(step, trip.StepCompleted)
	}

	for _, record := range records {
		if err := record.Validate(); err != nil {
			return trip.StepNone, err
		}

		switch record.Point() {
		case transfer.PointOrigin:
			if record.IsOpen() {
				step = maxStep(step, trip.StepOriginTransfer)
			} else {
				step = maxStep(step, trip.StepOriginConfirmed)
			}
		case transfer.PointDestination:
			if record.IsOpen() {
				step = maxStep(step, trip.StepDestinationTransfer)
			} else {
				step = maxStep(step, trip.StepDestinationConfirmed)
			}
		}
	}

	return step, nil
}

func maxStep(a, b trip.Step) trip.Step {
	if a > b {
		return a
	}
	return b
}
