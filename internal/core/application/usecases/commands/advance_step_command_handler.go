package commands

import (
	"context"
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// AdvanceStepCommandHandler applies a trip step sync.
//
// The trip's step only moves forward; the snapshot merge is additive either
// way. Transfer record work keys off the step the client reports, not the
// effective step, so a late origin confirmation still releases its bay after
// the trip has moved on to the destination.
//
// Bay admission: a sync that opens a transfer record at a station counts the
// station's open records under the bay advisory lock and rejects with a
// CapacityExceededError when no bay is free. Confirmation releases the bay;
// readings alone never do.
//
// Example:
//
//	handler := NewAdvanceStepCommandHandler(uowFactory, 2)
//	cmd, _ := NewAdvanceStepCommand(tripID, "driver:93", trip.StepAccepted, trip.Snapshot{})
//
//	step, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrExpired):
//	    log.Println("Offer was reclaimed; request a new token")
//	case errors.Is(err, errs.ErrCapacityExceeded):
//	    log.Println("All bays busy; wait for a confirmation")
//	case err != nil:
//	    log.Printf("Step sync failed: %v", err)
//	default:
//	    log.Printf("Trip is at %s", step)
//	}
type AdvanceStepCommandHandler struct {
	uowFactory  TripUoWFactory
	bayCapacity int
}

// NewAdvanceStepCommandHandler creates a handler for trip step syncs.
// Requires a TripUoWFactory and the per-station transfer bay capacity.
func NewAdvanceStepCommandHandler(uowFactory TripUoWFactory, bayCapacity int) AdvanceStepCommandHandler {
	return AdvanceStepCommandHandler{
		uowFactory:  uowFactory,
		bayCapacity: bayCapacity,
	}
}

// Handle processes the step sync and returns the trip's resulting step.
//
// A sync against a cancelled trip fails with an ExpiredError so a late
// accept observes the sweeper's reclaim instead of resurrecting the offer.
// One trip.step.advanced event is appended when and only when the stored
// step actually increased.
func (h AdvanceStepCommandHandler) Handle(ctx context.Context, command AdvanceStepCommand) (trip.Step, error) {
	if err := command.Validate(); err != nil {
		return trip.StepNone, err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return trip.StepNone, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	syncedTrip, err := uow.TripRepository().GetForUpdate(ctx, command.TripID())
	if err != nil {
		return trip.StepNone, err
	}

	advanced, err := syncedTrip.AdvanceStep(command.NewStep(), h.stampConfirmer(command), now)
	if err != nil {
		return trip.StepNone, err
	}

	if err = h.syncTransferRecord(ctx, uow, syncedTrip, command, now); err != nil {
		return trip.StepNone, err
	}

	if err = uow.TripRepository().Update(ctx, syncedTrip); err != nil {
		return trip.StepNone, err
	}

	if advanced {
		event := TripStepAdvancedEvent{
			TripID:     syncedTrip.ID().String(),
			DriverID:   syncedTrip.DriverID().String(),
			Step:       int(syncedTrip.CurrentStep()),
			StepName:   syncedTrip.CurrentStep().String(),
			AdvancedAt: now,
		}
		if err = uow.OutboxRepository().Add(ctx, EventTripStepAdvanced, event); err != nil {
			return trip.StepNone, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return trip.StepNone, err
	}

	return syncedTrip.CurrentStep(), nil
}

// stampConfirmer records the acting party in the snapshot on confirmation
// steps when the client did not name one explicitly.
func (h AdvanceStepCommandHandler) stampConfirmer(command AdvanceStepCommand) trip.Snapshot {
	payload := command.Payload()
	actor := command.Actor()

	switch command.NewStep() {
	case trip.StepOriginConfirmed:
		if payload.OriginConfirmedBy == nil {
			payload.OriginConfirmedBy = &actor
		}
	case trip.StepDestinationConfirmed:
		if payload.DestinationConfirmedBy == nil {
			payload.DestinationConfirmedBy = &actor
		}
	}

	return payload
}

// syncTransferRecord opens, updates or confirms the transfer record named by
// the reported step. Confirmed records are frozen; repeated syncs against
// them are skipped entirely.
func (h AdvanceStepCommandHandler) syncTransferRecord(
	ctx context.Context,
	uow TripUoW,
	syncedTrip *trip.Trip,
	command AdvanceStepCommand,
	now time.Time,
) error {
	reported := command.NewStep()
	if !reported.OpensTransfer() && !reported.ConfirmsTransfer() {
		return nil
	}

	point := transfer.PointOrigin
	station := syncedTrip.Origin()
	if reported == trip.StepDestinationTransfer || reported == trip.StepDestinationConfirmed {
		point = transfer.PointDestination
		station = syncedTrip.Destination()
	}

	transferRepo := uow.TransferRepository()

	record, err := transferRepo.GetByTripAndPoint(ctx, syncedTrip.ID(), point)
	created := false

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		// Admission only gates records that stay open after commit. A record
		// created and confirmed in the same sync never holds a bay.
		if reported.OpensTransfer() {
			if err = uow.LockStationBays(ctx, station); err != nil {
				return err
			}

			open, countErr := transferRepo.CountOpenAtStation(ctx, station)
			if countErr != nil {
				return countErr
			}
			if open >= h.bayCapacity {
				return errs.NewCapacityExceededError("station bays", h.bayCapacity)
			}
		}

		record, err = transfer.NewTransferRecord(kernel.NewUUID(), syncedTrip.ID(), station, point, now)
		if err != nil {
			return err
		}
		created = true

	case err != nil:
		return err
	}

	if !record.IsOpen() {
		return nil
	}

	if err = h.applySnapshotData(record, syncedTrip.Snapshot(), point); err != nil {
		return err
	}

	if reported.ConfirmsTransfer() {
		if err = record.Confirm(command.Actor(), now); err != nil {
			return err
		}
	}

	if created {
		return transferRepo.Add(ctx, record)
	}
	return transferRepo.Update(ctx, record)
}

// applySnapshotData copies the point's readings and photos from the merged
// snapshot onto the record. The record keeps first-recorded values, so
// re-applying after a repeat sync changes nothing.
func (h AdvanceStepCommandHandler) applySnapshotData(
	record *transfer.TransferRecord,
	snapshot trip.Snapshot,
	point transfer.Point,
) error {
	pre := snapshot.OriginPreReading
	post := snapshot.OriginPostReading
	photos := snapshot.OriginPhotoRefs
	if point == transfer.PointDestination {
		pre = snapshot.DestinationPreReading
		post = snapshot.DestinationPostReading
		photos = snapshot.DestinationPhotoRefs
	}

	if pre != nil && *pre != "" {
		if err := record.RecordPreReading(*pre); err != nil {
			return err
		}
	}

	if post != nil && *post != "" {
		if err := record.RecordPostReading(*post); err != nil {
			return err
		}
	}

	if len(photos) > 0 {
		if err := record.AddPhotoRefs(photos...); err != nil {
			return err
		}
	}

	return nil
}
