package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
)

// SweepExpiredCommandHandler reclaims records the normal workflow abandoned.
//
// The sweep runs three passes:
//  1. Assignments whose offer sat unaccepted past the timeout: the demand
//     returns to Pending, the token expires with AssignmentTimeout and the
//     trip is cancelled, with one assignment.expired event per reclaim.
//  2. Allocated tokens whose trip reached the final step: the token retires
//     with TripCompleted and the demand is fulfilled.
//  3. Waiting tokens whose shift already ended: expired with ShiftEnded.
//
// Candidates are listed without a transaction; every reclaim then runs in
// its own transaction and re-checks state under row locks, skipping pairs
// that moved on. A failed reclaim is logged and never stops the pass.
// Reclaim transactions lock token, then trip, then demand, the same order
// token cancellation uses.
type SweepExpiredCommandHandler struct {
	uowFactory        ReclaimUoWFactory
	assignmentTimeout time.Duration
	logger            *slog.Logger
}

// NewSweepExpiredCommandHandler creates a handler for reclamation sweeps.
// Requires a ReclaimUoWFactory, the assignment acceptance timeout and a
// logger for per-pair failures.
func NewSweepExpiredCommandHandler(
	uowFactory ReclaimUoWFactory,
	assignmentTimeout time.Duration,
	logger *slog.Logger,
) SweepExpiredCommandHandler {
	return SweepExpiredCommandHandler{
		uowFactory:        uowFactory,
		assignmentTimeout: assignmentTimeout,
		logger:            logger.With("component", "expiry_sweeper"),
	}
}

// Handle processes one reclamation sweep.
// Returns an error only when a candidate listing fails; per-pair reclaim
// failures are logged and skipped.
func (h SweepExpiredCommandHandler) Handle(ctx context.Context, command SweepExpiredCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	if err := h.reclaimTimedOutAssignments(ctx, now); err != nil {
		return err
	}

	if err := h.retireCompletedTrips(ctx, now); err != nil {
		return err
	}

	return h.expireEndedShiftTokens(ctx, now)
}

func (h SweepExpiredCommandHandler) reclaimTimedOutAssignments(ctx context.Context, now time.Time) error {
	cutoff := now.Add(-h.assignmentTimeout)

	candidates, err := h.uowFactory.Create().DemandRepository().GetAssigningStartedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		tokenID := candidate.AllocatedTokenID()
		if tokenID == nil {
			continue
		}

		if err = h.reclaimAssignment(ctx, candidate.ID(), *tokenID, cutoff, now); err != nil {
			h.logger.ErrorContext(ctx, "Assignment reclaim failed",
				"demandId", candidate.ID().String(),
				"tokenId", tokenID.String(),
				"error", err)
		}
	}

	return nil
}

// reclaimAssignment reverts one timed-out assignment in its own transaction.
// Any re-check that fails means the pair moved on; the reclaim is skipped
// without error.
func (h SweepExpiredCommandHandler) reclaimAssignment(
	ctx context.Context,
	demandID kernel.UUID,
	tokenID kernel.UUID,
	cutoff time.Time,
	now time.Time,
) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	reclaimed, err := uow.TokenRepository().GetForUpdate(ctx, tokenID)
	if err != nil {
		return err
	}
	if reclaimed.Status() != token.Allocated || reclaimed.TripID() == nil {
		return nil
	}

	offeredTrip, err := uow.TripRepository().GetForUpdate(ctx, *reclaimed.TripID())
	if err != nil {
		return err
	}
	if offeredTrip.Status() != trip.Offered || offeredTrip.CurrentStep() != trip.StepNone {
		return nil
	}

	stuck, err := uow.DemandRepository().GetForUpdate(ctx, demandID)
	if err != nil {
		return err
	}
	if stuck.Status() != demand.Assigning {
		return nil
	}
	if linked := stuck.AllocatedTokenID(); linked == nil || !linked.IsEqual(reclaimed.ID()) {
		return nil
	}
	if started := stuck.AssignmentStartedAt(); started == nil || !started.Before(cutoff) {
		return nil
	}

	if err = stuck.RevertToPending(); err != nil {
		return err
	}
	if err = reclaimed.Expire(token.ReasonAssignmentTimeout, now); err != nil {
		return err
	}
	if err = offeredTrip.Cancel(now); err != nil {
		return err
	}

	if err = uow.DemandRepository().Update(ctx, stuck); err != nil {
		return err
	}
	if err = uow.TokenRepository().Update(ctx, reclaimed); err != nil {
		return err
	}
	if err = uow.TripRepository().Update(ctx, offeredTrip); err != nil {
		return err
	}

	event := AssignmentExpiredEvent{
		TokenID:   reclaimed.ID().String(),
		DemandID:  stuck.ID().String(),
		TripID:    offeredTrip.ID().String(),
		DriverID:  reclaimed.DriverID().String(),
		Station:   reclaimed.Station().String(),
		Reason:    token.ReasonAssignmentTimeout.String(),
		ExpiredAt: now,
	}
	if err = uow.OutboxRepository().Add(ctx, EventAssignmentExpired, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "Reclaimed timed-out assignment",
		"demandId", stuck.ID().String(),
		"tokenId", reclaimed.ID().String(),
		"station", reclaimed.Station().String())

	return nil
}

func (h SweepExpiredCommandHandler) retireCompletedTrips(ctx context.Context, now time.Time) error {
	candidates, err := h.uowFactory.Create().TokenRepository().GetAllocatedWithCompletedTrip(ctx)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		if err = h.retireToken(ctx, candidate.ID(), now); err != nil {
			h.logger.ErrorContext(ctx, "Token retirement failed",
				"tokenId", candidate.ID().String(),
				"error", err)
		}
	}

	return nil
}

// retireToken expires one token whose trip completed and fulfills the
// demand in the same transaction, so the driver can re-queue and the demand
// leaves Assigning together.
func (h SweepExpiredCommandHandler) retireToken(ctx context.Context, tokenID kernel.UUID, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	retired, err := uow.TokenRepository().GetForUpdate(ctx, tokenID)
	if err != nil {
		return err
	}
	if retired.Status() != token.Allocated || retired.TripID() == nil {
		return nil
	}

	completedTrip, err := uow.TripRepository().Get(ctx, *retired.TripID())
	if err != nil {
		return err
	}
	if completedTrip.Status() != trip.Completed {
		return nil
	}

	if err = retired.Expire(token.ReasonTripCompleted, now); err != nil {
		return err
	}
	if err = uow.TokenRepository().Update(ctx, retired); err != nil {
		return err
	}

	fulfilled, err := uow.DemandRepository().GetForUpdate(ctx, completedTrip.DemandID())
	if err != nil {
		return err
	}
	if fulfilled.Status() == demand.Assigning {
		if err = fulfilled.Fulfill(); err != nil {
			return err
		}
		if err = uow.DemandRepository().Update(ctx, fulfilled); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.logger.InfoContext(ctx, "Retired token of completed trip",
		"tokenId", retired.ID().String(),
		"tripId", completedTrip.ID().String())

	return nil
}

func (h SweepExpiredCommandHandler) expireEndedShiftTokens(ctx context.Context, now time.Time) error {
	candidates, err := h.uowFactory.Create().TokenRepository().GetWaitingWithEndedShift(ctx, now)
	if err != nil {
		return err
	}

	for _, candidate := range candidates {
		if err = h.expireShiftToken(ctx, candidate.ID(), now); err != nil {
			h.logger.ErrorContext(ctx, "Shift-end expiry failed",
				"tokenId", candidate.ID().String(),
				"error", err)
		}
	}

	return nil
}

func (h SweepExpiredCommandHandler) expireShiftToken(ctx context.Context, tokenID kernel.UUID, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	expired, err := uow.TokenRepository().GetForUpdate(ctx, tokenID)
	if err != nil {
		return err
	}
	if expired.Status() != token.Waiting {
		return nil
	}

	if err = expired.Expire(token.ReasonShiftEnded, now); err != nil {
		return err
	}
	if err = uow.TokenRepository().Update(ctx, expired); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
