package commands

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/services"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// ManualAllocateCommandHandler executes a privileged out-of-order pairing.
// Both rows are re-selected under row locks and re-validated before the
// mutation commits, so a pairing that lost a race with the regular matcher
// fails with a state conflict instead of double-allocating.
//
// Example:
//
//	handler := NewManualAllocateCommandHandler(uowFactory)
//	cmd, _ := NewManualAllocateCommand(tokenID, demandID)
//
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrStateConflict) {
//	    log.Println("Token or demand was already taken")
//	}
type ManualAllocateCommandHandler struct {
	uowFactory MatchUoWFactory
}

// NewManualAllocateCommandHandler creates a handler for manual allocations.
// Requires a MatchUoWFactory for coordinating transactional updates across repositories.
func NewManualAllocateCommandHandler(uowFactory MatchUoWFactory) ManualAllocateCommandHandler {
	return ManualAllocateCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the manual allocation command.
// Fails with a StateConflictError when the token is no longer Waiting or the
// demand is no longer Approved. The pairing may cross stations; ordering
// rules do not apply to privileged overrides.
func (h ManualAllocateCommandHandler) Handle(ctx context.Context, command ManualAllocateCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	chosenToken, err := uow.TokenRepository().GetForUpdate(ctx, command.TokenID())
	if err != nil {
		return err
	}
	if chosenToken.Status() != token.Waiting {
		return errs.NewStateConflictError("token status", token.Waiting.String(), chosenToken.Status().String())
	}

	chosenDemand, err := uow.DemandRepository().GetForUpdate(ctx, command.DemandID())
	if err != nil {
		return err
	}
	if chosenDemand.Status() != demand.Approved {
		return errs.NewStateConflictError("demand status", demand.Approved.String(), chosenDemand.Status().String())
	}

	newTrip, err := services.NewAllocationService().Allocate(chosenToken, chosenDemand, now)
	if err != nil {
		return err
	}

	if err = uow.TokenRepository().Update(ctx, chosenToken); err != nil {
		return err
	}

	if err = uow.DemandRepository().Update(ctx, chosenDemand); err != nil {
		return err
	}

	if err = uow.TripRepository().Add(ctx, newTrip); err != nil {
		return err
	}

	event := TokenAllocatedEvent{
		TokenID:     chosenToken.ID().String(),
		TokenNo:     chosenToken.TokenNo().String(),
		DriverID:    chosenToken.DriverID().String(),
		VehicleID:   chosenToken.VehicleID().String(),
		DemandID:    chosenDemand.ID().String(),
		TripID:      newTrip.ID().String(),
		Station:     chosenToken.Station().String(),
		AllocatedAt: now,
	}

	if err = uow.OutboxRepository().Add(ctx, EventTokenAllocated, event); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
