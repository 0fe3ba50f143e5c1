package commands

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
)

// SubmitDemandCommandHandler registers new transport demand.
// Creates the demand in Pending status; it enters the matching pool only
// after an explicit approval.
//
// Example:
//
//	handler := NewSubmitDemandCommandHandler(uowFactory)
//	cmd, _ := NewSubmitDemandCommand(demandID, origin, destination, 12, demand.PriorityHigh)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("demand submission failed: %w", err)
//	}
type SubmitDemandCommandHandler struct {
	uowFactory DemandUoWFactory
}

// NewSubmitDemandCommandHandler creates a handler for demand submissions.
// Requires a DemandUoWFactory for transactional persistence.
func NewSubmitDemandCommandHandler(uowFactory DemandUoWFactory) SubmitDemandCommandHandler {
	return SubmitDemandCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the demand submission command.
func (h SubmitDemandCommandHandler) Handle(ctx context.Context, command SubmitDemandCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	submitted, err := demand.NewDemand(
		command.DemandID(),
		command.Origin(),
		command.Destination(),
		command.Quantity(),
		command.Priority(),
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.DemandRepository().Add(ctx, submitted); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
