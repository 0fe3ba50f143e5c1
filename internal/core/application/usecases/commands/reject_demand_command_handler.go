package commands

import (
	"context"
)

// RejectDemandCommandHandler refuses pending demand.
// Rejection only touches the demand aggregate; tokens and trips are never
// involved because a pending demand was never matched.
//
// Example:
//
//	handler := NewRejectDemandCommandHandler(uowFactory)
//	cmd, _ := NewRejectDemandCommand(demandID)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("rejection failed: %w", err)
//	}
type RejectDemandCommandHandler struct {
	uowFactory DemandUoWFactory
}

// NewRejectDemandCommandHandler creates a handler for demand rejections.
// Requires a DemandUoWFactory for transactional persistence.
func NewRejectDemandCommandHandler(uowFactory DemandUoWFactory) RejectDemandCommandHandler {
	return RejectDemandCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the demand rejection command.
// Rejecting a demand that is not Pending fails with a state conflict from
// the aggregate's transition rules.
func (h RejectDemandCommandHandler) Handle(ctx context.Context, command RejectDemandCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	rejected, err := uow.DemandRepository().GetForUpdate(ctx, command.DemandID())
	if err != nil {
		return err
	}

	if err = rejected.Reject(); err != nil {
		return err
	}

	if err = uow.DemandRepository().Update(ctx, rejected); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
