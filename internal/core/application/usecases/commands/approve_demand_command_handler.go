package commands

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
)

// ApproveDemandCommandHandler moves a demand into the matching pool and runs
// one matcher pass for its origin in the same transaction. A vehicle already
// waiting at the station is paired before the approval even commits.
//
// Example:
//
//	handler := NewApproveDemandCommandHandler(uowFactory)
//	cmd, _ := NewApproveDemandCommand(demandID)
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("approval failed: %w", err)
//	}
type ApproveDemandCommandHandler struct {
	uowFactory MatchUoWFactory
}

// NewApproveDemandCommandHandler creates a handler for demand approvals.
// Requires a MatchUoWFactory for coordinating transactional updates across repositories.
func NewApproveDemandCommandHandler(uowFactory MatchUoWFactory) ApproveDemandCommandHandler {
	return ApproveDemandCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the demand approval command.
// Approving a demand that is not Pending fails with a state conflict from
// the aggregate's transition rules.
func (h ApproveDemandCommandHandler) Handle(ctx context.Context, command ApproveDemandCommand) error {
	if err := command.Validate(); err != nil {
		return err
	}

	now := time.Now().UTC()
	day, err := kernel.NewServiceDay(now)
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

	approved, err := uow.DemandRepository().GetForUpdate(ctx, command.DemandID())
	if err != nil {
		return err
	}

	if err = approved.Approve(now); err != nil {
		return err
	}

	if err = uow.DemandRepository().Update(ctx, approved); err != nil {
		return err
	}

	if err = uow.LockStationDay(ctx, approved.Origin(), day); err != nil {
		return err
	}

	if _, err = matchStation(ctx, uow, approved.Origin(), day, now); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
