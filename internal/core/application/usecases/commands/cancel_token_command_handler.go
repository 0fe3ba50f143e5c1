package commands

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// CancelTokenCommandHandler withdraws a token from its queue.
//
// A Waiting token expires directly. An Allocated token can only be cancelled
// while its trip offer sits unaccepted at the first step; the handler then
// reverts the paired demand to the pool and cancels the trip in the same
// transaction, mirroring the sweeper's reclaim. An accepted trip blocks the
// cancellation with a state conflict, an already expired token with an
// expired error.
//
// Example:
//
//	handler := NewCancelTokenCommandHandler(uowFactory)
//	cmd, _ := NewCancelTokenCommand(tokenID)
//
//	err := handler.Handle(ctx, cmd)
//	if errors.Is(err, errs.ErrStateConflict) {
//	    log.Println("Trip already accepted; cancel the trip instead")
//	}
type CancelTokenCommandHandler struct {
	uowFactory ReclaimUoWFactory
}

// NewCancelTokenCommandHandler creates a handler for token cancellations.
// Requires a ReclaimUoWFactory for coordinating transactional updates across repositories.
func NewCancelTokenCommandHandler(uowFactory ReclaimUoWFactory) CancelTokenCommandHandler {
	return CancelTokenCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the token cancellation command.
func (h CancelTokenCommandHandler) Handle(ctx context.Context, command CancelTokenCommand) error {
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

	tokenRepo := uow.TokenRepository()

	cancelled, err := tokenRepo.GetForUpdate(ctx, command.TokenID())
	if err != nil {
		return err
	}

	switch cancelled.Status() {
	case token.Waiting:
		if err = cancelled.Expire(token.ReasonCancelled, now); err != nil {
			return err
		}
		if err = tokenRepo.Update(ctx, cancelled); err != nil {
			return err
		}

	case token.Allocated:
		if err = h.reclaimOffer(ctx, uow, cancelled, now); err != nil {
			return err
		}

	case token.Expired:
		reason := cancelled.ExpiryReason().String()
		return errs.NewExpiredError("token", cancelled.ID().String(), reason)

	default:
		return errs.NewValueIsInvalidError("token status")
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}

// reclaimOffer undoes an unaccepted allocation: the demand returns to the
// pool, the trip is cancelled and the token expires, all in one transaction.
func (h CancelTokenCommandHandler) reclaimOffer(
	ctx context.Context,
	uow ReclaimUoW,
	cancelled *token.Token,
	now time.Time,
) error {
	tripID := cancelled.TripID()
	if tripID == nil {
		return errs.NewValueIsInvalidError("allocated token has no trip")
	}

	offeredTrip, err := uow.TripRepository().GetForUpdate(ctx, *tripID)
	if err != nil {
		return err
	}

	if offeredTrip.Status() != trip.Offered || offeredTrip.CurrentStep() != trip.StepNone {
		return errs.NewStateConflictError(
			"trip status",
			"unaccepted offer",
			offeredTrip.Status().String(),
		)
	}

	pairedDemand, err := uow.DemandRepository().GetForUpdate(ctx, offeredTrip.DemandID())
	if err != nil {
		return err
	}

	if err = pairedDemand.RevertToPending(); err != nil {
		return err
	}

	if err = offeredTrip.Cancel(now); err != nil {
		return err
	}

	if err = cancelled.Expire(token.ReasonCancelled, now); err != nil {
		return err
	}

	if err = uow.DemandRepository().Update(ctx, pairedDemand); err != nil {
		return err
	}

	if err = uow.TripRepository().Update(ctx, offeredTrip); err != nil {
		return err
	}

	if err = uow.TokenRepository().Update(ctx, cancelled); err != nil {
		return err
	}

	return nil
}
