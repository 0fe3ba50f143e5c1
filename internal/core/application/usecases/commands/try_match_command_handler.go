package commands

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
)

// TryMatchCommandHandler runs the allocation matcher for one station.
// Selection and the triple mutation (token, demand, trip) happen inside a
// single transaction serialized by the station-day advisory lock, so two
// concurrent passes can never pair the same token or demand twice.
//
// Example:
//
//	handler := NewTryMatchCommandHandler(uowFactory)
//	cmd, _ := NewTryMatchCommand(station)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Match pass failed: %v", err)
//	}
type TryMatchCommandHandler struct {
	uowFactory MatchUoWFactory
}

// NewTryMatchCommandHandler creates a handler for matcher passes.
// Requires a MatchUoWFactory for coordinating transactional updates across repositories.
func NewTryMatchCommandHandler(uowFactory MatchUoWFactory) TryMatchCommandHandler {
	return TryMatchCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes one matcher pass for the command's station.
// A pass with no eligible pair commits nothing and returns nil.
func (h TryMatchCommandHandler) Handle(ctx context.Context, command TryMatchCommand) error {
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

	if err = uow.LockStationDay(ctx, command.Station(), day); err != nil {
		return err
	}

	if _, err = matchStation(ctx, uow, command.Station(), day, now); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	return nil
}
