package commands

import (
	"context"
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/services"
)

// matchStation runs one matcher pass for a station inside the caller's
// transaction. The caller must already hold the station-day advisory lock;
// candidate rows are locked by the repositories, the pure pairing decision
// lives in services.AllocationService.
//
// On a successful pairing the token, demand, new trip and the outbox event
// are all written through the unit of work; nothing is committed here.
// Returns nil without error when no eligible pair exists.
func matchStation(
	ctx context.Context,
	uow MatchUoW,
	station kernel.StationCode,
	day kernel.ServiceDay,
	at time.Time,
) (*token.Token, error) {
	tokens, err := uow.TokenRepository().GetAllWaiting(ctx, station, day)
	if err != nil {
		return nil, err
	}

	demands, err := uow.DemandRepository().GetAllMatchable(ctx, station)
	if err != nil {
		return nil, err
	}

	allocator := services.NewAllocationService()

	pairedToken, pairedDemand, err := allocator.SelectPair(tokens, demands)
	if errors.Is(err, services.ErrNoMatchablePair) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	newTrip, err := allocator.Allocate(pairedToken, pairedDemand, at)
	if err != nil {
		return nil, err
	}

	if err = uow.TokenRepository().Update(ctx, pairedToken); err != nil {
		return nil, err
	}

	if err = uow.DemandRepository().Update(ctx, pairedDemand); err != nil {
		return nil, err
	}

	if err = uow.TripRepository().Add(ctx, newTrip); err != nil {
		return nil, err
	}

	event := TokenAllocatedEvent{
		TokenID:     pairedToken.ID().String(),
		TokenNo:     pairedToken.TokenNo().String(),
		DriverID:    pairedToken.DriverID().String(),
		VehicleID:   pairedToken.VehicleID().String(),
		DemandID:    pairedDemand.ID().String(),
		TripID:      newTrip.ID().String(),
		Station:     station.String(),
		AllocatedAt: at,
	}

	if err = uow.OutboxRepository().Add(ctx, EventTokenAllocated, event); err != nil {
		return nil, err
	}

	return pairedToken, nil
}
