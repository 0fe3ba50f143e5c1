package services

import (
	"errors"
	"sort"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
)

// ErrNoMatchablePair is returned when no waiting token can be paired with an
// approved demand. This is the matcher's clean no-op outcome: either side of
// the queue is empty, or no demand originates at the token's station.
var ErrNoMatchablePair = errors.New("no matchable pair")

// AllocationService is a domain service that pairs waiting tokens with
// approved demands at a station and opens the resulting trip offer.
//
// Business rules:
//   - Tokens are served strictly by ascending sequence number (FCFS)
//   - Demands are served by priority tier, then approval time, then id
//   - A demand is only paired with a token queued at its origin station
//   - Pairing mutates both aggregates and creates the trip in one workflow;
//     the caller owns the surrounding transaction
type AllocationService struct{}

// NewAllocationService creates a new AllocationService instance.
func NewAllocationService() AllocationService {
	return AllocationService{}
}

// SelectPair picks the next token and demand to pair from candidates queued
// at one station.
//
// Selection rules:
//   - Only Waiting tokens and matchable (Approved) demands are considered
//   - The token with the lowest sequence number wins
//   - Demands are ordered by priority tier ascending, then approvedAt
//     ascending, then id ascending; only demands originating at the chosen
//     token's station are eligible
//
// Returns ErrNoMatchablePair when no eligible pairing exists.
func (s AllocationService) SelectPair(
	tokens []*token.Token,
	demands []*demand.Demand,
) (*token.Token, *demand.Demand, error) {
	nextToken, err := s.selectToken(tokens)
	if err != nil {
		return nil, nil, err
	}

	nextDemand, err := s.selectDemand(demands, nextToken.Station())
	if err != nil {
		return nil, nil, err
	}

	return nextToken, nextDemand, nil
}

// Allocate pairs the token with the demand and opens the trip offer.
//
// The workflow is a triple mutation:
//   - token moves Waiting -> Allocated, referencing the new trip
//   - demand moves Approved -> Assigning, targeting the token's driver
//   - a trip is created at the first step in Offered status
//
// State checks live in the aggregates: a non-waiting token or a non-approved
// demand fails the pairing. The caller persists all three inside one
// transaction.
func (s AllocationService) Allocate(
	tkn *token.Token,
	dmd *demand.Demand,
	at time.Time,
) (*trip.Trip, error) {
	if err := tkn.Validate(); err != nil {
		return nil, err
	}

	if err := dmd.Validate(); err != nil {
		return nil, err
	}

	tripID := kernel.NewUUID()

	if err := tkn.Allocate(tripID, at); err != nil {
		return nil, err
	}

	if err := dmd.BeginAssignment(tkn.ID(), tkn.DriverID(), at); err != nil {
		return nil, err
	}

	return trip.NewTrip(
		tripID,
		dmd.ID(),
		tkn.ID(),
		tkn.DriverID(),
		tkn.VehicleID(),
		dmd.Origin(),
		dmd.Destination(),
		at,
	)
}

// selectToken returns the waiting token with the lowest sequence number.
func (s AllocationService) selectToken(tokens []*token.Token) (*token.Token, error) {
	waiting := make([]*token.Token, 0, len(tokens))
	for _, t := range tokens {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if t.Status() == token.Waiting {
			waiting = append(waiting, t)
		}
	}

	if len(waiting) == 0 {
		return nil, ErrNoMatchablePair
	}

	sort.Slice(waiting, func(i, j int) bool {
		return waiting[i].SequenceNumber() < waiting[j].SequenceNumber()
	})

	return waiting[0], nil
}

// selectDemand returns the most urgent matchable demand originating at the
// station.
func (s AllocationService) selectDemand(
	demands []*demand.Demand,
	origin kernel.StationCode,
) (*demand.Demand, error) {
	matchable := make([]*demand.Demand, 0, len(demands))
	for _, d := range demands {
		if err := d.Validate(); err != nil {
			return nil, err
		}
		if d.IsMatchable() && d.Origin().IsEqual(origin) {
			matchable = append(matchable, d)
		}
	}

	if len(matchable) == 0 {
		return nil, ErrNoMatchablePair
	}

	sort.Slice(matchable, func(i, j int) bool {
		left, right := matchable[i], matchable[j]
		if left.Priority() != right.Priority() {
			return left.Priority() < right.Priority()
		}
		if !left.ApprovedAt().Equal(*right.ApprovedAt()) {
			return left.ApprovedAt().Before(*right.ApprovedAt())
		}
		return left.ID().String() < right.ID().String()
	})

	return matchable[0], nil
}
