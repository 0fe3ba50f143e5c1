// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, locking, transaction
// management, and persistence.
package commands

import (
	"context"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
// Each handler depends on the narrowest composition it needs.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// QueueLocker serializes queue mutations with transaction-scoped
	// advisory locks. Sequence assignment and match selection are only
	// correct under the station-day lock; the one-active-token check is
	// only correct under the driver-day lock.
	QueueLocker interface {
		LockStationDay(ctx context.Context, station kernel.StationCode, day kernel.ServiceDay) error
		LockDriverDay(ctx context.Context, driverID kernel.UUID, day kernel.ServiceDay) error
	}

	// BayLocker serializes transfer-bay admission at one station.
	// Open-record counts may only gate admission while this lock is held.
	BayLocker interface {
		LockStationBays(ctx context.Context, station kernel.StationCode) error
	}

	// TokenRepoFactory provides access to the token repository within a transaction.
	TokenRepoFactory interface {
		TokenRepository() ports.TokenRepository
	}

	// DemandRepoFactory provides access to the demand repository within a transaction.
	DemandRepoFactory interface {
		DemandRepository() ports.DemandRepository
	}

	// TripRepoFactory provides access to the trip repository within a transaction.
	TripRepoFactory interface {
		TripRepository() ports.TripRepository
	}

	// TransferRepoFactory provides access to the transfer repository within a transaction.
	TransferRepoFactory interface {
		TransferRepository() ports.TransferRepository
	}

	// ShiftRepoFactory provides access to the shift read model within a transaction.
	ShiftRepoFactory interface {
		ShiftRepository() ports.ShiftRepository
	}

	// OutboxRepoFactory provides access to the notification outbox within a
	// transaction. Events appended here commit or roll back together with
	// the state change that produced them.
	OutboxRepoFactory interface {
		OutboxRepository() ports.OutboxRepository
	}

	// DemandUoW manages transactions for demand intake operations.
	// Used when commands only move a demand between pool states.
	DemandUoW interface {
		TxManager
		DemandRepoFactory
	}

	// DemandUoWFactory creates new demand unit of work instances.
	DemandUoWFactory interface {
		Create() DemandUoW
	}

	// MatchUoW manages transactions for matcher operations. Pairing mutates
	// a token and a demand, creates the trip offer and appends the outbox
	// event, all inside one transaction under the station-day lock.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   if err := uow.LockStationDay(ctx, station, day); err != nil { ... }
	//   tokens, err := uow.TokenRepository().GetAllWaiting(ctx, station, day)
	//   // ... select, allocate, persist
	//
	//   err = uow.Commit(ctx)
	MatchUoW interface {
		TxManager
		QueueLocker
		TokenRepoFactory
		DemandRepoFactory
		TripRepoFactory
		OutboxRepoFactory
	}

	// MatchUoWFactory creates new matcher unit of work instances.
	MatchUoWFactory interface {
		Create() MatchUoW
	}

	// IssueUoW adds the shift read model to the matcher's scope. Issuance
	// checks shift and trip preconditions, inserts the token and runs one
	// match inline, so the caller observes the final queue outcome.
	IssueUoW interface {
		MatchUoW
		ShiftRepoFactory
	}

	// IssueUoWFactory creates new issuance unit of work instances.
	IssueUoWFactory interface {
		Create() IssueUoW
	}

	// TripUoW manages transactions for trip step advancement: trip and
	// transfer record mutations plus the outbox event, with bay admission
	// serialized by the station bay lock.
	TripUoW interface {
		TxManager
		BayLocker
		TripRepoFactory
		TransferRepoFactory
		OutboxRepoFactory
	}

	// TripUoWFactory creates new trip unit of work instances.
	TripUoWFactory interface {
		Create() TripUoW
	}

	// ReclaimUoW manages transactions for compensating reclaims. The sweeper
	// and token cancellation revert demand, token and trip together; a
	// half-applied reclaim is a correctness bug, so all three ride one
	// transaction.
	ReclaimUoW interface {
		TxManager
		TokenRepoFactory
		DemandRepoFactory
		TripRepoFactory
		OutboxRepoFactory
	}

	// ReclaimUoWFactory creates new reclaim unit of work instances.
	ReclaimUoWFactory interface {
		Create() ReclaimUoW
	}
)
