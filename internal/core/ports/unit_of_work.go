package ports

import (
	"context"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control, advisory locking and tracks aggregate
// changes. Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// LockStationDay serializes token issuance for one station and service
	// day. The lock is transaction-scoped and released on commit/rollback.
	// Sequence numbers are computed under this lock.
	LockStationDay(ctx context.Context, station kernel.StationCode, day kernel.ServiceDay) error

	// LockDriverDay serializes token issuance for one driver and service
	// day, so concurrent requests cannot slip past the one-active-token
	// check. Taken before LockStationDay to keep lock order fixed.
	LockDriverDay(ctx context.Context, driverID kernel.UUID, day kernel.ServiceDay) error

	// LockStationBays serializes bay admission at one station. Open transfer
	// counts are only trustworthy under this lock.
	LockStationBays(ctx context.Context, station kernel.StationCode) error

	// TokenRepository returns a TokenRepository bound to the current transaction.
	TokenRepository() TokenRepository

	// DemandRepository returns a DemandRepository bound to the current transaction.
	DemandRepository() DemandRepository

	// TripRepository returns a TripRepository bound to the current transaction.
	TripRepository() TripRepository

	// TransferRepository returns a TransferRepository bound to the current transaction.
	TransferRepository() TransferRepository

	// ShiftRepository returns a ShiftRepository bound to the current transaction.
	ShiftRepository() ShiftRepository

	// OutboxRepository returns an OutboxRepository bound to the current transaction.
	OutboxRepository() OutboxRepository
}
