// Package postgres provides GORM-based implementation of the Unit of Work pattern.
// The Unit of Work pattern maintains the boundary of a business transaction and
// coordinates writing out changes and resolving concurrency problems.
//
// Key Features:
//   - Transaction management across multiple repositories
//   - Transaction-scoped Postgres advisory locks for queue and bay serialization
//   - Proper isolation between concurrent operations
//   - Repository factory pattern for consistent database connections
//
// Usage Patterns:
//
// Basic Transaction Management:
//
//	factory := NewGormUnitOfWorkFactory(db)
//	uow := factory.Create()
//
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.TokenRepository().Add(ctx, token); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Serialized Sections:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//
//	// Nobody else issues at this station-day until commit/rollback.
//	if err := uow.LockStationDay(ctx, station, day); err != nil {
//	    uow.Rollback(ctx)
//	    return err
//	}
//
//	count, err := uow.TokenRepository().CountForStationDay(ctx, station, day)
//	// ... compose token number from count+1, insert, commit
//
// Error Handling Best Practices:
//   - Always handle Begin() errors
//   - Explicit rollback on business logic errors
//   - Check commit errors for transaction conflicts
//
// Concurrency Considerations:
//   - Each UnitOfWork instance provides isolated transactions
//   - Multiple goroutines should use separate UnitOfWork instances
//   - Advisory locks are transaction-scoped and release automatically
package postgres

import (
	"context"
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/demandrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/outboxrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/shiftrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/tokenrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/transferrepo"
	"github.com/npcoderes/GTS-sub002/internal/adapters/out/postgres/triprepo"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/ports"

	"gorm.io/gorm"
)

// Advisory lock key spaces. The first argument of pg_advisory_xact_lock
// partitions the key space so a station-day lock can never collide with a
// bay lock for the same station.
const (
	lockScopeStationDay = 1
	lockScopeDriverDay  = 2
	lockScopeStationBay = 3
)

// GormUnitOfWorkFactory creates UnitOfWork instances using GORM database connections.
// Factory ensures each business operation gets a fresh unit of work instance
// with proper isolation from other concurrent operations.
type GormUnitOfWorkFactory struct {
	db *gorm.DB
}

// NewGormUnitOfWorkFactory creates a factory for GORM-based unit of work instances.
// The provided database connection will be used for all created unit of work instances.
func NewGormUnitOfWorkFactory(db *gorm.DB) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{db: db}
}

// Create produces a new UnitOfWork instance ready for business transaction management.
// Each instance maintains its own transaction state, ensuring proper isolation
// between concurrent operations.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{db: f.db}
}

// GormUnitOfWork coordinates database transactions for business operations.
// Implements the Unit of Work pattern using GORM's transaction capabilities
// to ensure data consistency and proper rollback handling.
//
// On top of plain transactions it exposes the advisory locks the issuing and
// transfer workflows serialize on. Locks are taken with pg_advisory_xact_lock,
// so they live exactly as long as the transaction and cannot leak.
type GormUnitOfWork struct {
	db *gorm.DB
	tx *gorm.DB
}

// Begin initiates a new database transaction for the unit of work.
// Subsequent repository operations will execute within this transaction context.
// Multiple calls to Begin on the same instance are safe and will not create nested transactions.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		return uow.tx.Error
	}

	return nil
}

// Commit finalizes all changes made within the current transaction.
// After commit, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the commit operation fails.
func (uow *GormUnitOfWork) Commit(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	return err
}

// Rollback discards all changes made within the current transaction.
// Database returns to its state before the transaction began.
// After rollback, the transaction is closed and cannot be reused.
//
// Returns error if no active transaction exists or if the rollback operation fails.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	return err
}

// LockStationDay serializes token issuance for one station and service day.
// Sequence numbers are computed as count+1, which is only safe while this
// lock is held.
func (uow *GormUnitOfWork) LockStationDay(ctx context.Context, station kernel.StationCode, day kernel.ServiceDay) error {
	return uow.advisoryLock(ctx, lockScopeStationDay, fmt.Sprintf("%s|%s", station, day))
}

// LockDriverDay serializes token issuance for one driver and service day,
// closing the window between the one-active-token check and the insert.
// Issuance takes this lock before LockStationDay to keep lock order fixed.
func (uow *GormUnitOfWork) LockDriverDay(ctx context.Context, driverID kernel.UUID, day kernel.ServiceDay) error {
	return uow.advisoryLock(ctx, lockScopeDriverDay, fmt.Sprintf("%s|%s", driverID, day))
}

// LockStationBays serializes bay admission at one station. Open transfer
// counts are only trustworthy while this lock is held.
func (uow *GormUnitOfWork) LockStationBays(ctx context.Context, station kernel.StationCode) error {
	return uow.advisoryLock(ctx, lockScopeStationBay, station.String())
}

// advisoryLock blocks until the transaction-scoped lock is granted. The key
// string is reduced to a 32-bit key with Postgres' hashtext, paired with the
// scope to partition key spaces.
func (uow *GormUnitOfWork) advisoryLock(ctx context.Context, scope int32, key string) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	return uow.tx.WithContext(ctx).
		Exec("SELECT pg_advisory_xact_lock(?, hashtext(?))", scope, key).Error
}

// TokenRepository provides access to token persistence operations within the unit of work.
// Repository operations will execute within the current transaction if one is active,
// otherwise they use the main database connection for immediate execution.
func (uow *GormUnitOfWork) TokenRepository() ports.TokenRepository {
	return tokenrepo.NewGormTokenRepository(uow.conn())
}

// DemandRepository provides access to demand persistence operations within the unit of work.
func (uow *GormUnitOfWork) DemandRepository() ports.DemandRepository {
	return demandrepo.NewGormDemandRepository(uow.conn())
}

// TripRepository provides access to trip persistence operations within the unit of work.
func (uow *GormUnitOfWork) TripRepository() ports.TripRepository {
	return triprepo.NewGormTripRepository(uow.conn())
}

// TransferRepository provides access to transfer record persistence within the unit of work.
func (uow *GormUnitOfWork) TransferRepository() ports.TransferRepository {
	return transferrepo.NewGormTransferRepository(uow.conn())
}

// ShiftRepository provides access to the shift read model within the unit of work.
func (uow *GormUnitOfWork) ShiftRepository() ports.ShiftRepository {
	return shiftrepo.NewGormShiftRepository(uow.conn())
}

// OutboxRepository provides access to the notification outbox within the unit of work.
func (uow *GormUnitOfWork) OutboxRepository() ports.OutboxRepository {
	return outboxrepo.NewGormOutboxRepository(uow.conn())
}

func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}
