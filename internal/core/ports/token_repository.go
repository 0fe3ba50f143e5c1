package ports

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
)

// TokenRepository defines the persistence contract for token aggregates.
// Provides methods for storing, retrieving, and querying tokens by their
// queue position and lifecycle state.
type TokenRepository interface {
	// Add persists a new token aggregate to storage.
	// The token must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *token.Token) error

	// Update persists changes to an existing token aggregate.
	// The token must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *token.Token) error

	// Get retrieves a token aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*token.Token, error)

	// GetForUpdate retrieves a token and locks its row for the duration of
	// the current transaction. Used before state-changing re-checks.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*token.Token, error)

	// GetActiveByDriverAndDay retrieves the driver's Waiting or Allocated
	// token for the service day, regardless of station. Backs the issuer's
	// idempotency rule of one active token per driver per day.
	// Returns an ObjectNotFoundError when the driver holds no active token.
	GetActiveByDriverAndDay(ctx context.Context, driverID kernel.UUID, day kernel.ServiceDay) (*token.Token, error)

	// GetAllWaiting retrieves the waiting tokens queued at the station for
	// the service day, sequence ascending. Rows are locked for the current
	// transaction; the matcher picks from them under the station-day lock.
	GetAllWaiting(ctx context.Context, station kernel.StationCode, day kernel.ServiceDay) ([]*token.Token, error)

	// CountForStationDay returns how many tokens have ever been issued at
	// the station on the service day, including expired ones. The next
	// sequence number is this count plus one; callers must hold the
	// station-day lock so the count cannot move under them.
	CountForStationDay(ctx context.Context, station kernel.StationCode, day kernel.ServiceDay) (int, error)

	// GetAllocatedWithCompletedTrip retrieves allocated tokens whose trip
	// has reached the final step. Used by the sweeper to retire them.
	GetAllocatedWithCompletedTrip(ctx context.Context) ([]*token.Token, error)

	// GetWaitingWithEndedShift retrieves waiting tokens whose issuing shift
	// ended at or before the given instant. Used by the sweeper.
	GetWaitingWithEndedShift(ctx context.Context, now time.Time) ([]*token.Token, error)
}
