// Package ports defines repository interfaces for the gate transport domain.
// These interfaces establish contracts between the domain layer and infrastructure,
// enabling dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
)

// DemandRepository defines the persistence contract for demand aggregates.
// Provides methods for storing, retrieving, and querying demands by their
// matching state.
type DemandRepository interface {
	// Add persists a new demand aggregate to storage.
	// The demand must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *demand.Demand) error

	// Update persists changes to an existing demand aggregate.
	// The demand must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *demand.Demand) error

	// Get retrieves a demand aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*demand.Demand, error)

	// GetForUpdate retrieves a demand and locks its row for the duration of
	// the current transaction. Used before state-changing re-checks.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*demand.Demand, error)

	// GetAllMatchable retrieves the approved demands originating at the
	// station, ordered by priority tier, then approval time, then id. Rows
	// are locked for the current transaction; the matcher picks from them
	// under the station-day lock.
	GetAllMatchable(ctx context.Context, origin kernel.StationCode) ([]*demand.Demand, error)

	// GetAssigningStartedBefore retrieves demands stuck in Assigning whose
	// assignment began before the cutoff. Used by the sweeper to find
	// drivers who never accepted their offer.
	GetAssigningStartedBefore(ctx context.Context, cutoff time.Time) ([]*demand.Demand, error)
}
