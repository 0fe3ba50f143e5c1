package ports

import (
	"context"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/shift"
)

// ShiftRepository defines the persistence contract for the shift read model.
// The roster system owns shift CRUD; rows here mirror its records.
type ShiftRepository interface {
	// Add persists a roster shift into the read model.
	Add(ctx context.Context, aggregate *shift.Shift) error

	// Get retrieves a shift by its roster identifier.
	Get(ctx context.Context, id kernel.UUID) (*shift.Shift, error)

	// GetActiveForDriver retrieves the driver's approved shift covering the
	// given instant.
	// Returns an ObjectNotFoundError when no such shift exists.
	GetActiveForDriver(ctx context.Context, driverID kernel.UUID, at time.Time) (*shift.Shift, error)
}
