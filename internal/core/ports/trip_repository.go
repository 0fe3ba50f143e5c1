package ports

import (
	"context"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
)

// TripRepository defines the persistence contract for trip aggregates.
type TripRepository interface {
	// Add persists a new trip aggregate to storage.
	// The trip must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *trip.Trip) error

	// Update persists changes to an existing trip aggregate.
	// The trip must exist in the repository and be valid.
	Update(ctx context.Context, aggregate *trip.Trip) error

	// Get retrieves a trip aggregate by its unique identifier.
	Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error)

	// GetForUpdate retrieves a trip and locks its row for the duration of
	// the current transaction. Used before state-changing re-checks.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*trip.Trip, error)

	// GetActiveByDriver retrieves the driver's Offered or InProgress trip.
	// A driver executes at most one trip at a time.
	// Returns an ObjectNotFoundError when the driver has no active trip.
	GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*trip.Trip, error)

	// HasActiveForDriver reports whether the driver is on an Offered or
	// InProgress trip. Backs the issuer's resource-busy precondition.
	HasActiveForDriver(ctx context.Context, driverID kernel.UUID) (bool, error)

	// HasActiveForVehicle reports whether the vehicle is on an Offered or
	// InProgress trip. Backs the issuer's resource-busy precondition.
	HasActiveForVehicle(ctx context.Context, vehicleID kernel.UUID) (bool, error)
}
