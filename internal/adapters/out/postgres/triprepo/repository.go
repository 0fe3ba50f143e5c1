package triprepo

import (
	"context"
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTripRepository implements TripRepository using GORM.
type GormTripRepository struct {
	db *gorm.DB
}

// NewGormTripRepository creates a new GORM trip repository.
func NewGormTripRepository(db *gorm.DB) *GormTripRepository {
	return &GormTripRepository{db: db}
}

// Add saves a new trip to the database.
func (r *GormTripRepository) Add(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update saves an existing trip to the database.
func (r *GormTripRepository) Update(ctx context.Context, aggregate *trip.Trip) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto, err := fromDomain(aggregate)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves a trip by ID.
func (r *GormTripRepository) Get(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TripDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trip", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate retrieves a trip by ID and locks its row until the current
// transaction ends.
func (r *GormTripRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*trip.Trip, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TripDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trip", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriver retrieves the driver's Offered or InProgress trip.
func (r *GormTripRepository) GetActiveByDriver(ctx context.Context, driverID kernel.UUID) (*trip.Trip, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto TripDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), activeStatuses()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("trip", "active for driver "+driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// HasActiveForDriver reports whether the driver is on an Offered or
// InProgress trip.
func (r *GormTripRepository) HasActiveForDriver(ctx context.Context, driverID kernel.UUID) (bool, error) {
	if err := driverID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&TripDTO{}).
		Where("driver_id = ? AND status IN ?", driverID.Bytes(), activeStatuses()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// HasActiveForVehicle reports whether the vehicle is on an Offered or
// InProgress trip.
func (r *GormTripRepository) HasActiveForVehicle(ctx context.Context, vehicleID kernel.UUID) (bool, error) {
	if err := vehicleID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&TripDTO{}).
		Where("vehicle_id = ? AND status IN ?", vehicleID.Bytes(), activeStatuses()).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func activeStatuses() []int {
	return []int{int(trip.Offered), int(trip.InProgress)}
}
