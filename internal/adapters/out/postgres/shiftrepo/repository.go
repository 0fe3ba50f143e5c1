package shiftrepo

import (
	"context"
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/shift"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormShiftRepository implements ShiftRepository using GORM.
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GORM shift repository.
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

// Add persists a roster shift into the read model.
func (r *GormShiftRepository) Add(ctx context.Context, aggregate *shift.Shift) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Get retrieves a shift by its roster identifier.
func (r *GormShiftRepository) Get(ctx context.Context, id kernel.UUID) (*shift.Shift, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ShiftDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shift", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveForDriver retrieves the driver's approved shift covering the given
// instant.
func (r *GormShiftRepository) GetActiveForDriver(
	ctx context.Context,
	driverID kernel.UUID,
	at time.Time,
) (*shift.Shift, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto ShiftDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND approved = ? AND starts_at <= ? AND ends_at > ?",
			driverID.Bytes(), true, at, at).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("shift", "active for driver "+driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}
