package demandrepo

import (
	"context"
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormDemandRepository implements DemandRepository using GORM.
type GormDemandRepository struct {
	db *gorm.DB
}

// NewGormDemandRepository creates a new GORM demand repository.
func NewGormDemandRepository(db *gorm.DB) *GormDemandRepository {
	return &GormDemandRepository{db: db}
}

// Add saves a new demand to the database.
func (r *GormDemandRepository) Add(ctx context.Context, aggregate *demand.Demand) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update saves an existing demand to the database.
// Save writes every column, so a revert that clears the assignment fields
// actually NULLs them instead of being skipped as zero values.
func (r *GormDemandRepository) Update(ctx context.Context, aggregate *demand.Demand) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// Get retrieves a demand by ID.
func (r *GormDemandRepository) Get(ctx context.Context, id kernel.UUID) (*demand.Demand, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DemandDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("demand", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate retrieves a demand by ID and locks its row until the current
// transaction ends.
func (r *GormDemandRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*demand.Demand, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DemandDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("demand", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllMatchable retrieves the approved demands originating at the station,
// locking their rows. The ordering mirrors the matching contract: priority
// tier first, earliest approval within a tier, id as the final tie-break.
func (r *GormDemandRepository) GetAllMatchable(
	ctx context.Context,
	origin kernel.StationCode,
) ([]*demand.Demand, error) {
	if err := origin.Validate(); err != nil {
		return nil, err
	}

	var dtos []DemandDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("origin = ? AND status = ?", origin.String(), int(demand.Approved)).
		Order("priority ASC, approved_at ASC, id ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	demands := make([]*demand.Demand, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		demands = append(demands, d)
	}

	return demands, nil
}

// GetAssigningStartedBefore retrieves demands stuck in Assigning whose
// assignment began before the cutoff. Rows are locked so the sweeper can
// revert them.
func (r *GormDemandRepository) GetAssigningStartedBefore(
	ctx context.Context,
	cutoff time.Time,
) ([]*demand.Demand, error) {
	var dtos []DemandDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("status = ? AND assignment_started_at < ?", int(demand.Assigning), cutoff).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	demands := make([]*demand.Demand, 0, len(dtos))
	for _, dto := range dtos {
		d, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		demands = append(demands, d)
	}

	return demands, nil
}
