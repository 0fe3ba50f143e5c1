package transferrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTransferRepository implements TransferRepository using GORM.
type GormTransferRepository struct {
	db *gorm.DB
}

// NewGormTransferRepository creates a new GORM transfer record repository.
func NewGormTransferRepository(db *gorm.DB) *GormTransferRepository {
	return &GormTransferRepository{db: db}
}

// Add saves a new transfer record to the database.
func (r *GormTransferRepository) Add(ctx context.Context, record *transfer.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	return nil
}

// Update saves an existing transfer record to the database.
func (r *GormTransferRepository) Update(ctx context.Context, record *transfer.TransferRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	result := r.db.WithContext(ctx).Save(&dto)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

// GetByTripAndPoint retrieves the trip's record for one end of the route and
// locks its row until the current transaction ends.
func (r *GormTransferRepository) GetByTripAndPoint(
	ctx context.Context,
	tripID kernel.UUID,
	point transfer.Point,
) (*transfer.TransferRecord, error) {
	if err := errors.Join(tripID.Validate(), point.Validate()); err != nil {
		return nil, err
	}

	var dto TransferRecordDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("trip_id = ? AND point = ?", tripID.Bytes(), point.String()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transferRecord",
				fmt.Sprintf("%s at %s", tripID, point))
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetByTrip retrieves all transfer records of a trip, origin first.
func (r *GormTransferRepository) GetByTrip(ctx context.Context, tripID kernel.UUID) ([]*transfer.TransferRecord, error) {
	if err := tripID.Validate(); err != nil {
		return nil, err
	}

	var dtos []TransferRecordDTO
	err := r.db.WithContext(ctx).
		Where("trip_id = ?", tripID.Bytes()).
		Order("opened_at ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	records := make([]*transfer.TransferRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// CountOpenAtStation returns how many unconfirmed records currently hold a
// bay at the station.
func (r *GormTransferRepository) CountOpenAtStation(ctx context.Context, station kernel.StationCode) (int, error) {
	if err := station.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&TransferRecordDTO{}).
		Where("station = ? AND confirmed_at IS NULL", station.String()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}
