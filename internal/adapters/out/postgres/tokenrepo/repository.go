package tokenrepo

import (
	"context"
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// GormTokenRepository implements TokenRepository using GORM.
type GormTokenRepository struct {
	db *gorm.DB
}

// NewGormTokenRepository creates a new GORM token repository.
func NewGormTokenRepository(db *gorm.DB) *GormTokenRepository {
	return &GormTokenRepository{db: db}
}

// Add saves a new token to the database.
// A concurrent insert that trips the active-per-driver-per-day unique index
// surfaces as a state conflict rather than a raw driver error.
func (r *GormTokenRepository) Add(ctx context.Context, aggregate *token.Token) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if isUniqueViolation(err) {
			return errs.NewStateConflictErrorWithCause(
				"token", "no active token for driver on service day", "active token exists", err)
		}
		return err
	}

	return nil
}

// Update saves an existing token to the database.
// Save writes every column, so fields cleared in the domain become NULL.
func (r *GormTokenRepository) Update(ctx context.Context, aggregate *token.Token) error {
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

// Get retrieves a token by ID.
func (r *GormTokenRepository) Get(ctx context.Context, id kernel.UUID) (*token.Token, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TokenDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("token", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetForUpdate retrieves a token by ID and locks its row until the current
// transaction ends.
func (r *GormTokenRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*token.Token, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TokenDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("token", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetActiveByDriverAndDay retrieves the driver's Waiting or Allocated token
// for the service day, regardless of station.
func (r *GormTokenRepository) GetActiveByDriverAndDay(
	ctx context.Context,
	driverID kernel.UUID,
	day kernel.ServiceDay,
) (*token.Token, error) {
	if err := driverID.Validate(); err != nil {
		return nil, err
	}

	var dto TokenDTO
	err := r.db.WithContext(ctx).
		Where("driver_id = ? AND service_day = ? AND status IN ?",
			driverID.Bytes(), day.Time(), activeStatuses()).
		First(&dto).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("token", "active for driver "+driverID.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetAllWaiting retrieves the waiting tokens queued at the station for the
// service day, sequence ascending, locking their rows.
func (r *GormTokenRepository) GetAllWaiting(
	ctx context.Context,
	station kernel.StationCode,
	day kernel.ServiceDay,
) ([]*token.Token, error) {
	if err := station.Validate(); err != nil {
		return nil, err
	}

	var dtos []TokenDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("station = ? AND service_day = ? AND status = ?",
			station.String(), day.Time(), int(token.Waiting)).
		Order("sequence_number ASC").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// CountForStationDay returns how many tokens were ever issued at the station
// on the service day, expired ones included.
func (r *GormTokenRepository) CountForStationDay(
	ctx context.Context,
	station kernel.StationCode,
	day kernel.ServiceDay,
) (int, error) {
	if err := station.Validate(); err != nil {
		return 0, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&TokenDTO{}).
		Where("station = ? AND service_day = ?", station.String(), day.Time()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}

	return int(count), nil
}

// GetAllocatedWithCompletedTrip retrieves allocated tokens whose trip has
// reached the final step. Rows are locked so the sweeper can retire them.
func (r *GormTokenRepository) GetAllocatedWithCompletedTrip(ctx context.Context) ([]*token.Token, error) {
	var dtos []TokenDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "tokens"}}).
		Table("tokens").
		Select("tokens.*").
		Joins("JOIN trips ON trips.token_id = tokens.id AND trips.status = ?", int(trip.Completed)).
		Where("tokens.status = ?", int(token.Allocated)).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

// GetWaitingWithEndedShift retrieves waiting tokens whose issuing shift ended
// at or before the given instant. Rows are locked so the sweeper can retire
// them.
func (r *GormTokenRepository) GetWaitingWithEndedShift(ctx context.Context, now time.Time) ([]*token.Token, error) {
	var dtos []TokenDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "tokens"}}).
		Table("tokens").
		Select("tokens.*").
		Joins("JOIN shifts ON shifts.id = tokens.shift_id").
		Where("tokens.status = ? AND shifts.ends_at <= ?", int(token.Waiting), now).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}

	return toDomainSlice(dtos)
}

func toDomainSlice(dtos []TokenDTO) ([]*token.Token, error) {
	tokens := make([]*token.Token, 0, len(dtos))
	for _, dto := range dtos {
		t, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, nil
}

func activeStatuses() []int {
	return []int{int(token.Waiting), int(token.Allocated)}
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation
}
