package queries

import (
	"context"
	"database/sql"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCurrentTokenQueryHandler resolves a driver's active token straight from
// the database, bypassing the aggregate layer. The read serves the driver's
// queue screen, so it must stay cheap and lock-free.
//
// Example:
//
//	handler := NewGetCurrentTokenQueryHandler(db)
//	query, _ := NewGetCurrentTokenQuery(driverID)
//
//	position, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    fmt.Println("Driver is not queued today")
//	    return nil
//	}
type GetCurrentTokenQueryHandler struct {
	db *gorm.DB
}

// NewGetCurrentTokenQueryHandler creates a handler for current token lookups.
// Requires a GORM database connection for query execution.
func NewGetCurrentTokenQueryHandler(db *gorm.DB) GetCurrentTokenQueryHandler {
	return GetCurrentTokenQueryHandler{db: db}
}

// Handle executes the lookup for the current service day.
// Returns ObjectNotFound when the driver holds no Waiting or Allocated token
// today; expired tokens never surface here.
func (h GetCurrentTokenQueryHandler) Handle(
	ctx context.Context,
	query GetCurrentTokenQuery,
) (*GetCurrentTokenQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	day, err := kernel.NewServiceDay(time.Now().UTC())
	if err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			token_no,
			status,
			issued_at,
			allocated_at,
			trip_id
		FROM tokens
		WHERE driver_id = ? AND service_day = ? AND status IN (?, ?)
		LIMIT 1
	`, query.DriverID().Bytes(), day.Time(), int(token.Waiting), int(token.Allocated)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("token", "active for driver "+query.DriverID().String())
	}

	var (
		id          uuid.UUID
		tokenNo     string
		status      int
		issuedAt    time.Time
		allocatedAt sql.NullTime
		tripID      uuid.NullUUID
	)
	if err = rows.Scan(&id, &tokenNo, &status, &issuedAt, &allocatedAt, &tripID); err != nil {
		return nil, err
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	tokenID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}

	parsedNo, err := kernel.ParseTokenNo(tokenNo)
	if err != nil {
		return nil, err
	}

	response := GetCurrentTokenQueryResponse{
		ID:       tokenID,
		TokenNo:  parsedNo,
		Status:   token.Status(status),
		IssuedAt: issuedAt,
	}
	if allocatedAt.Valid {
		at := allocatedAt.Time
		response.AllocatedAt = &at
	}
	if tripID.Valid {
		linked, idErr := kernel.UUIDFromBytes(tripID.UUID[:])
		if idErr != nil {
			return nil, idErr
		}
		response.TripID = &linked
	}

	return &response, nil
}
