package queries

import (
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrGetCurrentTokenQueryIsNotConstructed = errors.New(
		"GetCurrentTokenQuery must be created via NewGetCurrentTokenQuery constructor",
	)
)

// GetCurrentTokenQuery retrieves the driver's active queue token for the
// current service day. A driver holds at most one Waiting or Allocated token
// per day, so the result is a single position, not a list.
//
// Example:
//
//	query, err := NewGetCurrentTokenQuery(driverID)
//	if err != nil {
//	    return fmt.Errorf("invalid token lookup: %w", err)
//	}
//
//	handler := NewGetCurrentTokenQueryHandler(db)
//	position, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to get current token: %w", err)
//	}
//	fmt.Printf("Queued as %s (#%d)\n", position.TokenNo, position.TokenNo.Sequence())
type GetCurrentTokenQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCurrentTokenQuery creates a query for a driver's active token.
// Validates that the driver identifier is valid.
func NewGetCurrentTokenQuery(driverID kernel.UUID) (GetCurrentTokenQuery, error) {
	tokenQuery := GetCurrentTokenQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := tokenQuery.setDriverID(driverID); err != nil {
		return GetCurrentTokenQuery{}, err
	}

	return tokenQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetCurrentTokenQueryIsNotConstructed if validation fails.
func (q GetCurrentTokenQuery) Validate() error {
	return q.guard.Validate(ErrGetCurrentTokenQueryIsNotConstructed)
}

// DriverID returns the driver whose token is looked up.
func (q GetCurrentTokenQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q *GetCurrentTokenQuery) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	q.driverID = driverID
	return nil
}

// GetCurrentTokenQueryResponse represents the driver's current queue position.
// TripID is set only while the token is Allocated to a trip offer.
type GetCurrentTokenQueryResponse struct {
	ID          kernel.UUID
	TokenNo     kernel.TokenNo
	Status      token.Status
	IssuedAt    time.Time
	AllocatedAt *time.Time
	TripID      *kernel.UUID
}
