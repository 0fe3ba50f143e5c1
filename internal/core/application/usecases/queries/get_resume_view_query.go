package queries

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrGetResumeViewQueryIsNotConstructed = errors.New(
		"GetResumeViewQuery must be created via NewGetResumeViewQuery constructor",
	)
)

// GetResumeViewQuery rebuilds a driver's workflow position after an app
// restart or a lost connection. Everything in the response comes from
// persisted state, so the view is valid immediately after a server restart
// too; no session memory is involved.
//
// Example:
//
//	query, err := NewGetResumeViewQuery(driverID)
//	if err != nil {
//	    return fmt.Errorf("invalid resume request: %w", err)
//	}
//
//	handler := NewGetResumeViewQueryHandler(db, logger)
//	view, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to resume: %w", err)
//	}
//	fmt.Printf("Trip %s is at step %s\n", view.TripID, view.Step)
type GetResumeViewQuery struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetResumeViewQuery creates a query for a driver's resume view.
// Validates that the driver identifier is valid.
func NewGetResumeViewQuery(driverID kernel.UUID) (GetResumeViewQuery, error) {
	resumeQuery := GetResumeViewQuery{
		guard: guard.NewConstructorGuard(),
	}

	if err := resumeQuery.setDriverID(driverID); err != nil {
		return GetResumeViewQuery{}, err
	}

	return resumeQuery, nil
}

// Validate ensures the query was created through the constructor.
// Returns ErrGetResumeViewQueryIsNotConstructed if validation fails.
func (q GetResumeViewQuery) Validate() error {
	return q.guard.Validate(ErrGetResumeViewQueryIsNotConstructed)
}

// DriverID returns the driver whose trip is resumed.
func (q GetResumeViewQuery) DriverID() kernel.UUID {
	return q.driverID
}

func (q *GetResumeViewQuery) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	q.driverID = driverID
	return nil
}

// GetResumeViewQueryResponse carries everything a reconnecting client needs
// to redraw its workflow screen. Step is the reconciled position: the stored
// counter checked against what the persisted facts support, never lower than
// either.
type GetResumeViewQueryResponse struct {
	TripID      kernel.UUID
	Origin      kernel.StationCode
	Destination kernel.StationCode
	Status      trip.Status
	Step        trip.Step
	Snapshot    trip.Snapshot
	// OpenTransfer is set only while the trip is parked mid-transfer,
	// waiting for the point's confirmation.
	OpenTransfer *OpenTransferView
}

// OpenTransferView reports the partial progress of the transfer record the
// trip is currently working: which readings are already captured, what
// evidence is attached and that confirmation is still owed.
type OpenTransferView struct {
	Point                transfer.Point
	Station              kernel.StationCode
	PreReading           *string
	PostReading          *string
	PhotoRefs            []string
	AwaitingConfirmation bool
}
