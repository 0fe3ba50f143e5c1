package commands

import (
	"context"
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

var (
	// ErrNoActiveShift is returned when the driver has no approved shift
	// covering the issuance instant.
	ErrNoActiveShift = errors.New("no active approved shift covers the driver")

	// ErrResourceBusy is returned when the driver or the vehicle is already
	// executing a trip.
	ErrResourceBusy = errors.New("driver or vehicle is already on an active trip")
)

// IssueTokenCommandHandler orchestrates queue token issuance.
// Checks shift and trip preconditions, assigns the next sequence number for
// the station day and runs one matcher pass, all inside a single transaction
// so the caller observes the final Waiting-vs-Allocated outcome.
//
// Example:
//
//	handler := NewIssueTokenCommandHandler(uowFactory)
//	cmd, _ := NewIssueTokenCommand(driverID, vehicleID, station)
//
//	issued, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, ErrNoActiveShift):
//	    log.Println("Driver is not on shift")
//	case errors.Is(err, ErrResourceBusy):
//	    log.Println("Driver or vehicle is mid-trip")
//	case err != nil:
//	    log.Printf("Issuance failed: %v", err)
//	default:
//	    log.Printf("Queued as %s", issued.TokenNo())
//	}
type IssueTokenCommandHandler struct {
	uowFactory IssueUoWFactory
}

// NewIssueTokenCommandHandler creates a handler for token issuance operations.
// Requires an IssueUoWFactory for coordinating transactional updates across repositories.
func NewIssueTokenCommandHandler(uowFactory IssueUoWFactory) IssueTokenCommandHandler {
	return IssueTokenCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the token issuance command and returns the driver's token.
//
// Advisory locks are taken in fixed order, driver-day before station-day, so
// concurrent issuance cannot deadlock. Under the driver-day lock an existing
// active token short-circuits the command (idempotency). Under the
// station-day lock the sequence number is derived from the station's token
// count and a matcher pass runs before commit, which may allocate the new
// token or an older one.
func (h IssueTokenCommandHandler) Handle(ctx context.Context, command IssueTokenCommand) (*token.Token, error) {
	if err := command.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	day, err := kernel.NewServiceDay(now)
	if err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.LockDriverDay(ctx, command.DriverID(), day); err != nil {
		return nil, err
	}

	tokenRepo := uow.TokenRepository()

	existing, err := tokenRepo.GetActiveByDriverAndDay(ctx, command.DriverID(), day)
	if err == nil {
		if commitErr := uow.Commit(ctx); commitErr != nil {
			return nil, commitErr
		}
		return existing, nil
	}
	if !errors.Is(err, errs.ErrObjectNotFound) {
		return nil, err
	}

	activeShift, err := uow.ShiftRepository().GetActiveForDriver(ctx, command.DriverID(), now)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, ErrNoActiveShift
	}
	if err != nil {
		return nil, err
	}

	tripRepo := uow.TripRepository()

	driverBusy, err := tripRepo.HasActiveForDriver(ctx, command.DriverID())
	if err != nil {
		return nil, err
	}
	if driverBusy {
		return nil, ErrResourceBusy
	}

	vehicleBusy, err := tripRepo.HasActiveForVehicle(ctx, command.VehicleID())
	if err != nil {
		return nil, err
	}
	if vehicleBusy {
		return nil, ErrResourceBusy
	}

	if err = uow.LockStationDay(ctx, command.Station(), day); err != nil {
		return nil, err
	}

	issuedCount, err := tokenRepo.CountForStationDay(ctx, command.Station(), day)
	if err != nil {
		return nil, err
	}

	tokenNo, err := kernel.NewTokenNo(command.Station(), day, issuedCount+1)
	if err != nil {
		return nil, err
	}

	issued, err := token.NewToken(
		kernel.NewUUID(),
		tokenNo,
		command.DriverID(),
		command.VehicleID(),
		activeShift.ID(),
		now,
	)
	if err != nil {
		return nil, err
	}

	if err = tokenRepo.Add(ctx, issued); err != nil {
		return nil, err
	}

	matched, err := matchStation(ctx, uow, command.Station(), day, now)
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	// The matcher pass may have allocated the freshly issued token; if so the
	// matched instance carries the trip reference the caller needs to see.
	if matched != nil && matched.ID().IsEqual(issued.ID()) {
		return matched, nil
	}

	return issued, nil
}
