package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrIssueTokenCommandIsNotConstructed = errors.New(
		"IssueTokenCommand must be created via NewIssueTokenCommand constructor",
	)
)

// IssueTokenCommand represents a driver's request to join a station's queue
// for the current service day. Issuance is idempotent: a driver already
// holding an active token gets that token back unchanged.
//
// Example:
//
//	cmd, err := NewIssueTokenCommand(driverID, vehicleID, station)
//	if err != nil {
//	    return fmt.Errorf("invalid issuance request: %w", err)
//	}
//
//	handler := NewIssueTokenCommandHandler(uowFactory)
//	issued, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to issue token: %w", err)
//	}
//	fmt.Printf("Driver queued as %s", issued.TokenNo())
type IssueTokenCommand struct { //nolint:recvcheck //using for validation
	driverID  kernel.UUID
	vehicleID kernel.UUID
	station   kernel.StationCode

	guard guard.ConstructorGuard
}

// NewIssueTokenCommand creates a command to issue a queue token.
// Validates that both identifiers and the station code are valid.
// Returns an error if any validation fails.
func NewIssueTokenCommand(
	driverID kernel.UUID,
	vehicleID kernel.UUID,
	station kernel.StationCode,
) (IssueTokenCommand, error) {
	issueCommand := IssueTokenCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		issueCommand.setDriverID(driverID),
		issueCommand.setVehicleID(vehicleID),
		issueCommand.setStation(station),
	); err != nil {
		return IssueTokenCommand{}, err
	}

	return issueCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrIssueTokenCommandIsNotConstructed if validation fails.
func (c IssueTokenCommand) Validate() error {
	return c.guard.Validate(ErrIssueTokenCommandIsNotConstructed)
}

// DriverID returns the driver requesting the token.
func (c IssueTokenCommand) DriverID() kernel.UUID {
	return c.driverID
}

// VehicleID returns the vehicle queued under the token.
func (c IssueTokenCommand) VehicleID() kernel.UUID {
	return c.vehicleID
}

// Station returns the station whose queue the driver joins.
func (c IssueTokenCommand) Station() kernel.StationCode {
	return c.station
}

func (c *IssueTokenCommand) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	c.driverID = driverID
	return nil
}

func (c *IssueTokenCommand) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}

	c.vehicleID = vehicleID
	return nil
}

func (c *IssueTokenCommand) setStation(station kernel.StationCode) error {
	if err := station.Validate(); err != nil {
		return err
	}

	c.station = station
	return nil
}
