package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrApproveDemandCommandIsNotConstructed = errors.New(
		"ApproveDemandCommand must be created via NewApproveDemandCommand constructor",
	)
)

// ApproveDemandCommand admits a pending demand to the matching pool.
// Approval immediately triggers a matcher pass for the demand's origin, so a
// waiting vehicle is paired without waiting for the next queue event.
type ApproveDemandCommand struct { //nolint:recvcheck //using for validation
	demandID kernel.UUID

	guard guard.ConstructorGuard
}

// NewApproveDemandCommand creates a command to approve a demand.
// Validates that the demand identifier is valid.
func NewApproveDemandCommand(demandID kernel.UUID) (ApproveDemandCommand, error) {
	approveCommand := ApproveDemandCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := approveCommand.setDemandID(demandID); err != nil {
		return ApproveDemandCommand{}, err
	}

	return approveCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrApproveDemandCommandIsNotConstructed if validation fails.
func (c ApproveDemandCommand) Validate() error {
	return c.guard.Validate(ErrApproveDemandCommandIsNotConstructed)
}

// DemandID returns the demand to approve.
func (c ApproveDemandCommand) DemandID() kernel.UUID {
	return c.demandID
}

func (c *ApproveDemandCommand) setDemandID(demandID kernel.UUID) error {
	if err := demandID.Validate(); err != nil {
		return err
	}

	c.demandID = demandID
	return nil
}
