package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrRejectDemandCommandIsNotConstructed = errors.New(
		"RejectDemandCommand must be created via NewRejectDemandCommand constructor",
	)
)

// RejectDemandCommand refuses a pending demand. Rejection is final; the
// demand never enters the matching pool.
type RejectDemandCommand struct { //nolint:recvcheck //using for validation
	demandID kernel.UUID

	guard guard.ConstructorGuard
}

// NewRejectDemandCommand creates a command to reject a demand.
// Validates that the demand identifier is valid.
func NewRejectDemandCommand(demandID kernel.UUID) (RejectDemandCommand, error) {
	rejectCommand := RejectDemandCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := rejectCommand.setDemandID(demandID); err != nil {
		return RejectDemandCommand{}, err
	}

	return rejectCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrRejectDemandCommandIsNotConstructed if validation fails.
func (c RejectDemandCommand) Validate() error {
	return c.guard.Validate(ErrRejectDemandCommandIsNotConstructed)
}

// DemandID returns the demand to reject.
func (c RejectDemandCommand) DemandID() kernel.UUID {
	return c.demandID
}

func (c *RejectDemandCommand) setDemandID(demandID kernel.UUID) error {
	if err := demandID.Validate(); err != nil {
		return err
	}

	c.demandID = demandID
	return nil
}
