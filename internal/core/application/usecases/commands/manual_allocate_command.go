package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrManualAllocateCommandIsNotConstructed = errors.New(
		"ManualAllocateCommand must be created via NewManualAllocateCommand constructor",
	)
)

// ManualAllocateCommand pairs a specific token with a specific demand,
// bypassing queue order. Reserved for privileged operators; both records
// must still be in their matchable states when the command executes.
type ManualAllocateCommand struct { //nolint:recvcheck //using for validation
	tokenID  kernel.UUID
	demandID kernel.UUID

	guard guard.ConstructorGuard
}

// NewManualAllocateCommand creates a command for a privileged manual pairing.
// Validates that both identifiers are valid.
func NewManualAllocateCommand(tokenID kernel.UUID, demandID kernel.UUID) (ManualAllocateCommand, error) {
	allocateCommand := ManualAllocateCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		allocateCommand.setTokenID(tokenID),
		allocateCommand.setDemandID(demandID),
	); err != nil {
		return ManualAllocateCommand{}, err
	}

	return allocateCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrManualAllocateCommandIsNotConstructed if validation fails.
func (c ManualAllocateCommand) Validate() error {
	return c.guard.Validate(ErrManualAllocateCommandIsNotConstructed)
}

// TokenID returns the token to allocate.
func (c ManualAllocateCommand) TokenID() kernel.UUID {
	return c.tokenID
}

// DemandID returns the demand to assign.
func (c ManualAllocateCommand) DemandID() kernel.UUID {
	return c.demandID
}

func (c *ManualAllocateCommand) setTokenID(tokenID kernel.UUID) error {
	if err := tokenID.Validate(); err != nil {
		return err
	}

	c.tokenID = tokenID
	return nil
}

func (c *ManualAllocateCommand) setDemandID(demandID kernel.UUID) error {
	if err := demandID.Validate(); err != nil {
		return err
	}

	c.demandID = demandID
	return nil
}
