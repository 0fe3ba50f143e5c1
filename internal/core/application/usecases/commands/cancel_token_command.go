package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrCancelTokenCommandIsNotConstructed = errors.New(
		"CancelTokenCommand must be created via NewCancelTokenCommand constructor",
	)
)

// CancelTokenCommand withdraws a token from its queue. A waiting token
// simply expires; an allocated token whose offer was never accepted is
// reclaimed the same way the sweeper reclaims timed-out assignments.
type CancelTokenCommand struct { //nolint:recvcheck //using for validation
	tokenID kernel.UUID

	guard guard.ConstructorGuard
}

// NewCancelTokenCommand creates a command to cancel a queue token.
// Validates that the token identifier is valid.
func NewCancelTokenCommand(tokenID kernel.UUID) (CancelTokenCommand, error) {
	cancelCommand := CancelTokenCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := cancelCommand.setTokenID(tokenID); err != nil {
		return CancelTokenCommand{}, err
	}

	return cancelCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCancelTokenCommandIsNotConstructed if validation fails.
func (c CancelTokenCommand) Validate() error {
	return c.guard.Validate(ErrCancelTokenCommandIsNotConstructed)
}

// TokenID returns the token to cancel.
func (c CancelTokenCommand) TokenID() kernel.UUID {
	return c.tokenID
}

func (c *CancelTokenCommand) setTokenID(tokenID kernel.UUID) error {
	if err := tokenID.Validate(); err != nil {
		return err
	}

	c.tokenID = tokenID
	return nil
}
