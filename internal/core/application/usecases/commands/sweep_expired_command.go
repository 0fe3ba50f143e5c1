package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var ErrSweepExpiredCommandIsNotConstructed = errors.New(
	"SweepExpiredCommand must be created via NewSweepExpiredCommand constructor",
)

// SweepExpiredCommand triggers one reclamation sweep: timed-out assignments
// return to the pool, tokens of completed trips retire and tokens of ended
// shifts expire. The sweep is the compensating mechanism keeping demand from
// being stuck in Assigning and drivers from being blocked from re-queueing.
//
// Example:
//
//	cmd := NewSweepExpiredCommand()
//	handler := NewSweepExpiredCommandHandler(uowFactory, 5*time.Minute, logger)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    log.Printf("Sweep aborted: %v", err)
//	}
type SweepExpiredCommand struct {
	guard guard.ConstructorGuard
}

// NewSweepExpiredCommand creates a new command to trigger a reclamation sweep.
// This is a parameterless command; the sweep inspects all stations at once.
func NewSweepExpiredCommand() SweepExpiredCommand {
	return SweepExpiredCommand{
		guard: guard.NewConstructorGuard(),
	}
}

// Validate ensures the command was created through the constructor.
// Returns ErrSweepExpiredCommandIsNotConstructed if validation fails.
func (c *SweepExpiredCommand) Validate() error {
	return c.guard.Validate(
		ErrSweepExpiredCommandIsNotConstructed,
	)
}
