package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrTryMatchCommandIsNotConstructed = errors.New(
		"TryMatchCommand must be created via NewTryMatchCommand constructor",
	)
)

// TryMatchCommand requests one matcher pass for a station: pair the oldest
// waiting token with the most urgent approved demand, if both exist.
// Finding no pair is a clean outcome, not an error.
type TryMatchCommand struct { //nolint:recvcheck //using for validation
	station kernel.StationCode

	guard guard.ConstructorGuard
}

// NewTryMatchCommand creates a command to run the matcher for a station.
// Validates that the station code is valid.
func NewTryMatchCommand(station kernel.StationCode) (TryMatchCommand, error) {
	matchCommand := TryMatchCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := matchCommand.setStation(station); err != nil {
		return TryMatchCommand{}, err
	}

	return matchCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTryMatchCommandIsNotConstructed if validation fails.
func (c TryMatchCommand) Validate() error {
	return c.guard.Validate(ErrTryMatchCommandIsNotConstructed)
}

// Station returns the station whose queue the matcher works.
func (c TryMatchCommand) Station() kernel.StationCode {
	return c.station
}

func (c *TryMatchCommand) setStation(station kernel.StationCode) error {
	if err := station.Validate(); err != nil {
		return err
	}

	c.station = station
	return nil
}
