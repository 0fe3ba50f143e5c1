package commands_test

import (
	"testing"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTryMatchCommand_ValidInput(t *testing.T) {
	station := createValidStation(t, "TPS01")

	cmd, err := commands.NewTryMatchCommand(station)
	require.NoError(t, err)
	assert.Equal(t, station, cmd.Station())
}

func TestNewTryMatchCommand_InvalidStation(t *testing.T) {
	_, err := commands.NewTryMatchCommand(kernel.StationCode{})
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrStationCodeIsNotConstructed)
}
