package commands_test

import (
	"testing"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubmitDemandCommand_ValidInput(t *testing.T) {
	demandID := kernel.NewUUID()
	origin := createValidStation(t, "TPS01")
	destination := createValidStation(t, "TPS02")

	cmd, err := commands.NewSubmitDemandCommand(demandID, origin, destination, 12, demand.PriorityHigh)
	require.NoError(t, err)
	assert.Equal(t, demandID, cmd.DemandID())
	assert.Equal(t, origin, cmd.Origin())
	assert.Equal(t, destination, cmd.Destination())
	assert.Equal(t, 12, cmd.Quantity())
	assert.Equal(t, demand.PriorityHigh, cmd.Priority())
}

func TestNewSubmitDemandCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewSubmitDemandCommand(
		kernel.UUID{}, kernel.StationCode{}, kernel.StationCode{}, 0, demand.PriorityUnknown)
	require.Error(t, err)
}

func TestNewSubmitDemandCommand_InvalidDemandID(t *testing.T) {
	invalidID := kernel.UUID{} // zero value, should trigger validation error
	_, err := commands.NewSubmitDemandCommand(
		invalidID, createValidStation(t, "TPS01"), createValidStation(t, "TPS02"), 12, demand.PriorityNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewSubmitDemandCommand_InvalidOrigin(t *testing.T) {
	_, err := commands.NewSubmitDemandCommand(
		kernel.NewUUID(), kernel.StationCode{}, createValidStation(t, "TPS02"), 12, demand.PriorityNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrStationCodeIsNotConstructed)
}

func TestNewSubmitDemandCommand_InvalidDestination(t *testing.T) {
	_, err := commands.NewSubmitDemandCommand(
		kernel.NewUUID(), createValidStation(t, "TPS01"), kernel.StationCode{}, 12, demand.PriorityNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrStationCodeIsNotConstructed)
}

func TestNewSubmitDemandCommand_InvalidQuantity(t *testing.T) {
	_, err := commands.NewSubmitDemandCommand(
		kernel.NewUUID(), createValidStation(t, "TPS01"), createValidStation(t, "TPS02"), 0, demand.PriorityNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrQuantityIsInvalid)

	_, err = commands.NewSubmitDemandCommand(
		kernel.NewUUID(), createValidStation(t, "TPS01"), createValidStation(t, "TPS02"), -3, demand.PriorityNormal)
	require.Error(t, err)
	assert.ErrorIs(t, err, commands.ErrQuantityIsInvalid)
}

func TestNewSubmitDemandCommand_InvalidPriority(t *testing.T) {
	_, err := commands.NewSubmitDemandCommand(
		kernel.NewUUID(), createValidStation(t, "TPS01"), createValidStation(t, "TPS02"), 12, demand.Priority(99))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
