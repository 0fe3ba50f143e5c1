package commands_test

import (
	"testing"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/commands"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewManualAllocateCommand_ValidInput(t *testing.T) {
	tokenID := kernel.NewUUID()
	demandID := kernel.NewUUID()

	cmd, err := commands.NewManualAllocateCommand(tokenID, demandID)
	require.NoError(t, err)
	assert.Equal(t, tokenID, cmd.TokenID())
	assert.Equal(t, demandID, cmd.DemandID())
}

func TestNewManualAllocateCommand_InvalidTokenID(t *testing.T) {
	invalidID := kernel.UUID{} // zero value, should trigger validation error
	_, err := commands.NewManualAllocateCommand(invalidID, kernel.NewUUID())
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestNewManualAllocateCommand_InvalidDemandID(t *testing.T) {
	invalidID := kernel.UUID{} // zero value, should trigger validation error
	_, err := commands.NewManualAllocateCommand(kernel.NewUUID(), invalidID)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}
