package queries_test

import (
	"testing"

	"github.com/npcoderes/GTS-sub002/internal/core/application/usecases/queries"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetResumeViewQuery_ValidInput(t *testing.T) {
	driverID := kernel.NewUUID()

	query, err := queries.NewGetResumeViewQuery(driverID)
	require.NoError(t, err)
	assert.Equal(t, driverID, query.DriverID())
}

func TestNewGetResumeViewQuery_InvalidDriverID(t *testing.T) {
	invalidID := kernel.UUID{} // zero value, should trigger validation error
	_, err := queries.NewGetResumeViewQuery(invalidID)
	require.Error(t, err)
	assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestGetResumeViewQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetResumeViewQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetResumeViewQueryIsNotConstructed)
}
