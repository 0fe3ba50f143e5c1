package commands_test

import (
	"testing"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/shift"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/services"

	"github.com/stretchr/testify/require"
)

// Test helper functions.
func createValidStation(t *testing.T, code string) kernel.StationCode {
	t.Helper()
	station, err := kernel.NewStationCode(code)
	require.NoError(t, err)
	return station
}

func createWaitingToken(t *testing.T, station kernel.StationCode, sequence int) *token.Token {
	t.Helper()
	now := time.Now().UTC()
	day, err := kernel.NewServiceDay(now)
	require.NoError(t, err)
	tokenNo, err := kernel.NewTokenNo(station, day, sequence)
	require.NoError(t, err)

	tkn, err := token.NewToken(kernel.NewUUID(), tokenNo, kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), now)
	require.NoError(t, err)
	return tkn
}

func createPendingDemand(t *testing.T, origin, destination kernel.StationCode) *demand.Demand {
	t.Helper()
	dmd, err := demand.NewDemand(kernel.NewUUID(), origin, destination, 10, demand.PriorityNormal, time.Now().UTC())
	require.NoError(t, err)
	return dmd
}

func createApprovedDemand(t *testing.T, origin, destination kernel.StationCode) *demand.Demand {
	t.Helper()
	dmd := createPendingDemand(t, origin, destination)
	require.NoError(t, dmd.Approve(time.Now().UTC()))
	return dmd
}

// createAllocation pairs a fresh token with a fresh demand at the given
// instant, producing a consistent unaccepted offer: token Allocated, demand
// Assigning, trip Offered at step 0.
func createAllocation(
	t *testing.T,
	origin, destination kernel.StationCode,
	at time.Time,
) (*token.Token, *demand.Demand, *trip.Trip) {
	t.Helper()
	tkn := createWaitingToken(t, origin, 1)
	dmd := createApprovedDemand(t, origin, destination)

	trp, err := services.NewAllocationService().Allocate(tkn, dmd, at)
	require.NoError(t, err)
	return tkn, dmd, trp
}

func createActiveShift(t *testing.T, driverID kernel.UUID, station kernel.StationCode) *shift.Shift {
	t.Helper()
	now := time.Now().UTC()
	sft, err := shift.NewShift(kernel.NewUUID(), driverID, station, now.Add(-time.Hour), now.Add(8*time.Hour), true)
	require.NoError(t, err)
	return sft
}

func createOpenTransferRecord(
	t *testing.T,
	tripID kernel.UUID,
	station kernel.StationCode,
	point transfer.Point,
) *transfer.TransferRecord {
	t.Helper()
	record, err := transfer.NewTransferRecord(kernel.NewUUID(), tripID, station, point, time.Now().UTC())
	require.NoError(t, err)
	return record
}

func advanceTripTo(t *testing.T, trp *trip.Trip, step trip.Step, partial trip.Snapshot) {
	t.Helper()
	_, err := trp.AdvanceStep(step, partial, time.Now().UTC())
	require.NoError(t, err)
}
