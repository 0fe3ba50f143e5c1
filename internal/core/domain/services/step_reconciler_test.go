package services_test

import (
	"testing"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tripCreatedAt = time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)

func newTestTrip(t *testing.T) *trip.Trip {
	t.Helper()
	tr, err := trip.NewTrip(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.NewUUID(), kernel.NewUUID(),
		mustStation(t, "TPS01"), mustStation(t, "TPS02"), tripCreatedAt)
	require.NoError(t, err)
	return tr
}

func restoreTripAt(t *testing.T, step trip.Step, snapshot trip.Snapshot, status trip.Status) *trip.Trip {
	t.Helper()
	var completedAt, cancelledAt *time.Time
	switch status {
	case trip.Completed:
		at := tripCreatedAt.Add(2 * time.Hour)
		completedAt = &at
	case trip.Cancelled:
		at := tripCreatedAt.Add(10 * time.Minute)
		cancelledAt = &at
	}
	tr, err := trip.RestoreTrip(kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
		kernel.NewUUID(), kernel.NewUUID(),
		mustStation(t, "TPS01"), mustStation(t, "TPS02"),
		step, snapshot, status, tripCreatedAt, completedAt, cancelledAt)
	require.NoError(t, err)
	return tr
}

func openTransferFor(t *testing.T, tr *trip.Trip, point transfer.Point) *transfer.TransferRecord {
	t.Helper()
	station := tr.Origin()
	if point == transfer.PointDestination {
		station = tr.Destination()
	}
	record, err := transfer.NewTransferRecord(kernel.NewUUID(), tr.ID(), station, point,
		tripCreatedAt.Add(30*time.Minute))
	require.NoError(t, err)
	return record
}

func confirmedTransferFor(t *testing.T, tr *trip.Trip, point transfer.Point) *transfer.TransferRecord {
	t.Helper()
	record := openTransferFor(t, tr, point)
	require.NoError(t, record.RecordPreReading("100"))
	require.NoError(t, record.RecordPostReading("200"))
	require.NoError(t, record.Confirm("op-1", tripCreatedAt.Add(time.Hour)))
	return record
}

func TestStepReconciler_ComputeStepFromState(t *testing.T) {
	reconciler := services.NewStepReconciler()
	at := func(d time.Duration) *time.Time {
		v := tripCreatedAt.Add(d)
		return &v
	}

	t.Run("should derive first step for fresh offer", func(t *testing.T) {
		tr := newTestTrip(t)

		step, err := reconciler.ComputeStepFromState(tr, nil)

		require.NoError(t, err)
		assert.Equal(t, trip.StepNone, step)
	})

	t.Run("should derive acceptance from in progress status", func(t *testing.T) {
		tr := restoreTripAt(t, trip.StepAccepted, trip.Snapshot{AcceptedAt: at(time.Minute)}, trip.InProgress)

		step, err := reconciler.ComputeStepFromState(tr, nil)

		require.NoError(t, err)
		assert.Equal(t, trip.StepAccepted, step)
	})

	t.Run("should derive origin arrival from snapshot milestone", func(t *testing.T) {
		snapshot := trip.Snapshot{AcceptedAt: at(time.Minute), ArrivedOriginAt: at(10 * time.Minute)}
		tr := restoreTripAt(t, trip.StepArrivedOrigin, snapshot, trip.InProgress)

		step, err := reconciler.ComputeStepFromState(tr, nil)

		require.NoError(t, err)
		assert.Equal(t, trip.StepArrivedOrigin, step)
	})

	t.Run("should place trip in origin transfer while record is open", func(t *testing.T) {
		snapshot := trip.Snapshot{AcceptedAt: at(time.Minute), ArrivedOriginAt: at(10 * time.Minute)}
		tr := restoreTripAt(t, trip.StepOriginTransfer, snapshot, trip.InProgress)
		open := openTransferFor(t, tr, transfer.PointOrigin)

		step, err := reconciler.ComputeStepFromState(tr, []*transfer.TransferRecord{open})

		require.NoError(t, err)
		assert.Equal(t, trip.StepOriginTransfer, step)
	})

	t.Run("should move past origin once record is confirmed", func(t *testing.T) {
		snapshot := trip.Snapshot{AcceptedAt: at(time.Minute), ArrivedOriginAt: at(10 * time.Minute)}
		tr := restoreTripAt(t, trip.StepOriginTransfer, snapshot, trip.InProgress)
		confirmed := confirmedTransferFor(t, tr, transfer.PointOrigin)

		step, err := reconciler.ComputeStepFromState(tr, []*transfer.TransferRecord{confirmed})

		require.NoError(t, err)
		assert.Equal(t, trip.StepOriginConfirmed, step, "confirmed record outranks the stored step")
	})

	t.Run("should derive destination transfer from open destination record", func(t *testing.T) {
		snapshot := trip.Snapshot{AcceptedAt: at(time.Minute), ArrivedOriginAt: at(10 * time.Minute),
			ArrivedDestinationAt: at(50 * time.Minute)}
		tr := restoreTripAt(t, trip.StepDestinationTransfer, snapshot, trip.InProgress)
		records := []*transfer.TransferRecord{
			confirmedTransferFor(t, tr, transfer.PointOrigin),
			openTransferFor(t, tr, transfer.PointDestination),
		}

		step, err := reconciler.ComputeStepFromState(tr, records)

		require.NoError(t, err)
		assert.Equal(t, trip.StepDestinationTransfer, step)
	})

	t.Run("should move past destination once both records are confirmed", func(t *testing.T) {
		snapshot := trip.Snapshot{AcceptedAt: at(time.Minute), ArrivedOriginAt: at(10 * time.Minute),
			ArrivedDestinationAt: at(50 * time.Minute)}
		tr := restoreTripAt(t, trip.StepDestinationTransfer, snapshot, trip.InProgress)
		records := []*transfer.TransferRecord{
			confirmedTransferFor(t, tr, transfer.PointOrigin),
			confirmedTransferFor(t, tr, transfer.PointDestination),
		}

		step, err := reconciler.ComputeStepFromState(tr, records)

		require.NoError(t, err)
		assert.Equal(t, trip.StepDestinationConfirmed, step)
	})

	t.Run("should report final step for completed trip", func(t *testing.T) {
		snapshot := trip.Snapshot{AcceptedAt: at(time.Minute), CompletedAt: at(2 * time.Hour)}
		tr := restoreTripAt(t, trip.StepCompleted, snapshot, trip.Completed)

		step, err := reconciler.ComputeStepFromState(tr, nil)

		require.NoError(t, err)
		assert.Equal(t, trip.StepCompleted, step)
	})

	t.Run("should report first step for cancelled trip regardless of evidence", func(t *testing.T) {
		tr := restoreTripAt(t, trip.StepNone, trip.Snapshot{AcceptedAt: at(time.Minute)}, trip.Cancelled)
		open := openTransferFor(t, tr, transfer.PointOrigin)

		step, err := reconciler.ComputeStepFromState(tr, []*transfer.TransferRecord{open})

		require.NoError(t, err)
		assert.Equal(t, trip.StepNone, step)
	})

	t.Run("should outrank stored step that lags behind the records", func(t *testing.T) {
		// Stored counter says arrived at origin, but a confirmed origin
		// record proves the transfer already finished.
		snapshot := trip.Snapshot{AcceptedAt: at(time.Minute), ArrivedOriginAt: at(10 * time.Minute)}
		tr := restoreTripAt(t, trip.StepArrivedOrigin, snapshot, trip.InProgress)
		confirmed := confirmedTransferFor(t, tr, transfer.PointOrigin)

		step, err := reconciler.ComputeStepFromState(tr, []*transfer.TransferRecord{confirmed})

		require.NoError(t, err)
		assert.Greater(t, step, tr.CurrentStep())
		assert.Equal(t, trip.StepOriginConfirmed, step)
	})

	t.Run("should fail on unconstructed trip", func(t *testing.T) {
		var tr trip.Trip

		_, err := reconciler.ComputeStepFromState(&tr, nil)

		require.Error(t, err)
		assert.ErrorIs(t, err, trip.ErrTripIsNotConstructed)
	})

	t.Run("should fail on unconstructed record", func(t *testing.T) {
		tr := newTestTrip(t)
		var record transfer.TransferRecord

		_, err := reconciler.ComputeStepFromState(tr, []*transfer.TransferRecord{&record})

		require.Error(t, err)
		assert.ErrorIs(t, err, transfer.ErrTransferRecordIsNotConstructed)
	})
}
