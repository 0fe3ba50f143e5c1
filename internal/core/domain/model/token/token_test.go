package token_test

import (
	"testing"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTokenNo(t *testing.T) kernel.TokenNo {
	t.Helper()
	station, err := kernel.NewStationCode("TPS01")
	require.NoError(t, err)
	day, err := kernel.ServiceDayFromString("2025-03-07")
	require.NoError(t, err)
	tokenNo, err := kernel.NewTokenNo(station, day, 3)
	require.NoError(t, err)
	return tokenNo
}

func TestNewToken(t *testing.T) {
	validID := kernel.NewUUID()
	driverID := kernel.NewUUID()
	vehicleID := kernel.NewUUID()
	shiftID := kernel.NewUUID()
	issuedAt := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)

	t.Run("should create waiting token with all valid parameters", func(t *testing.T) {
		tk, err := token.NewToken(validID, validTokenNo(t), driverID, vehicleID, shiftID, issuedAt)

		require.NoError(t, err)
		assert.NotNil(t, tk)
		require.NoError(t, tk.Validate())
		assert.True(t, tk.ID().IsEqual(validID))
		assert.Equal(t, "TPS01-20250307-003", tk.TokenNo().String())
		assert.Equal(t, "TPS01", tk.Station().String())
		assert.Equal(t, 3, tk.SequenceNumber())
		assert.True(t, tk.DriverID().IsEqual(driverID))
		assert.True(t, tk.VehicleID().IsEqual(vehicleID))
		assert.True(t, tk.ShiftID().IsEqual(shiftID))
		assert.Equal(t, token.Waiting, tk.Status())
		assert.True(t, tk.IsActive())
		assert.Equal(t, issuedAt, tk.IssuedAt())
		assert.Nil(t, tk.AllocatedAt())
		assert.Nil(t, tk.ExpiredAt())
		assert.Equal(t, token.ReasonUnknown, tk.ExpiryReason())
		assert.Nil(t, tk.TripID())
	})

	t.Run("should fail with invalid id", func(t *testing.T) {
		var invalidID kernel.UUID

		tk, err := token.NewToken(invalidID, validTokenNo(t), driverID, vehicleID, shiftID, issuedAt)

		require.Error(t, err)
		assert.Nil(t, tk)
		assert.Contains(t, err.Error(), "UUID must be created")
	})

	t.Run("should fail with unconstructed token number", func(t *testing.T) {
		var invalidNo kernel.TokenNo

		tk, err := token.NewToken(validID, invalidNo, driverID, vehicleID, shiftID, issuedAt)

		require.Error(t, err)
		assert.Nil(t, tk)
		assert.Contains(t, err.Error(), "token number must be created")
	})

	t.Run("should fail with zero issuedAt", func(t *testing.T) {
		tk, err := token.NewToken(validID, validTokenNo(t), driverID, vehicleID, shiftID, time.Time{})

		require.Error(t, err)
		assert.Nil(t, tk)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should handle multiple validation errors", func(t *testing.T) {
		var invalidID kernel.UUID
		var invalidNo kernel.TokenNo

		tk, err := token.NewToken(invalidID, invalidNo, driverID, vehicleID, shiftID, time.Time{})

		require.Error(t, err)
		assert.Nil(t, tk)
		assert.Contains(t, err.Error(), "UUID must be created")
		assert.Contains(t, err.Error(), "token number must be created")
		assert.Contains(t, err.Error(), "issuedAt")
	})
}

func TestToken_Allocate(t *testing.T) {
	issuedAt := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
	allocatedAt := issuedAt.Add(10 * time.Minute)

	newWaitingToken := func(t *testing.T) *token.Token {
		t.Helper()
		tk, err := token.NewToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), issuedAt)
		require.NoError(t, err)
		return tk
	}

	t.Run("should allocate waiting token", func(t *testing.T) {
		tk := newWaitingToken(t)
		tripID := kernel.NewUUID()

		err := tk.Allocate(tripID, allocatedAt)

		require.NoError(t, err)
		assert.Equal(t, token.Allocated, tk.Status())
		assert.True(t, tk.IsActive())
		require.NotNil(t, tk.AllocatedAt())
		assert.Equal(t, allocatedAt, *tk.AllocatedAt())
		require.NotNil(t, tk.TripID())
		assert.True(t, tk.TripID().IsEqual(tripID))
	})

	t.Run("should fail with invalid trip id", func(t *testing.T) {
		tk := newWaitingToken(t)
		var invalidTripID kernel.UUID

		err := tk.Allocate(invalidTripID, allocatedAt)

		require.Error(t, err)
		assert.Equal(t, token.Waiting, tk.Status())
	})

	t.Run("should conflict when token is already allocated", func(t *testing.T) {
		tk := newWaitingToken(t)
		require.NoError(t, tk.Allocate(kernel.NewUUID(), allocatedAt))

		err := tk.Allocate(kernel.NewUUID(), allocatedAt.Add(time.Minute))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrStateConflict)
	})

	t.Run("should surface expiry when token was already swept", func(t *testing.T) {
		tk := newWaitingToken(t)
		require.NoError(t, tk.Expire(token.ReasonShiftEnded, allocatedAt))

		err := tk.Allocate(kernel.NewUUID(), allocatedAt.Add(time.Minute))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrExpired)
		assert.Contains(t, err.Error(), "SHIFT_ENDED")
	})
}

func TestToken_Expire(t *testing.T) {
	issuedAt := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
	expiredAt := issuedAt.Add(time.Hour)

	newWaitingToken := func(t *testing.T) *token.Token {
		t.Helper()
		tk, err := token.NewToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(), issuedAt)
		require.NoError(t, err)
		return tk
	}

	t.Run("should expire waiting token", func(t *testing.T) {
		tk := newWaitingToken(t)

		err := tk.Expire(token.ReasonShiftEnded, expiredAt)

		require.NoError(t, err)
		assert.Equal(t, token.Expired, tk.Status())
		assert.False(t, tk.IsActive())
		require.NotNil(t, tk.ExpiredAt())
		assert.Equal(t, expiredAt, *tk.ExpiredAt())
		assert.Equal(t, token.ReasonShiftEnded, tk.ExpiryReason())
	})

	t.Run("should expire allocated token and keep trip reference", func(t *testing.T) {
		tk := newWaitingToken(t)
		tripID := kernel.NewUUID()
		require.NoError(t, tk.Allocate(tripID, issuedAt.Add(time.Minute)))

		err := tk.Expire(token.ReasonAssignmentTimeout, expiredAt)

		require.NoError(t, err)
		assert.Equal(t, token.Expired, tk.Status())
		assert.Equal(t, token.ReasonAssignmentTimeout, tk.ExpiryReason())
		require.NotNil(t, tk.TripID())
		assert.True(t, tk.TripID().IsEqual(tripID))
	})

	t.Run("should fail with undefined reason", func(t *testing.T) {
		tk := newWaitingToken(t)

		err := tk.Expire(token.ReasonUnknown, expiredAt)

		require.Error(t, err)
		assert.Equal(t, token.Waiting, tk.Status())
	})

	t.Run("should conflict when token is already expired", func(t *testing.T) {
		tk := newWaitingToken(t)
		require.NoError(t, tk.Expire(token.ReasonCancelled, expiredAt))

		err := tk.Expire(token.ReasonShiftEnded, expiredAt.Add(time.Minute))

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrStateConflict)
		assert.Equal(t, token.ReasonCancelled, tk.ExpiryReason())
	})
}

func TestRestoreToken(t *testing.T) {
	issuedAt := time.Date(2025, 3, 7, 8, 0, 0, 0, time.UTC)
	allocatedAt := issuedAt.Add(10 * time.Minute)
	expiredAt := issuedAt.Add(time.Hour)
	tripID := kernel.NewUUID()

	t.Run("should restore waiting token", func(t *testing.T) {
		tk, err := token.RestoreToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			token.Waiting, issuedAt, nil, nil, token.ReasonUnknown, nil)

		require.NoError(t, err)
		require.NoError(t, tk.Validate())
		assert.Equal(t, token.Waiting, tk.Status())
	})

	t.Run("should restore allocated token", func(t *testing.T) {
		tk, err := token.RestoreToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			token.Allocated, issuedAt, &allocatedAt, nil, token.ReasonUnknown, &tripID)

		require.NoError(t, err)
		assert.Equal(t, token.Allocated, tk.Status())
		assert.True(t, tk.TripID().IsEqual(tripID))
	})

	t.Run("should restore expired token with audit fields", func(t *testing.T) {
		tk, err := token.RestoreToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			token.Expired, issuedAt, &allocatedAt, &expiredAt, token.ReasonTripCompleted, &tripID)

		require.NoError(t, err)
		assert.Equal(t, token.Expired, tk.Status())
		assert.Equal(t, token.ReasonTripCompleted, tk.ExpiryReason())
	})

	t.Run("should reject allocated token without trip reference", func(t *testing.T) {
		_, err := token.RestoreToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			token.Allocated, issuedAt, &allocatedAt, nil, token.ReasonUnknown, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing allocatedAt or trip reference")
	})

	t.Run("should reject expired token without reason", func(t *testing.T) {
		_, err := token.RestoreToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			token.Expired, issuedAt, nil, &expiredAt, token.ReasonUnknown, nil)

		require.Error(t, err)
	})

	t.Run("should reject waiting token carrying expiry fields", func(t *testing.T) {
		_, err := token.RestoreToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			token.Waiting, issuedAt, nil, &expiredAt, token.ReasonCancelled, nil)

		require.Error(t, err)
	})

	t.Run("should reject invalid status", func(t *testing.T) {
		_, err := token.RestoreToken(
			kernel.NewUUID(), validTokenNo(t), kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			token.Status(42), issuedAt, nil, nil, token.ReasonUnknown, nil)

		require.Error(t, err)
	})
}

func TestToken_Validate(t *testing.T) {
	t.Run("should fail validation for nil token", func(t *testing.T) {
		var tk *token.Token

		err := tk.Validate()

		require.Error(t, err)
		assert.Equal(t, token.ErrTokenIsNotConstructed, err)
	})

	t.Run("should fail validation for zero value token", func(t *testing.T) {
		var tk token.Token

		err := tk.Validate()

		require.Error(t, err)
		assert.Equal(t, token.ErrTokenIsNotConstructed, err)
	})
}
