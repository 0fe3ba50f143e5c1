// Package tokenrepo provides data transfer objects and mapping functions for token persistence.
// This package implements the repository pattern for the token domain aggregate, handling
// the conversion between domain entities and database representations.
package tokenrepo

import (
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/token"

	"github.com/google/uuid"
)

// TokenDTO represents the database structure for persisting token aggregates.
// The composite token number is stored decomposed (station, service day,
// sequence) so queue ordering and per-day counting work in SQL, plus composed
// for display and external references.
//
// A partial unique index on (driver_id, service_day) over active statuses
// backs the one-active-token-per-driver-per-day invariant; see migrations.
type TokenDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	TokenNo        string     `gorm:"uniqueIndex"`
	Station        string     `gorm:"index:idx_tokens_station_day"`
	ServiceDay     time.Time  `gorm:"index:idx_tokens_station_day"`
	SequenceNumber int        `gorm:""`
	DriverID       uuid.UUID  `gorm:"type:uuid;index"`
	VehicleID      uuid.UUID  `gorm:"type:uuid;index"`
	ShiftID        uuid.UUID  `gorm:"type:uuid"`
	Status         int        `gorm:"index"`
	IssuedAt       time.Time  `gorm:""`
	AllocatedAt    *time.Time `gorm:""`
	ExpiredAt      *time.Time `gorm:""`
	ExpiryReason   *string    `gorm:""`
	TripID         *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for token entities.
func (TokenDTO) TableName() string {
	return "tokens"
}

// fromDomain converts a token domain aggregate to its database representation.
func fromDomain(aggregate *token.Token) TokenDTO {
	var tripID *uuid.UUID
	if id := aggregate.TripID(); id != nil {
		raw := id.Bytes()
		tripID = &raw
	}

	var expiryReason *string
	if aggregate.ExpiryReason() != token.ReasonUnknown {
		reason := aggregate.ExpiryReason().String()
		expiryReason = &reason
	}

	return TokenDTO{
		ID:             aggregate.ID().Bytes(),
		TokenNo:        aggregate.TokenNo().String(),
		Station:        aggregate.Station().String(),
		ServiceDay:     aggregate.ServiceDay().Time(),
		SequenceNumber: aggregate.SequenceNumber(),
		DriverID:       aggregate.DriverID().Bytes(),
		VehicleID:      aggregate.VehicleID().Bytes(),
		ShiftID:        aggregate.ShiftID().Bytes(),
		Status:         int(aggregate.Status()),
		IssuedAt:       aggregate.IssuedAt(),
		AllocatedAt:    aggregate.AllocatedAt(),
		ExpiredAt:      aggregate.ExpiredAt(),
		ExpiryReason:   expiryReason,
		TripID:         tripID,
	}
}

// toDomain converts a database DTO to a token domain aggregate.
// Recomposes the token number from its stored parts and restores the full
// lifecycle state using RestoreToken.
func toDomain(dto TokenDTO) (*token.Token, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	station, err := kernel.NewStationCode(dto.Station)
	if err != nil {
		return nil, err
	}

	day, err := kernel.NewServiceDay(dto.ServiceDay)
	if err != nil {
		return nil, err
	}

	tokenNo, err := kernel.NewTokenNo(station, day, dto.SequenceNumber)
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	vehicleID, err := kernel.UUIDFromBytes(dto.VehicleID[:])
	if err != nil {
		return nil, err
	}

	shiftID, err := kernel.UUIDFromBytes(dto.ShiftID[:])
	if err != nil {
		return nil, err
	}

	var tripID *kernel.UUID
	if dto.TripID != nil {
		tID, tripErr := kernel.UUIDFromBytes((*dto.TripID)[:])
		if tripErr != nil {
			return nil, tripErr
		}
		tripID = &tID
	}

	expiryReason := token.ReasonUnknown
	if dto.ExpiryReason != nil {
		expiryReason, err = token.ExpiryReasonFromString(*dto.ExpiryReason)
		if err != nil {
			return nil, err
		}
	}

	return token.RestoreToken(
		id,
		tokenNo,
		driverID,
		vehicleID,
		shiftID,
		token.Status(dto.Status),
		dto.IssuedAt,
		dto.AllocatedAt,
		dto.ExpiredAt,
		expiryReason,
		tripID,
	)
}
