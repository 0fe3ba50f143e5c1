// Package shiftrepo persists the shift read model mirrored from the roster
// system. Mapping only; there is no lifecycle beyond Add and lookup.
package shiftrepo

import (
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/shift"

	"github.com/google/uuid"
)

// ShiftDTO represents the database structure for persisting shift records.
type ShiftDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	DriverID uuid.UUID `gorm:"type:uuid;index"`
	Station  string    `gorm:""`
	StartsAt time.Time `gorm:""`
	EndsAt   time.Time `gorm:"index"`
	Approved bool      `gorm:""`
}

// TableName specifies the database table name for shift entities.
func (ShiftDTO) TableName() string {
	return "shifts"
}

// fromDomain converts a shift to its database representation.
func fromDomain(aggregate *shift.Shift) ShiftDTO {
	return ShiftDTO{
		ID:       aggregate.ID().Bytes(),
		DriverID: aggregate.DriverID().Bytes(),
		Station:  aggregate.Station().String(),
		StartsAt: aggregate.StartsAt(),
		EndsAt:   aggregate.EndsAt(),
		Approved: aggregate.Approved(),
	}
}

// toDomain converts a database DTO to a shift.
func toDomain(dto ShiftDTO) (*shift.Shift, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	driverID, err := kernel.UUIDFromBytes(dto.DriverID[:])
	if err != nil {
		return nil, err
	}

	station, err := kernel.NewStationCode(dto.Station)
	if err != nil {
		return nil, err
	}

	return shift.NewShift(id, driverID, station, dto.StartsAt, dto.EndsAt, dto.Approved)
}
