// Package demandrepo provides data transfer objects and mapping functions for demand persistence.
// This package implements the repository pattern for the demand domain aggregate, handling
// the conversion between domain entities and database representations.
package demandrepo

import (
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DemandDTO represents the database structure for persisting demand aggregates.
// Priority and status are stored as their numeric values; the matching order
// (priority ASC, approved_at ASC, id ASC) relies on them directly in SQL.
type DemandDTO struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Origin              string     `gorm:"index"`
	Destination         string     `gorm:""`
	Quantity            int        `gorm:""`
	Priority            int        `gorm:""`
	Status              int        `gorm:"index"`
	SubmittedAt         time.Time  `gorm:""`
	ApprovedAt          *time.Time `gorm:""`
	AssignmentStartedAt *time.Time `gorm:""`
	AllocatedTokenID    *uuid.UUID `gorm:"type:uuid"`
	TargetDriverID      *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for demand entities.
func (DemandDTO) TableName() string {
	return "demands"
}

// fromDomain converts a demand domain aggregate to its database representation.
func fromDomain(aggregate *demand.Demand) DemandDTO {
	var allocatedTokenID *uuid.UUID
	if id := aggregate.AllocatedTokenID(); id != nil {
		raw := id.Bytes()
		allocatedTokenID = &raw
	}

	var targetDriverID *uuid.UUID
	if id := aggregate.TargetDriverID(); id != nil {
		raw := id.Bytes()
		targetDriverID = &raw
	}

	return DemandDTO{
		ID:                  aggregate.ID().Bytes(),
		Origin:              aggregate.Origin().String(),
		Destination:         aggregate.Destination().String(),
		Quantity:            aggregate.Quantity(),
		Priority:            int(aggregate.Priority()),
		Status:              int(aggregate.Status()),
		SubmittedAt:         aggregate.SubmittedAt(),
		ApprovedAt:          aggregate.ApprovedAt(),
		AssignmentStartedAt: aggregate.AssignmentStartedAt(),
		AllocatedTokenID:    allocatedTokenID,
		TargetDriverID:      targetDriverID,
	}
}

// toDomain converts a database DTO to a demand domain aggregate.
func toDomain(dto DemandDTO) (*demand.Demand, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	origin, err := kernel.NewStationCode(dto.Origin)
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewStationCode(dto.Destination)
	if err != nil {
		return nil, err
	}

	var allocatedTokenID *kernel.UUID
	if dto.AllocatedTokenID != nil {
		tokenID, tokenErr := kernel.UUIDFromBytes((*dto.AllocatedTokenID)[:])
		if tokenErr != nil {
			return nil, tokenErr
		}
		allocatedTokenID = &tokenID
	}

	var targetDriverID *kernel.UUID
	if dto.TargetDriverID != nil {
		driverID, driverErr := kernel.UUIDFromBytes((*dto.TargetDriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		targetDriverID = &driverID
	}

	return demand.RestoreDemand(
		id,
		origin,
		destination,
		dto.Quantity,
		demand.Priority(dto.Priority),
		demand.Status(dto.Status),
		dto.SubmittedAt,
		dto.ApprovedAt,
		dto.AssignmentStartedAt,
		allocatedTokenID,
		targetDriverID,
	)
}
