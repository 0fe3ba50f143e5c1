// Package triprepo provides data transfer objects and mapping functions for trip persistence.
// This package implements the repository pattern for the trip domain aggregate, handling
// the conversion between domain entities and database representations.
package triprepo

import (
	"encoding/json"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"

	"github.com/google/uuid"
)

// TripDTO represents the database structure for persisting trip aggregates.
// The step snapshot is stored as a jsonb document; its typed fields live in
// snapshotDTO so the column survives schema evolution through the Extra slot.
type TripDTO struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DemandID    uuid.UUID  `gorm:"type:uuid;index"`
	TokenID     uuid.UUID  `gorm:"type:uuid;index"`
	DriverID    uuid.UUID  `gorm:"type:uuid;index"`
	VehicleID   uuid.UUID  `gorm:"type:uuid;index"`
	Origin      string     `gorm:""`
	Destination string     `gorm:""`
	CurrentStep int        `gorm:""`
	Snapshot    string     `gorm:"type:jsonb"`
	Status      int        `gorm:"index"`
	CreatedAt   time.Time  `gorm:""`
	CompletedAt *time.Time `gorm:""`
	CancelledAt *time.Time `gorm:""`
}

// TableName specifies the database table name for trip entities.
func (TripDTO) TableName() string {
	return "trips"
}

// snapshotDTO is the persisted form of a step snapshot.
type snapshotDTO struct {
	AcceptedAt             *time.Time        `json:"acceptedAt,omitempty"`
	ArrivedOriginAt        *time.Time        `json:"arrivedOriginAt,omitempty"`
	OriginPreReading       *string           `json:"originPreReading,omitempty"`
	OriginPostReading      *string           `json:"originPostReading,omitempty"`
	OriginPhotoRefs        []string          `json:"originPhotoRefs,omitempty"`
	OriginConfirmedBy      *string           `json:"originConfirmedBy,omitempty"`
	ArrivedDestinationAt   *time.Time        `json:"arrivedDestinationAt,omitempty"`
	DestinationPreReading  *string           `json:"destinationPreReading,omitempty"`
	DestinationPostReading *string           `json:"destinationPostReading,omitempty"`
	DestinationPhotoRefs   []string          `json:"destinationPhotoRefs,omitempty"`
	DestinationConfirmedBy *string           `json:"destinationConfirmedBy,omitempty"`
	CompletedAt            *time.Time        `json:"completedAt,omitempty"`
	Extra                  map[string]string `json:"extra,omitempty"`
}

func marshalSnapshot(snapshot trip.Snapshot) (string, error) {
	dto := snapshotDTO{
		AcceptedAt:             snapshot.AcceptedAt,
		ArrivedOriginAt:        snapshot.ArrivedOriginAt,
		OriginPreReading:       snapshot.OriginPreReading,
		OriginPostReading:      snapshot.OriginPostReading,
		OriginPhotoRefs:        snapshot.OriginPhotoRefs,
		OriginConfirmedBy:      snapshot.OriginConfirmedBy,
		ArrivedDestinationAt:   snapshot.ArrivedDestinationAt,
		DestinationPreReading:  snapshot.DestinationPreReading,
		DestinationPostReading: snapshot.DestinationPostReading,
		DestinationPhotoRefs:   snapshot.DestinationPhotoRefs,
		DestinationConfirmedBy: snapshot.DestinationConfirmedBy,
		CompletedAt:            snapshot.CompletedAt,
		Extra:                  snapshot.Extra,
	}

	raw, err := json.Marshal(dto)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}

func unmarshalSnapshot(raw string) (trip.Snapshot, error) {
	if raw == "" {
		return trip.Snapshot{}, nil
	}

	var dto snapshotDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return trip.Snapshot{}, err
	}

	return trip.Snapshot{
		AcceptedAt:             dto.AcceptedAt,
		ArrivedOriginAt:        dto.ArrivedOriginAt,
		OriginPreReading:       dto.OriginPreReading,
		OriginPostReading:      dto.OriginPostReading,
		OriginPhotoRefs:        dto.OriginPhotoRefs,
		OriginConfirmedBy:      dto.OriginConfirmedBy,
		ArrivedDestinationAt:   dto.ArrivedDestinationAt,
		DestinationPreReading:  dto.DestinationPreReading,
		DestinationPostReading: dto.DestinationPostReading,
		DestinationPhotoRefs:   dto.DestinationPhotoRefs,
		DestinationConfirmedBy: dto.DestinationConfirmedBy,
		CompletedAt:            dto.CompletedAt,
		Extra:                  dto.Extra,
	}, nil
}

// fromDomain converts a trip domain aggregate to its database representation.
func fromDomain(aggregate *trip.Trip) (TripDTO, error) {
	snapshot, err := marshalSnapshot(aggregate.Snapshot())
	if err != nil {
		return TripDTO{}, err
	}

	return TripDTO{
		ID:          aggregate.ID().Bytes(),
		DemandID:    aggregate.DemandID().Bytes(),
		TokenID:     aggregate.TokenID().Bytes(),
		DriverID:    aggregate.DriverID().Bytes(),
		VehicleID:   aggregate.VehicleID().Bytes(),
		Origin:      aggregate.Origin().String(),
		Destination: aggregate.Destination().String(),
		CurrentStep: int(aggregate.CurrentStep()),
		Snapshot:    snapshot,
		Status:      int(aggregate.Status()),
		CreatedAt:   aggregate.CreatedAt(),
		CompletedAt: aggregate.CompletedAt(),
		CancelledAt: aggregate.CancelledAt(),
	}, nil
}

// toDomain converts a database DTO to a trip domain aggregate.
func toDomain(dto TripDTO) (*trip.Trip, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	demandID, err := kernel.UUIDFromBytes(dto.DemandID[:])
	if err != nil {
		return nil, err
	}

	tokenID, err := kernel.UUIDFromBytes(dto.TokenID[:])
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

	origin, err := kernel.NewStationCode(dto.Origin)
	if err != nil {
		return nil, err
	}

	destination, err := kernel.NewStationCode(dto.Destination)
	if err != nil {
		return nil, err
	}

	snapshot, err := unmarshalSnapshot(dto.Snapshot)
	if err != nil {
		return nil, err
	}

	return trip.RestoreTrip(
		id,
		demandID,
		tokenID,
		driverID,
		vehicleID,
		origin,
		destination,
		trip.Step(dto.CurrentStep),
		snapshot,
		trip.Status(dto.Status),
		dto.CreatedAt,
		dto.CompletedAt,
		dto.CancelledAt,
	)
}
