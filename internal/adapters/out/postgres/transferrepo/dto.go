// Package transferrepo provides data transfer objects and mapping functions for
// transfer record persistence. This package implements the repository pattern for
// the transfer record entity, handling the conversion between domain entities and
// database representations.
package transferrepo

import (
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// TransferRecordDTO represents the database structure for persisting transfer
// records. The unique index on (trip_id, point) enforces at most one record
// per end of the route; photo references live in a native text array.
type TransferRecordDTO struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey"`
	TripID      uuid.UUID      `gorm:"type:uuid;uniqueIndex:idx_transfer_trip_point"`
	Station     string         `gorm:"index"`
	Point       string         `gorm:"uniqueIndex:idx_transfer_trip_point"`
	PreReading  *string        `gorm:""`
	PostReading *string        `gorm:""`
	PhotoRefs   pq.StringArray `gorm:"type:text[]"`
	ConfirmedBy *string        `gorm:""`
	OpenedAt    time.Time      `gorm:""`
	ConfirmedAt *time.Time     `gorm:""`
}

// TableName specifies the database table name for transfer record entities.
func (TransferRecordDTO) TableName() string {
	return "transfer_records"
}

// fromDomain converts a transfer record to its database representation.
func fromDomain(record *transfer.TransferRecord) TransferRecordDTO {
	return TransferRecordDTO{
		ID:          record.ID().Bytes(),
		TripID:      record.TripID().Bytes(),
		Station:     record.Station().String(),
		Point:       record.Point().String(),
		PreReading:  record.PreReading(),
		PostReading: record.PostReading(),
		PhotoRefs:   pq.StringArray(record.PhotoRefs()),
		ConfirmedBy: record.ConfirmedBy(),
		OpenedAt:    record.OpenedAt(),
		ConfirmedAt: record.ConfirmedAt(),
	}
}

// toDomain converts a database DTO to a transfer record entity.
func toDomain(dto TransferRecordDTO) (*transfer.TransferRecord, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	tripID, err := kernel.UUIDFromBytes(dto.TripID[:])
	if err != nil {
		return nil, err
	}

	station, err := kernel.NewStationCode(dto.Station)
	if err != nil {
		return nil, err
	}

	point, err := transfer.PointFromString(dto.Point)
	if err != nil {
		return nil, err
	}

	return transfer.RestoreTransferRecord(
		id,
		tripID,
		station,
		point,
		dto.PreReading,
		dto.PostReading,
		dto.PhotoRefs,
		dto.ConfirmedBy,
		dto.OpenedAt,
		dto.ConfirmedAt,
	)
}
