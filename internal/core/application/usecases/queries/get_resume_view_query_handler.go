package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/transfer"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/services"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetResumeViewQueryHandler assembles the resume view from the trips and
// transfer_records tables. Before serving the stored step it re-derives the
// step from the persisted facts and logs a warning when they disagree; the
// client always receives the higher of the two, so progress captured in one
// place is never hidden by a stale counter in another.
//
// Example:
//
//	handler := NewGetResumeViewQueryHandler(db, logger)
//	query, _ := NewGetResumeViewQuery(driverID)
//
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    fmt.Println("Nothing to resume")
//	    return nil
//	}
type GetResumeViewQueryHandler struct {
	db         *gorm.DB
	reconciler services.StepReconciler
	logger     *slog.Logger
}

// NewGetResumeViewQueryHandler creates a handler for resume view queries.
// Requires a GORM database connection and a logger for reporting step
// disagreements.
func NewGetResumeViewQueryHandler(db *gorm.DB, logger *slog.Logger) GetResumeViewQueryHandler {
	return GetResumeViewQueryHandler{
		db:         db,
		reconciler: services.NewStepReconciler(),
		logger:     logger,
	}
}

// Handle executes the resume lookup for the driver's Offered or InProgress
// trip. Returns ObjectNotFound when the driver has no active trip.
func (h GetResumeViewQueryHandler) Handle(
	ctx context.Context,
	query GetResumeViewQuery,
) (*GetResumeViewQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	activeTrip, err := h.loadActiveTrip(ctx, query.DriverID())
	if err != nil {
		return nil, err
	}

	records, err := h.loadTransferRecords(ctx, activeTrip.ID())
	if err != nil {
		return nil, err
	}

	step := activeTrip.CurrentStep()
	derived, err := h.reconciler.ComputeStepFromState(activeTrip, records)
	if err != nil {
		return nil, err
	}
	if derived != step {
		h.logger.Warn("stored trip step disagrees with state-derived step",
			slog.String("tripId", activeTrip.ID().String()),
			slog.String("storedStep", step.String()),
			slog.String("derivedStep", derived.String()),
		)
		if derived > step {
			step = derived
		}
	}

	response := GetResumeViewQueryResponse{
		TripID:      activeTrip.ID(),
		Origin:      activeTrip.Origin(),
		Destination: activeTrip.Destination(),
		Status:      activeTrip.Status(),
		Step:        step,
		Snapshot:    activeTrip.Snapshot(),
	}

	if step.IsMidTransfer() {
		point := transfer.PointOrigin
		if step == trip.StepDestinationTransfer {
			point = transfer.PointDestination
		}
		for _, record := range records {
			if record.Point() == point && record.IsOpen() {
				response.OpenTransfer = &OpenTransferView{
					Point:                record.Point(),
					Station:              record.Station(),
					PreReading:           record.PreReading(),
					PostReading:          record.PostReading(),
					PhotoRefs:            record.PhotoRefs(),
					AwaitingConfirmation: true,
				}
				break
			}
		}
	}

	return &response, nil
}

func (h GetResumeViewQueryHandler) loadActiveTrip(
	ctx context.Context,
	driverID kernel.UUID,
) (*trip.Trip, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			demand_id,
			token_id,
			driver_id,
			vehicle_id,
			origin,
			destination,
			current_step,
			snapshot,
			status,
			created_at,
			completed_at,
			cancelled_at
		FROM trips
		WHERE driver_id = ? AND status IN (?, ?)
		LIMIT 1
	`, driverID.Bytes(), int(trip.Offered), int(trip.InProgress)).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("trip", "active for driver "+driverID.String())
	}

	var (
		id          uuid.UUID
		demandID    uuid.UUID
		tokenID     uuid.UUID
		scannedDrv  uuid.UUID
		vehicleID   uuid.UUID
		origin      string
		destination string
		currentStep int
		rawSnapshot []byte
		status      int
		createdAt   time.Time
		completedAt sql.NullTime
		cancelledAt sql.NullTime
	)
	if err = rows.Scan(
		&id, &demandID, &tokenID, &scannedDrv, &vehicleID,
		&origin, &destination, &currentStep, &rawSnapshot, &status,
		&createdAt, &completedAt, &cancelledAt,
	); err != nil {
		return nil, err
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return restoreTripRow(tripRow{
		id:          id,
		demandID:    demandID,
		tokenID:     tokenID,
		driverID:    scannedDrv,
		vehicleID:   vehicleID,
		origin:      origin,
		destination: destination,
		currentStep: currentStep,
		rawSnapshot: rawSnapshot,
		status:      status,
		createdAt:   createdAt,
		completedAt: completedAt,
		cancelledAt: cancelledAt,
	})
}

func (h GetResumeViewQueryHandler) loadTransferRecords(
	ctx context.Context,
	tripID kernel.UUID,
) ([]*transfer.TransferRecord, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			trip_id,
			station,
			point,
			pre_reading,
			post_reading,
			photo_refs,
			confirmed_by,
			opened_at,
			confirmed_at
		FROM transfer_records
		WHERE trip_id = ?
	`, tripID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*transfer.TransferRecord, 0)
	for rows.Next() {
		var (
			id          uuid.UUID
			scannedTrip uuid.UUID
			station     string
			point       string
			preReading  sql.NullString
			postReading sql.NullString
			photoRefs   pq.StringArray
			confirmedBy sql.NullString
			openedAt    time.Time
			confirmedAt sql.NullTime
		)
		if err = rows.Scan(
			&id, &scannedTrip, &station, &point,
			&preReading, &postReading, &photoRefs, &confirmedBy,
			&openedAt, &confirmedAt,
		); err != nil {
			return nil, err
		}

		record, restoreErr := restoreTransferRow(
			id, scannedTrip, station, point,
			preReading, postReading, photoRefs, confirmedBy,
			openedAt, confirmedAt,
		)
		if restoreErr != nil {
			return nil, restoreErr
		}
		records = append(records, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return records, nil
}

// tripRow is the raw shape of one trips row as the read side scans it.
type tripRow struct {
	id          uuid.UUID
	demandID    uuid.UUID
	tokenID     uuid.UUID
	driverID    uuid.UUID
	vehicleID   uuid.UUID
	origin      string
	destination string
	currentStep int
	rawSnapshot []byte
	status      int
	createdAt   time.Time
	completedAt sql.NullTime
	cancelledAt sql.NullTime
}

func restoreTripRow(row tripRow) (*trip.Trip, error) {
	id, err := kernel.UUIDFromBytes(row.id[:])
	if err != nil {
		return nil, err
	}
	demandID, err := kernel.UUIDFromBytes(row.demandID[:])
	if err != nil {
		return nil, err
	}
	tokenID, err := kernel.UUIDFromBytes(row.tokenID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.UUIDFromBytes(row.driverID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := kernel.UUIDFromBytes(row.vehicleID[:])
	if err != nil {
		return nil, err
	}
	origin, err := kernel.NewStationCode(row.origin)
	if err != nil {
		return nil, err
	}
	destination, err := kernel.NewStationCode(row.destination)
	if err != nil {
		return nil, err
	}
	snapshot, err := unmarshalStoredSnapshot(row.rawSnapshot)
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
		trip.Step(row.currentStep),
		snapshot,
		trip.Status(row.status),
		row.createdAt,
		nullableTime(row.completedAt),
		nullableTime(row.cancelledAt),
	)
}

func restoreTransferRow(
	id uuid.UUID,
	tripID uuid.UUID,
	station string,
	point string,
	preReading sql.NullString,
	postReading sql.NullString,
	photoRefs pq.StringArray,
	confirmedBy sql.NullString,
	openedAt time.Time,
	confirmedAt sql.NullTime,
) (*transfer.TransferRecord, error) {
	recordID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return nil, err
	}
	recordTripID, err := kernel.UUIDFromBytes(tripID[:])
	if err != nil {
		return nil, err
	}
	stationCode, err := kernel.NewStationCode(station)
	if err != nil {
		return nil, err
	}
	transferPoint, err := transfer.PointFromString(point)
	if err != nil {
		return nil, err
	}

	return transfer.RestoreTransferRecord(
		recordID,
		recordTripID,
		stationCode,
		transferPoint,
		nullableString(preReading),
		nullableString(postReading),
		photoRefs,
		nullableString(confirmedBy),
		openedAt,
		nullableTime(confirmedAt),
	)
}

// storedSnapshot mirrors the json document the write side persists in the
// trips.snapshot column. The read side keeps its own copy of the contract so
// the two sides can evolve in lockstep with the schema, not with each other.
type storedSnapshot struct {
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

func unmarshalStoredSnapshot(raw []byte) (trip.Snapshot, error) {
	if len(raw) == 0 {
		return trip.Snapshot{}, nil
	}

	var doc storedSnapshot
	if err := json.Unmarshal(raw, &doc); err != nil {
		return trip.Snapshot{}, err
	}

	return trip.Snapshot{
		AcceptedAt:             doc.AcceptedAt,
		ArrivedOriginAt:        doc.ArrivedOriginAt,
		OriginPreReading:       doc.OriginPreReading,
		OriginPostReading:      doc.OriginPostReading,
		OriginPhotoRefs:        doc.OriginPhotoRefs,
		OriginConfirmedBy:      doc.OriginConfirmedBy,
		ArrivedDestinationAt:   doc.ArrivedDestinationAt,
		DestinationPreReading:  doc.DestinationPreReading,
		DestinationPostReading: doc.DestinationPostReading,
		DestinationPhotoRefs:   doc.DestinationPhotoRefs,
		DestinationConfirmedBy: doc.DestinationConfirmedBy,
		CompletedAt:            doc.CompletedAt,
		Extra:                  doc.Extra,
	}, nil
}

func nullableTime(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func nullableString(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}
