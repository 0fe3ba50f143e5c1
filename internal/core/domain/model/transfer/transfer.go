package transfer

import (
	"errors"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

// ErrTransferRecordIsNotConstructed indicates that the TransferRecord was not
// properly initialized through the NewTransferRecord constructor function.
var ErrTransferRecordIsNotConstructed = errors.New("TransferRecord must be created via NewTransferRecord constructor")

// TransferRecord is the audit record of a single load or unload at a station.
// It is opened when the driver reaches a mid-transfer step and holds the
// readings, photo references and the operator signature collected during the
// transfer. An open record occupies one station bay; confirming it releases
// the bay.
//
// A trip has at most one record per Point. The station code is carried on the
// record itself so bay occupancy can be counted without joining trips.
//
// Key business rules:
//   - Must be constructed through NewTransferRecord
//   - Readings are write-once: the first recorded value is kept
//   - Nothing may change after operator confirmation
//   - Confirmation requires both readings to be present
type TransferRecord struct {
	// id uniquely identifies the transfer record
	id kernel.UUID

	// tripID links the record to the trip it belongs to
	tripID kernel.UUID

	// station is the station where the transfer happens
	station kernel.StationCode

	// point tells whether this is the origin load or the destination unload
	point Point

	// preReading is the meter reading taken before the transfer, nil until recorded
	preReading *string

	// postReading is the meter reading taken after the transfer, nil until recorded
	postReading *string

	// photoRefs are storage keys of evidence photos, deduplicated
	photoRefs []string

	// confirmedBy is the operator who signed off the transfer, nil while open
	confirmedBy *string

	// openedAt is when the driver entered the transfer step
	openedAt time.Time

	// confirmedAt is when the operator confirmed, nil while the bay is held
	confirmedAt *time.Time

	// guard ensures the entity was properly initialized
	guard guard.ConstructorGuard
}

// NewTransferRecord opens a transfer record for a trip at a station.
// The record starts without readings or confirmation and holds a bay at the
// station until Confirm is called.
func NewTransferRecord(
	id kernel.UUID,
	tripID kernel.UUID,
	station kernel.StationCode,
	point Point,
	openedAt time.Time,
) (*TransferRecord, error) {
	record := &TransferRecord{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		record.setID(id),
		record.setTripID(tripID),
		record.setStation(station),
		record.setPoint(point),
		record.setOpenedAt(openedAt),
	); err != nil {
		return nil, err
	}

	return record, nil
}

// RestoreTransferRecord reconstructs a TransferRecord from persistent storage,
// including readings, photos and confirmation collected before it was saved.
func RestoreTransferRecord(
	id kernel.UUID,
	tripID kernel.UUID,
	station kernel.StationCode,
	point Point,
	preReading *string,
	postReading *string,
	photoRefs []string,
	confirmedBy *string,
	openedAt time.Time,
	confirmedAt *time.Time,
) (*TransferRecord, error) {
	record := &TransferRecord{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		record.setID(id),
		record.setTripID(tripID),
		record.setStation(station),
		record.setPoint(point),
		record.setOpenedAt(openedAt),
		record.setPreReading(preReading),
		record.setPostReading(postReading),
		record.setPhotoRefs(photoRefs),
		record.setConfirmation(confirmedBy, confirmedAt),
	); err != nil {
		return nil, err
	}

	return record, nil
}

// IsEqual compares two TransferRecord entities by their unique identifiers.
func (t *TransferRecord) IsEqual(other *TransferRecord) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the unique identifier of the transfer record.
func (t *TransferRecord) ID() kernel.UUID {
	return t.id
}

// TripID returns the trip this record belongs to.
func (t *TransferRecord) TripID() kernel.UUID {
	return t.tripID
}

// Station returns the station where the transfer happens.
func (t *TransferRecord) Station() kernel.StationCode {
	return t.station
}

// Point returns whether this is the origin or destination transfer.
func (t *TransferRecord) Point() Point {
	return t.point
}

// PreReading returns the reading taken before the transfer, nil until recorded.
func (t *TransferRecord) PreReading() *string {
	return t.preReading
}

// PostReading returns the reading taken after the transfer, nil until recorded.
func (t *TransferRecord) PostReading() *string {
	return t.postReading
}

// PhotoRefs returns a copy of the recorded photo references.
func (t *TransferRecord) PhotoRefs() []string {
	if t.photoRefs == nil {
		return nil
	}
	refs := make([]string, len(t.photoRefs))
	copy(refs, t.photoRefs)
	return refs
}

// ConfirmedBy returns the operator who confirmed the transfer, nil while open.
func (t *TransferRecord) ConfirmedBy() *string {
	return t.confirmedBy
}

// OpenedAt returns when the record was opened.
func (t *TransferRecord) OpenedAt() time.Time {
	return t.openedAt
}

// ConfirmedAt returns when the operator confirmed, nil while open.
func (t *TransferRecord) ConfirmedAt() *time.Time {
	return t.confirmedAt
}

// IsOpen reports whether the transfer still holds a station bay.
// A record is open from creation until operator confirmation.
func (t *TransferRecord) IsOpen() bool {
	return t.confirmedAt == nil
}

// RecordPreReading stores the reading taken before the transfer. The first
// recorded value is kept; repeated calls leave it unchanged. Recording on a
// confirmed record fails.
func (t *TransferRecord) RecordPreReading(reading string) error {
	if reading == "" {
		return errs.NewValueIsRequiredError("preReading is required")
	}
	if !t.IsOpen() {
		return errs.NewStateConflictError("transferRecord", "open", "confirmed")
	}

	if t.preReading == nil || *t.preReading == "" {
		t.preReading = &reading
	}
	return nil
}

// RecordPostReading stores the reading taken after the transfer. The first
// recorded value is kept; repeated calls leave it unchanged. Recording on a
// confirmed record fails.
func (t *TransferRecord) RecordPostReading(reading string) error {
	if reading == "" {
		return errs.NewValueIsRequiredError("postReading is required")
	}
	if !t.IsOpen() {
		return errs.NewStateConflictError("transferRecord", "open", "confirmed")
	}

	if t.postReading == nil || *t.postReading == "" {
		t.postReading = &reading
	}
	return nil
}

// AddPhotoRefs appends evidence photo references, skipping empty strings and
// references already present. Adding to a confirmed record fails.
func (t *TransferRecord) AddPhotoRefs(refs ...string) error {
	if !t.IsOpen() {
		return errs.NewStateConflictError("transferRecord", "open", "confirmed")
	}

	for _, ref := range refs {
		if ref == "" || t.hasPhotoRef(ref) {
			continue
		}
		t.photoRefs = append(t.photoRefs, ref)
	}
	return nil
}

// Confirm closes the transfer with the operator's signature, releasing the
// station bay. Both readings must already be recorded; a record can only be
// confirmed once.
func (t *TransferRecord) Confirm(actor string, at time.Time) error {
	if actor == "" {
		return errs.NewValueIsRequiredError("actor is required")
	}
	if at.IsZero() {
		return errs.NewValueIsRequiredError("confirmedAt is required")
	}
	if !t.IsOpen() {
		return errs.NewStateConflictError("transferRecord", "open", "confirmed")
	}
	if t.preReading == nil || *t.preReading == "" {
		return errs.NewValueIsRequiredError("preReading must be recorded before confirmation")
	}
	if t.postReading == nil || *t.postReading == "" {
		return errs.NewValueIsRequiredError("postReading must be recorded before confirmation")
	}

	t.confirmedBy = &actor
	t.confirmedAt = &at
	return nil
}

func (t *TransferRecord) hasPhotoRef(ref string) bool {
	for _, existing := range t.photoRefs {
		if existing == ref {
			return true
		}
	}
	return false
}

func (t *TransferRecord) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	t.id = id
	return nil
}

func (t *TransferRecord) setTripID(tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	t.tripID = tripID
	return nil
}

func (t *TransferRecord) setStation(station kernel.StationCode) error {
	if err := station.Validate(); err != nil {
		return err
	}

	t.station = station
	return nil
}

func (t *TransferRecord) setPoint(point Point) error {
	if err := point.Validate(); err != nil {
		return err
	}

	t.point = point
	return nil
}

func (t *TransferRecord) setOpenedAt(openedAt time.Time) error {
	if openedAt.IsZero() {
		return errs.NewValueIsRequiredError("openedAt is required")
	}

	t.openedAt = openedAt
	return nil
}

func (t *TransferRecord) setPreReading(preReading *string) error {
	t.preReading = preReading
	return nil
}

func (t *TransferRecord) setPostReading(postReading *string) error {
	t.postReading = postReading
	return nil
}

func (t *TransferRecord) setPhotoRefs(photoRefs []string) error {
	for _, ref := range photoRefs {
		if ref == "" {
			continue
		}
		if !t.hasPhotoRef(ref) {
			t.photoRefs = append(t.photoRefs, ref)
		}
	}
	return nil
}

// setConfirmation restores the confirmation pair. Either both parts are
// present or neither is.
func (t *TransferRecord) setConfirmation(confirmedBy *string, confirmedAt *time.Time) error {
	switch {
	case confirmedBy == nil && confirmedAt == nil:
		return nil
	case confirmedBy == nil || confirmedAt == nil:
		return errs.NewValueIsInvalidError("confirmation is incomplete")
	case *confirmedBy == "":
		return errs.NewValueIsRequiredError("confirmedBy is required")
	case confirmedAt.IsZero():
		return errs.NewValueIsRequiredError("confirmedAt is required")
	}

	t.confirmedBy = confirmedBy
	t.confirmedAt = confirmedAt
	return nil
}

// Validate checks if the TransferRecord entity is in a valid state.
func (t *TransferRecord) Validate() error {
	if t == nil {
		return ErrTransferRecordIsNotConstructed
	}
	return t.guard.Validate(ErrTransferRecordIsNotConstructed)
}
