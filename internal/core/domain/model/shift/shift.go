package shift

import (
	"errors"
	"fmt"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

// ErrShiftIsNotConstructed is returned when a Shift instance was not created
// through the NewShift factory method.
var ErrShiftIsNotConstructed = errors.New("Shift must be created via NewShift constructor")

// Shift is a read model of a driver roster entry. The roster system owns shift
// CRUD and approval; this module only reads shifts to gate token issuance and
// to retire waiting tokens once a shift has ended.
type Shift struct {
	// id is the roster's identifier for the shift
	id kernel.UUID

	// driverID references the driver the shift belongs to
	driverID kernel.UUID

	// station is where the shift is worked
	station kernel.StationCode

	// startsAt is the start of the shift window
	startsAt time.Time

	// endsAt is the end of the shift window, always after startsAt
	endsAt time.Time

	// approved marks shifts signed off by the roster; only approved shifts
	// count for token issuance
	approved bool

	// guard ensures the shift was created via the constructor
	guard guard.ConstructorGuard
}

// NewShift creates a Shift read model from roster data.
// The window must be well formed: both bounds set and endsAt after startsAt.
func NewShift(
	id kernel.UUID,
	driverID kernel.UUID,
	station kernel.StationCode,
	startsAt time.Time,
	endsAt time.Time,
	approved bool,
) (*Shift, error) {
	shift := &Shift{
		approved: approved,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		shift.setID(id),
		shift.setDriverID(driverID),
		shift.setStation(station),
		shift.setWindow(startsAt, endsAt),
	); err != nil {
		return nil, err
	}

	return shift, nil
}

// IsEqual compares two Shift entities by their unique identifiers.
func (s *Shift) IsEqual(other *Shift) bool {
	return other != nil && s.id.IsEqual(other.id)
}

// ID returns the roster's identifier for the shift.
func (s *Shift) ID() kernel.UUID {
	return s.id
}

// DriverID returns the driver the shift belongs to.
func (s *Shift) DriverID() kernel.UUID {
	return s.driverID
}

// Station returns where the shift is worked.
func (s *Shift) Station() kernel.StationCode {
	return s.station
}

// StartsAt returns the start of the shift window.
func (s *Shift) StartsAt() time.Time {
	return s.startsAt
}

// EndsAt returns the end of the shift window.
func (s *Shift) EndsAt() time.Time {
	return s.endsAt
}

// Approved reports whether the roster signed off the shift.
func (s *Shift) Approved() bool {
	return s.approved
}

// IsActiveAt reports whether the shift covers the given instant and is
// approved. Token issuance requires an active shift.
func (s *Shift) IsActiveAt(t time.Time) bool {
	return s.approved && !t.Before(s.startsAt) && t.Before(s.endsAt)
}

// HasEndedBy reports whether the shift window is over at the given instant.
// The sweeper retires waiting tokens of ended shifts.
func (s *Shift) HasEndedBy(t time.Time) bool {
	return !t.Before(s.endsAt)
}

func (s *Shift) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}

	s.id = id
	return nil
}

func (s *Shift) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}

	s.driverID = driverID
	return nil
}

func (s *Shift) setStation(station kernel.StationCode) error {
	if err := station.Validate(); err != nil {
		return err
	}

	s.station = station
	return nil
}

func (s *Shift) setWindow(startsAt time.Time, endsAt time.Time) error {
	if startsAt.IsZero() {
		return errs.NewValueIsRequiredError("startsAt is required")
	}
	if endsAt.IsZero() {
		return errs.NewValueIsRequiredError("endsAt is required")
	}
	if !endsAt.After(startsAt) {
		return errs.NewValueIsInvalidErrorWithCause("shift window is invalid",
			fmt.Errorf("endsAt %s is not after startsAt %s", endsAt.Format(time.RFC3339), startsAt.Format(time.RFC3339)))
	}

	s.startsAt = startsAt
	s.endsAt = endsAt
	return nil
}

// Validate checks if the Shift entity is in a valid state.
func (s *Shift) Validate() error {
	if s == nil {
		return ErrShiftIsNotConstructed
	}
	return s.guard.Validate(ErrShiftIsNotConstructed)
}
