package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

// ErrTokenIsNotConstructed is returned when a Token instance was not created
// through the NewToken or RestoreToken factory methods.
var ErrTokenIsNotConstructed = errors.New("Token must be created via NewToken or RestoreToken constructor")

// Token represents a vehicle queue ticket at a station. It is the aggregate
// root the issuer creates, the matcher allocates and the sweeper expires.
//
// Token follows these invariants:
//   - The token number (station, service day, sequence) is immutable once assigned
//   - A driver holds at most one Waiting/Allocated token per service day
//   - Status transitions follow Waiting -> Allocated -> Expired (Waiting may
//     also expire directly); Expired is terminal
//   - Tokens are never deleted: expiry records a timestamp and a reason
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Token struct {
	// id is the unique identifier for the token
	id kernel.UUID

	// tokenNo is the composite queue number; it carries the station, the
	// service day and the per-station-per-day sequence
	tokenNo kernel.TokenNo

	// driverID references the driver holding the token
	driverID kernel.UUID

	// vehicleID references the vehicle queued under the token
	vehicleID kernel.UUID

	// shiftID references the approved shift the token was issued under
	shiftID kernel.UUID

	// status is the current state in the token lifecycle
	status Status

	// issuedAt is when the issuer created the token
	issuedAt time.Time

	// allocatedAt is when the matcher paired the token (nil while waiting)
	allocatedAt *time.Time

	// expiredAt is when the token was retired (nil while active)
	expiredAt *time.Time

	// expiryReason records why the token was retired (ReasonUnknown while active)
	expiryReason ExpiryReason

	// tripID references the trip created on allocation (nil while waiting)
	tripID *kernel.UUID

	// guard ensures the token was created via a constructor
	guard guard.ConstructorGuard
}

// NewToken creates a freshly issued Token in Waiting status.
//
// Parameters:
//   - id: Unique identifier for the token
//   - tokenNo: Composite queue number assigned inside the issuing transaction
//   - driverID: Driver the token belongs to
//   - vehicleID: Vehicle queued under the token
//   - shiftID: Approved shift covering the issuance
//   - issuedAt: Issuance instant
//
// Returns a validation error if any identifier or the token number is invalid.
func NewToken(
	id kernel.UUID,
	tokenNo kernel.TokenNo,
	driverID kernel.UUID,
	vehicleID kernel.UUID,
	shiftID kernel.UUID,
	issuedAt time.Time,
) (*Token, error) {
	token := &Token{
		status: Waiting,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		token.setID(id),
		token.setTokenNo(tokenNo),
		token.setDriverID(driverID),
		token.setVehicleID(vehicleID),
		token.setShiftID(shiftID),
		token.setIssuedAt(issuedAt),
	); err != nil {
		return nil, err
	}

	return token, nil
}

// RestoreToken reconstructs a Token aggregate from persistent storage.
// Unlike NewToken it accepts the full persisted state, including timestamps
// and the expiry audit fields, and re-checks their consistency.
//
// Business rules:
//   - Allocated tokens must carry allocatedAt and a trip reference
//   - Expired tokens must carry expiredAt and a defined expiry reason
//   - Active tokens must not carry expiry fields
func RestoreToken(
	id kernel.UUID,
	tokenNo kernel.TokenNo,
	driverID kernel.UUID,
	vehicleID kernel.UUID,
	shiftID kernel.UUID,
	status Status,
	issuedAt time.Time,
	allocatedAt *time.Time,
	expiredAt *time.Time,
	expiryReason ExpiryReason,
	tripID *kernel.UUID,
) (*Token, error) {
	token := &Token{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		token.setID(id),
		token.setTokenNo(tokenNo),
		token.setDriverID(driverID),
		token.setVehicleID(vehicleID),
		token.setShiftID(shiftID),
		token.setIssuedAt(issuedAt),
		status.Validate(),
	); err != nil {
		return nil, err
	}

	token.status = status
	token.allocatedAt = allocatedAt
	token.expiredAt = expiredAt
	token.expiryReason = expiryReason
	token.tripID = tripID

	if err := token.validateStateConsistency(); err != nil {
		return nil, err
	}

	return token, nil
}

// Validate ensures the Token instance was properly constructed.
func (t *Token) Validate() error {
	if t == nil {
		return ErrTokenIsNotConstructed
	}
	return t.guard.Validate(ErrTokenIsNotConstructed)
}

// IsEqual compares two tokens by their unique identifiers.
func (t *Token) IsEqual(other *Token) bool {
	return other != nil && t.id.IsEqual(other.id)
}

// ID returns the token's unique identifier.
func (t *Token) ID() kernel.UUID {
	return t.id
}

// TokenNo returns the composite queue number.
func (t *Token) TokenNo() kernel.TokenNo {
	return t.tokenNo
}

// Station returns the station the token queues at.
func (t *Token) Station() kernel.StationCode {
	return t.tokenNo.Station()
}

// ServiceDay returns the calendar day the token is valid for.
func (t *Token) ServiceDay() kernel.ServiceDay {
	return t.tokenNo.Day()
}

// SequenceNumber returns the FCFS position at the station, starting at 1.
// It is immutable once assigned.
func (t *Token) SequenceNumber() int {
	return t.tokenNo.Sequence()
}

// DriverID returns the driver holding the token.
func (t *Token) DriverID() kernel.UUID {
	return t.driverID
}

// VehicleID returns the vehicle queued under the token.
func (t *Token) VehicleID() kernel.UUID {
	return t.vehicleID
}

// ShiftID returns the shift the token was issued under.
func (t *Token) ShiftID() kernel.UUID {
	return t.shiftID
}

// Status returns the current status of the token.
func (t *Token) Status() Status {
	return t.status
}

// IssuedAt returns the issuance instant.
func (t *Token) IssuedAt() time.Time {
	return t.issuedAt
}

// AllocatedAt returns when the matcher paired the token.
// Returns nil while the token is waiting.
func (t *Token) AllocatedAt() *time.Time {
	return t.allocatedAt
}

// ExpiredAt returns when the token was retired.
// Returns nil while the token is active.
func (t *Token) ExpiredAt() *time.Time {
	return t.expiredAt
}

// ExpiryReason returns why the token was retired, or ReasonUnknown while active.
func (t *Token) ExpiryReason() ExpiryReason {
	return t.expiryReason
}

// TripID returns the trip created when the token was allocated.
// Returns nil while the token is waiting.
func (t *Token) TripID() *kernel.UUID {
	return t.tripID
}

// IsActive reports whether the token still occupies the driver's
// one-active-token-per-day slot.
func (t *Token) IsActive() bool {
	return t.status.IsActive()
}

// Allocate pairs the token with a demand by recording the created trip.
//
// Business rules:
//   - Only a Waiting token can be allocated
//   - Allocating an Expired token fails with an ExpiredError so a late
//     matcher observes the sweep instead of resurrecting the token
//
// Returns nil on success; the status becomes Allocated and allocatedAt
// and the trip reference are recorded.
func (t *Token) Allocate(tripID kernel.UUID, at time.Time) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	if t.status == Expired {
		return errs.NewExpiredError("token", t.id.String(), t.expiryReason.String())
	}

	newStatus, err := t.status.Allocate()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.allocatedAt = &at
	t.tripID = &tripID
	return nil
}

// Expire retires the token with the given reason.
//
// Business rules:
//   - Only an active (Waiting or Allocated) token can expire
//   - The reason must be one of the defined expiry reasons
//
// The trip reference is kept for audit even when the linked assignment
// was reclaimed.
func (t *Token) Expire(reason ExpiryReason, at time.Time) error {
	if err := reason.Validate(); err != nil {
		return err
	}

	newStatus, err := t.status.Expire()
	if err != nil {
		return err
	}

	t.status = newStatus
	t.expiredAt = &at
	t.expiryReason = reason
	return nil
}

// setID validates and sets the token's unique identifier.
// This is a private method used only during construction.
func (t *Token) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	t.id = id
	return nil
}

// setTokenNo validates and sets the composite queue number.
// This is a private method used only during construction.
func (t *Token) setTokenNo(tokenNo kernel.TokenNo) error {
	if err := tokenNo.Validate(); err != nil {
		return err
	}
	t.tokenNo = tokenNo
	return nil
}

// setDriverID validates and sets the driver reference.
// This is a private method used only during construction.
func (t *Token) setDriverID(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	t.driverID = driverID
	return nil
}

// setVehicleID validates and sets the vehicle reference.
// This is a private method used only during construction.
func (t *Token) setVehicleID(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}
	t.vehicleID = vehicleID
	return nil
}

// setShiftID validates and sets the shift reference.
// This is a private method used only during construction.
func (t *Token) setShiftID(shiftID kernel.UUID) error {
	if err := shiftID.Validate(); err != nil {
		return err
	}
	t.shiftID = shiftID
	return nil
}

// setIssuedAt validates and sets the issuance instant.
// This is a private method used only during construction.
func (t *Token) setIssuedAt(issuedAt time.Time) error {
	if issuedAt.IsZero() {
		return errs.NewValueIsRequiredError("issuedAt")
	}
	t.issuedAt = issuedAt
	return nil
}

// validateStateConsistency cross-checks status against the optional fields
// when restoring from persistence.
func (t *Token) validateStateConsistency() error {
	switch t.status {
	case Waiting:
		if t.allocatedAt != nil || t.tripID != nil || t.expiredAt != nil || t.expiryReason != ReasonUnknown {
			return errs.NewValueIsInvalidErrorWithCause("token state",
				fmt.Errorf("waiting token %s carries allocation or expiry fields", t.id))
		}
	case Allocated:
		if t.allocatedAt == nil || t.tripID == nil {
			return errs.NewValueIsInvalidErrorWithCause("token state",
				fmt.Errorf("allocated token %s is missing allocatedAt or trip reference", t.id))
		}
		if t.expiredAt != nil || t.expiryReason != ReasonUnknown {
			return errs.NewValueIsInvalidErrorWithCause("token state",
				fmt.Errorf("allocated token %s carries expiry fields", t.id))
		}
	case Expired:
		if t.expiredAt == nil {
			return errs.NewValueIsInvalidErrorWithCause("token state",
				fmt.Errorf("expired token %s is missing expiredAt", t.id))
		}
		if err := t.expiryReason.Validate(); err != nil {
			return err
		}
	case Unknown:
		return errs.NewValueIsInvalidError("token status")
	}
	return nil
}
