package kernel

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

// TokenNoSequenceMin is the first sequence number issued per station per day.
const TokenNoSequenceMin = 1

// ErrTokenNoIsNotConstructed is returned when attempting to use an improperly
// initialized TokenNo. Token numbers must be created via NewTokenNo or
// ParseTokenNo.
var ErrTokenNoIsNotConstructed = errs.NewValueIsRequiredError(
	"token number must be created via NewTokenNo or ParseTokenNo constructors")

// TokenNo is the human-facing queue number printed on a vehicle token,
// composed as "{station}-{YYYYMMDD}-{sequence}" with the sequence zero-padded
// to three digits, e.g. "TPS01-20250307-012". Sequences start at 1 and reset
// per station each service day; the composite is therefore unique and encodes
// the FCFS position at its station.
//
// TokenNo is an immutable value object. The zero value is invalid and will
// fail validation - use a constructor to create instances.
type TokenNo struct {
	station  StationCode
	day      ServiceDay
	sequence int
	guard    guard.ConstructorGuard
}

// NewTokenNo composes a token number from its parts.
// Returns an error when station or day is not constructed, or when
// sequence is below TokenNoSequenceMin.
func NewTokenNo(station StationCode, day ServiceDay, sequence int) (TokenNo, error) {
	if err := errors.Join(station.Validate(), day.Validate()); err != nil {
		return TokenNo{}, err
	}
	if sequence < TokenNoSequenceMin {
		return TokenNo{}, errs.NewValueIsOutOfRangeError("sequence", sequence, TokenNoSequenceMin, "unbounded")
	}

	return TokenNo{
		station:  station,
		day:      day,
		sequence: sequence,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// ParseTokenNo reconstructs a TokenNo from its string form. It is the inverse
// of String and is typically used when loading tokens from persistence.
func ParseTokenNo(s string) (TokenNo, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return TokenNo{}, errs.NewValueIsInvalidErrorWithCause("tokenNo",
			fmt.Errorf("expected 3 dash-separated parts, got %d", len(parts)))
	}

	station, err := NewStationCode(parts[0])
	if err != nil {
		return TokenNo{}, errs.NewValueIsInvalidErrorWithCause("tokenNo", err)
	}

	if len(parts[1]) != 8 {
		return TokenNo{}, errs.NewValueIsInvalidErrorWithCause("tokenNo",
			fmt.Errorf("invalid day part %q", parts[1]))
	}
	day, err := ServiceDayFromString(fmt.Sprintf("%s-%s-%s", parts[1][:4], parts[1][4:6], parts[1][6:]))
	if err != nil {
		return TokenNo{}, errs.NewValueIsInvalidErrorWithCause("tokenNo",
			fmt.Errorf("invalid day part %q", parts[1]))
	}

	sequence, err := strconv.Atoi(parts[2])
	if err != nil {
		return TokenNo{}, errs.NewValueIsInvalidErrorWithCause("tokenNo",
			fmt.Errorf("invalid sequence part %q: %w", parts[2], err))
	}

	return NewTokenNo(station, day, sequence)
}

// Validate checks if the TokenNo was properly constructed.
func (t TokenNo) Validate() error {
	return t.guard.Validate(ErrTokenNoIsNotConstructed)
}

// Station returns the station part of the token number.
func (t TokenNo) Station() StationCode {
	return t.station
}

// Day returns the service day part of the token number.
func (t TokenNo) Day() ServiceDay {
	return t.day
}

// Sequence returns the per-station-per-day queue position, starting at 1.
func (t TokenNo) Sequence() int {
	return t.sequence
}

// String returns the composite form, e.g. "TPS01-20250307-012". The sequence
// is padded to three digits but grows wider past 999.
// This method implements the fmt.Stringer interface.
func (t TokenNo) String() string {
	return fmt.Sprintf("%s-%s-%03d", t.station, t.day.Compact(), t.sequence)
}

// IsEqual compares two token numbers for equality.
func (t TokenNo) IsEqual(other TokenNo) bool {
	return t.station.IsEqual(other.station) && t.day.IsEqual(other.day) && t.sequence == other.sequence
}
