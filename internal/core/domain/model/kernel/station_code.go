package kernel

import (
	"regexp"
	"strings"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

const (
	// StationCodeMinLen is the minimum number of characters in a station code.
	StationCodeMinLen = 2
	// StationCodeMaxLen is the maximum number of characters in a station code.
	StationCodeMaxLen = 16
)

// ErrStationCodeIsNotConstructed is returned when attempting to use an improperly
// initialized StationCode. Station codes must be created via NewStationCode.
var ErrStationCodeIsNotConstructed = errs.NewValueIsRequiredError(
	"station code must be created via NewStationCode constructor")

// stationCodePattern restricts codes to uppercase letters and digits. A dash is
// forbidden because it is the separator inside composite token numbers.
var stationCodePattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*$`)

// StationCode identifies a transfer station, e.g. "TPS01". Station master data
// lives outside this service; the code is the stable reference the coordination
// core keys its queues, sequences and bay counters on.
//
// StationCode is an immutable value object. The zero value is invalid and will
// fail validation - use the constructor to create instances.
//
// Example:
//
//	station, err := kernel.NewStationCode("TPS01")
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(station) // Output: TPS01
type StationCode struct {
	code  string
	guard guard.ConstructorGuard
}

// NewStationCode creates a StationCode from its string form. The input is
// upper-cased before validation, so "tps01" and "TPS01" yield the same code.
//
// Returns an error when the code is empty, shorter than StationCodeMinLen,
// longer than StationCodeMaxLen, or contains characters outside [A-Z0-9]
// (it must also start with a letter).
func NewStationCode(code string) (StationCode, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if normalized == "" {
		return StationCode{}, errs.NewValueIsRequiredError("stationCode")
	}
	if len(normalized) < StationCodeMinLen || len(normalized) > StationCodeMaxLen {
		return StationCode{}, errs.NewValueIsOutOfRangeError(
			"stationCode length", len(normalized), StationCodeMinLen, StationCodeMaxLen)
	}
	if !stationCodePattern.MatchString(normalized) {
		return StationCode{}, errs.NewValueIsInvalidError("stationCode")
	}

	return StationCode{
		code:  normalized,
		guard: guard.NewConstructorGuard(),
	}, nil
}

// Validate checks if the StationCode was properly constructed.
func (s StationCode) Validate() error {
	return s.guard.Validate(ErrStationCodeIsNotConstructed)
}

// String returns the code itself, e.g. "TPS01".
// This method implements the fmt.Stringer interface.
func (s StationCode) String() string {
	return s.code
}

// IsEqual compares two station codes for equality.
func (s StationCode) IsEqual(other StationCode) bool {
	return s.code == other.code
}
