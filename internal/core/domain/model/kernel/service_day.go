package kernel

import (
	"fmt"
	"time"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

// ServiceDayLayout is the string form of a ServiceDay, e.g. "2025-03-07".
const ServiceDayLayout = "2006-01-02"

// serviceDayCompactLayout is the digits-only form embedded in token numbers.
const serviceDayCompactLayout = "20060102"

// ErrServiceDayIsNotConstructed is returned when attempting to use an improperly
// initialized ServiceDay. Service days must be created via NewServiceDay or
// ServiceDayFromString.
var ErrServiceDayIsNotConstructed = errs.NewValueIsRequiredError(
	"service day must be created via NewServiceDay or ServiceDayFromString constructors")

// ServiceDay is the calendar day a token, shift or sequence counter belongs to.
// Days are normalized to midnight UTC so that every service instance derives the
// same day from the same instant regardless of its local timezone; per-station
// sequence numbers reset at each ServiceDay boundary.
//
// ServiceDay is an immutable value object. The zero value is invalid and will
// fail validation - use a constructor to create instances.
//
// Example:
//
//	day, err := kernel.NewServiceDay(time.Now())
//	if err != nil {
//	    // handle validation error
//	}
//	fmt.Println(day) // Output: 2025-03-07
type ServiceDay struct {
	day   time.Time
	guard guard.ConstructorGuard
}

// NewServiceDay creates the ServiceDay containing the given instant.
// The instant is converted to UTC and truncated to midnight.
// Returns an error when t is the zero time.
func NewServiceDay(t time.Time) (ServiceDay, error) {
	if t.IsZero() {
		return ServiceDay{}, errs.NewValueIsRequiredError("serviceDay")
	}

	utc := t.UTC()
	return ServiceDay{
		day:   time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC),
		guard: guard.NewConstructorGuard(),
	}, nil
}

// ServiceDayFromString parses a ServiceDay from its "2006-01-02" form.
// This is typically used when reconstructing values from persistence or
// when parsing days from API requests.
func ServiceDayFromString(s string) (ServiceDay, error) {
	t, err := time.ParseInLocation(ServiceDayLayout, s, time.UTC)
	if err != nil {
		return ServiceDay{}, errs.NewValueIsInvalidErrorWithCause("serviceDay",
			fmt.Errorf("invalid service day format: %w", err))
	}
	return NewServiceDay(t)
}

// Validate checks if the ServiceDay was properly constructed.
func (d ServiceDay) Validate() error {
	return d.guard.Validate(ErrServiceDayIsNotConstructed)
}

// Time returns the day as midnight UTC. Suitable for range queries
// [Time, Time+24h) and for persistence as a DATE column.
func (d ServiceDay) Time() time.Time {
	return d.day
}

// String returns the day in "2006-01-02" form.
// This method implements the fmt.Stringer interface.
func (d ServiceDay) String() string {
	return d.day.Format(ServiceDayLayout)
}

// Compact returns the day in "20060102" form as embedded in token numbers.
func (d ServiceDay) Compact() string {
	return d.day.Format(serviceDayCompactLayout)
}

// IsEqual compares two service days for equality.
func (d ServiceDay) IsEqual(other ServiceDay) bool {
	return d.day.Equal(other.day)
}

// Before reports whether d falls strictly before other.
func (d ServiceDay) Before(other ServiceDay) bool {
	return d.day.Before(other.day)
}
