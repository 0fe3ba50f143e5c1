package transfer

import (
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// Point identifies which end of the trip a transfer record belongs to.
// A trip produces at most one record per point.
type Point int

const (
	// PointUnknown is the zero value and is never valid for a persisted record.
	PointUnknown Point = iota

	// PointOrigin is the loading transfer at the trip's origin station.
	PointOrigin

	// PointDestination is the unloading transfer at the trip's destination station.
	PointDestination
)

// getPointStrings returns a map of Point values to their persisted string
// representations.
func getPointStrings() map[Point]string {
	return map[Point]string{
		PointOrigin:      "ORIGIN",
		PointDestination: "DESTINATION",
	}
}

// PointFromString parses the persisted form of a transfer point.
// It is used when reconstructing records from storage.
func PointFromString(s string) (Point, error) {
	for point, str := range getPointStrings() {
		if str == s {
			return point, nil
		}
	}
	return PointUnknown, errs.NewValueIsInvalidErrorWithCause("point",
		fmt.Errorf("%q is not a valid transfer point", s))
}

// Validate checks if the Point is one of the defined transfer points.
func (p Point) Validate() error {
	if _, ok := getPointStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("point is invalid",
			fmt.Errorf("%d is not a valid transfer point", p))
	}
	return nil
}

// String returns the persisted form, e.g. "ORIGIN".
// This method implements the fmt.Stringer interface.
func (p Point) String() string {
	if str, ok := getPointStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}
