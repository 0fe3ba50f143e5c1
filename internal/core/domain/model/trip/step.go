package trip

import (
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// Step is the position of a trip inside its fulfillment workflow. Steps only
// move forward via explicit actor actions; the single exception is an explicit
// cancellation which forces the step back to StepNone.
//
//	0 StepNone                  offer extended, nothing accepted yet (also the cancelled position)
//	1 StepAccepted              driver accepted the offer
//	2 StepArrivedOrigin         vehicle arrived at the origin station
//	3 StepOriginTransfer        origin transfer record opened, readings being captured
//	4 StepOriginConfirmed       origin operator confirmed, bay released
//	5 StepDestinationTransfer   arrived at destination, destination transfer opened
//	6 StepDestinationConfirmed  destination operator confirmed, bay released
//	7 StepCompleted             trip finished, token retires
type Step int

const (
	StepNone                 Step = 0
	StepAccepted             Step = 1
	StepArrivedOrigin        Step = 2
	StepOriginTransfer       Step = 3
	StepOriginConfirmed      Step = 4
	StepDestinationTransfer  Step = 5
	StepDestinationConfirmed Step = 6
	StepCompleted            Step = 7
)

// getStepStrings returns a map of Step values to their string representations.
func getStepStrings() map[Step]string {
	return map[Step]string{
		StepNone:                 "None",
		StepAccepted:             "Accepted",
		StepArrivedOrigin:        "ArrivedOrigin",
		StepOriginTransfer:       "OriginTransfer",
		StepOriginConfirmed:      "OriginConfirmed",
		StepDestinationTransfer:  "DestinationTransfer",
		StepDestinationConfirmed: "DestinationConfirmed",
		StepCompleted:            "Completed",
	}
}

// Validate checks if the Step lies inside [StepNone, StepCompleted].
func (s Step) Validate() error {
	if s < StepNone || s > StepCompleted {
		return errs.NewValueIsOutOfRangeError("step", int(s), int(StepNone), int(StepCompleted))
	}
	return nil
}

// String returns the human-readable name of the step.
// This method implements the fmt.Stringer interface.
func (s Step) String() string {
	if str, ok := getStepStrings()[s]; ok {
		return str
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

// IsMidTransfer reports whether a transfer record is open at this step.
// Steps 3 and 5 hold a transfer bay at their station.
func (s Step) IsMidTransfer() bool {
	return s == StepOriginTransfer || s == StepDestinationTransfer
}

// OpensTransfer reports whether reaching this step opens a transfer record.
func (s Step) OpensTransfer() bool {
	return s.IsMidTransfer()
}

// ConfirmsTransfer reports whether reaching this step closes a transfer
// record via operator confirmation, releasing the bay it held.
func (s Step) ConfirmsTransfer() bool {
	return s == StepOriginConfirmed || s == StepDestinationConfirmed
}
