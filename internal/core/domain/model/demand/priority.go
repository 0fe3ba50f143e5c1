package demand

import (
	"fmt"

	"github.com/npcoderes/GTS-sub002/internal/pkg/errs"
)

// Priority is the matching tier of a demand. Lower numeric values are served
// first: the matcher orders the pool by priority ascending, then approval
// time, then id. The numeric values are persisted, so they are part of the
// storage contract.
type Priority int

const (
	// PriorityUnknown represents an invalid or undefined priority.
	PriorityUnknown Priority = 0

	// PriorityUrgent is served before all other tiers.
	PriorityUrgent Priority = 1

	// PriorityHigh is served after urgent demands.
	PriorityHigh Priority = 2

	// PriorityNormal is the default tier.
	PriorityNormal Priority = 3

	// PriorityLow is served last.
	PriorityLow Priority = 4
)

// getPriorityStrings returns a map of Priority values to their string representations.
func getPriorityStrings() map[Priority]string {
	return map[Priority]string{
		PriorityUrgent: "URGENT",
		PriorityHigh:   "HIGH",
		PriorityNormal: "NORMAL",
		PriorityLow:    "LOW",
	}
}

// PriorityFromString parses the persisted form of a priority tier.
func PriorityFromString(s string) (Priority, error) {
	for priority, str := range getPriorityStrings() {
		if str == s {
			return priority, nil
		}
	}
	return PriorityUnknown, errs.NewValueIsInvalidErrorWithCause("priority",
		fmt.Errorf("%q is not a valid priority tier", s))
}

// Validate checks if the Priority is one of the defined tiers.
func (p Priority) Validate() error {
	if _, ok := getPriorityStrings()[p]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("priority is invalid",
			fmt.Errorf("%d is not a valid priority tier", p))
	}
	return nil
}

// String returns the persisted form, e.g. "URGENT".
// This method implements the fmt.Stringer interface.
func (p Priority) String() string {
	if str, ok := getPriorityStrings()[p]; ok {
		return str
	}
	return "UNKNOWN"
}
