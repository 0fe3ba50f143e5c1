package commands

import "time"

// Outbox event types produced by command handlers. The notifier publishes
// each type on its own channel.
const (
	EventTokenAllocated    = "token.allocated"
	EventAssignmentExpired = "assignment.expired"
	EventTripStepAdvanced  = "trip.step.advanced"
)

// TokenAllocatedEvent announces that the matcher paired a token with a demand
// and extended a trip offer to the driver.
type TokenAllocatedEvent struct {
	TokenID     string    `json:"tokenId"`
	TokenNo     string    `json:"tokenNo"`
	DriverID    string    `json:"driverId"`
	VehicleID   string    `json:"vehicleId"`
	DemandID    string    `json:"demandId"`
	TripID      string    `json:"tripId"`
	Station     string    `json:"station"`
	AllocatedAt time.Time `json:"allocatedAt"`
}

// AssignmentExpiredEvent announces that the sweeper reclaimed a stuck
// assignment: the demand is back in the pool and the token is retired.
type AssignmentExpiredEvent struct {
	TokenID   string    `json:"tokenId"`
	DemandID  string    `json:"demandId"`
	TripID    string    `json:"tripId"`
	DriverID  string    `json:"driverId"`
	Station   string    `json:"station"`
	Reason    string    `json:"reason"`
	ExpiredAt time.Time `json:"expiredAt"`
}

// TripStepAdvancedEvent announces forward progress of a trip's workflow.
// Repeated syncs that only merge data do not produce an event.
type TripStepAdvancedEvent struct {
	TripID     string    `json:"tripId"`
	DriverID   string    `json:"driverId"`
	Step       int       `json:"step"`
	StepName   string    `json:"stepName"`
	AdvancedAt time.Time `json:"advancedAt"`
}
