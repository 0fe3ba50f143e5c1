package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/trip"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrAdvanceStepCommandIsNotConstructed = errors.New(
		"AdvanceStepCommand must be created via NewAdvanceStepCommand constructor",
	)
	ErrActorIsRequired = errors.New("actor is required")
)

// AdvanceStepCommand syncs a trip's workflow position with what happened in
// the field. The payload is a partial snapshot: only the fields the client
// captured since its last sync need to be present. Clients may resend the
// same step or an older one after reconnecting; the handler merges data and
// never moves the trip backwards.
//
// Example:
//
//	payload := trip.Snapshot{OriginPreReading: &reading}
//	cmd, err := NewAdvanceStepCommand(tripID, "operator:ivan", trip.StepOriginTransfer, payload)
//	if err != nil {
//	    return fmt.Errorf("invalid step sync: %w", err)
//	}
//
//	handler := NewAdvanceStepCommandHandler(uowFactory, bayCapacity)
//	step, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("step sync rejected: %w", err)
//	}
//	fmt.Printf("Trip is now at %s", step)
type AdvanceStepCommand struct { //nolint:recvcheck //using for validation
	tripID  kernel.UUID
	actor   string
	newStep trip.Step
	payload trip.Snapshot

	guard guard.ConstructorGuard
}

// NewAdvanceStepCommand creates a command to sync a trip's step.
// Validates the trip identifier, the acting party and the step range.
// The payload carries whatever partial data the client collected.
func NewAdvanceStepCommand(
	tripID kernel.UUID,
	actor string,
	newStep trip.Step,
	payload trip.Snapshot,
) (AdvanceStepCommand, error) {
	stepCommand := AdvanceStepCommand{
		payload: payload,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		stepCommand.setTripID(tripID),
		stepCommand.setActor(actor),
		stepCommand.setNewStep(newStep),
	); err != nil {
		return AdvanceStepCommand{}, err
	}

	return stepCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrAdvanceStepCommandIsNotConstructed if validation fails.
func (c AdvanceStepCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStepCommandIsNotConstructed)
}

// TripID returns the trip being synced.
func (c AdvanceStepCommand) TripID() kernel.UUID {
	return c.tripID
}

// Actor returns who performed the step, recorded on transfer confirmations.
func (c AdvanceStepCommand) Actor() string {
	return c.actor
}

// NewStep returns the step the client reports.
func (c AdvanceStepCommand) NewStep() trip.Step {
	return c.newStep
}

// Payload returns the partial snapshot collected by the client.
func (c AdvanceStepCommand) Payload() trip.Snapshot {
	return c.payload
}

func (c *AdvanceStepCommand) setTripID(tripID kernel.UUID) error {
	if err := tripID.Validate(); err != nil {
		return err
	}

	c.tripID = tripID
	return nil
}

func (c *AdvanceStepCommand) setActor(actor string) error {
	if actor == "" {
		return ErrActorIsRequired
	}

	c.actor = actor
	return nil
}

func (c *AdvanceStepCommand) setNewStep(newStep trip.Step) error {
	if err := newStep.Validate(); err != nil {
		return err
	}

	c.newStep = newStep
	return nil
}
