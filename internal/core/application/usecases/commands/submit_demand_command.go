package commands

import (
	"errors"

	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/demand"
	"github.com/npcoderes/GTS-sub002/internal/core/domain/model/kernel"
	"github.com/npcoderes/GTS-sub002/internal/pkg/guard"
)

var (
	ErrSubmitDemandCommandIsNotConstructed = errors.New(
		"SubmitDemandCommand must be created via NewSubmitDemandCommand constructor",
	)
	ErrQuantityIsInvalid = errors.New("quantity must be greater than 0")
)

// SubmitDemandCommand represents a request to move a quantity between two
// stations. Submitted demand waits in Pending until an approver admits it to
// the matching pool.
//
// Example:
//
//	demandID := kernel.NewUUID()
//	cmd, err := NewSubmitDemandCommand(demandID, origin, destination, 12, demand.PriorityNormal)
//	if err != nil {
//	    return fmt.Errorf("invalid demand: %w", err)
//	}
//
//	handler := NewSubmitDemandCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to submit demand: %w", err)
//	}
type SubmitDemandCommand struct { //nolint:recvcheck //using for validation
	demandID    kernel.UUID
	origin      kernel.StationCode
	destination kernel.StationCode
	quantity    int
	priority    demand.Priority

	guard guard.ConstructorGuard
}

// NewSubmitDemandCommand creates a command to submit a transport demand.
// Validates the identifier, both station codes, the quantity and the
// priority tier. Returns an error if any validation fails.
func NewSubmitDemandCommand(
	demandID kernel.UUID,
	origin kernel.StationCode,
	destination kernel.StationCode,
	quantity int,
	priority demand.Priority,
) (SubmitDemandCommand, error) {
	demandCommand := SubmitDemandCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		demandCommand.setDemandID(demandID),
		demandCommand.setOrigin(origin),
		demandCommand.setDestination(destination),
		demandCommand.setQuantity(quantity),
		demandCommand.setPriority(priority),
	); err != nil {
		return SubmitDemandCommand{}, err
	}

	return demandCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrSubmitDemandCommandIsNotConstructed if validation fails.
func (c SubmitDemandCommand) Validate() error {
	return c.guard.Validate(ErrSubmitDemandCommandIsNotConstructed)
}

// DemandID returns the unique identifier for the demand.
func (c SubmitDemandCommand) DemandID() kernel.UUID {
	return c.demandID
}

// Origin returns the station the quantity moves from.
func (c SubmitDemandCommand) Origin() kernel.StationCode {
	return c.origin
}

// Destination returns the station the quantity moves to.
func (c SubmitDemandCommand) Destination() kernel.StationCode {
	return c.destination
}

// Quantity returns the amount to move.
func (c SubmitDemandCommand) Quantity() int {
	return c.quantity
}

// Priority returns the matching tier.
func (c SubmitDemandCommand) Priority() demand.Priority {
	return c.priority
}

func (c *SubmitDemandCommand) setDemandID(demandID kernel.UUID) error {
	if err := demandID.Validate(); err != nil {
		return err
	}

	c.demandID = demandID
	return nil
}

func (c *SubmitDemandCommand) setOrigin(origin kernel.StationCode) error {
	if err := origin.Validate(); err != nil {
		return err
	}

	c.origin = origin
	return nil
}

func (c *SubmitDemandCommand) setDestination(destination kernel.StationCode) error {
	if err := destination.Validate(); err != nil {
		return err
	}

	c.destination = destination
	return nil
}

func (c *SubmitDemandCommand) setQuantity(quantity int) error {
	if quantity <= 0 {
		return ErrQuantityIsInvalid
	}

	c.quantity = quantity
	return nil
}

func (c *SubmitDemandCommand) setPriority(priority demand.Priority) error {
	if err := priority.Validate(); err != nil {
		return err
	}

	c.priority = priority
	return nil
}
