package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
	"routeplanner/internal/pkg/guard"
)

var ErrCompleteStopCommandIsNotConstructed = errors.New(
	"CompleteStopCommand must be created via NewCompleteStopCommand constructor",
)

// CompleteStopCommand represents a report that the stop at the given index
// of the delivery's route has been served.
type CompleteStopCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	stopIndex  int

	guard guard.ConstructorGuard
}

// NewCompleteStopCommand creates a command to mark a stop as served.
// The index must be non-negative; the upper bound is enforced by the
// delivery aggregate, which knows its route's stop count.
func NewCompleteStopCommand(deliveryID kernel.UUID, stopIndex int) (CompleteStopCommand, error) {
	cmd := CompleteStopCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setStopIndex(stopIndex),
	); err != nil {
		return CompleteStopCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCompleteStopCommandIsNotConstructed if validation fails.
func (c CompleteStopCommand) Validate() error {
	return c.guard.Validate(ErrCompleteStopCommandIsNotConstructed)
}

// DeliveryID returns the identifier of the delivery being tracked.
func (c CompleteStopCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// StopIndex returns the zero-based index of the served stop.
func (c CompleteStopCommand) StopIndex() int {
	return c.stopIndex
}

func (c *CompleteStopCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *CompleteStopCommand) setStopIndex(stopIndex int) error {
	if stopIndex < 0 {
		return errs.NewValueIsOutOfRangeError("stopIndex", stopIndex, 0, nil)
	}

	c.stopIndex = stopIndex
	return nil
}
