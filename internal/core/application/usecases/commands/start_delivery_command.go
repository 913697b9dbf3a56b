package commands

import (
	"errors"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrStartDeliveryCommandIsNotConstructed = errors.New(
	"StartDeliveryCommand must be created via NewStartDeliveryCommand constructor",
)

// ErrDeliveryAlreadyStarted is returned when the route already has a
// delivery executing it. At most one delivery exists per route.
var ErrDeliveryAlreadyStarted = errors.New("route already has a delivery in progress")

// StartDeliveryCommand represents a request to begin executing an optimized
// route: a new delivery is created and the route moves to in-progress.
type StartDeliveryCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	routeID    kernel.UUID

	guard guard.ConstructorGuard
}

// NewStartDeliveryCommand creates a command to start a delivery for the
// given route under the given delivery identifier.
func NewStartDeliveryCommand(deliveryID kernel.UUID, routeID kernel.UUID) (StartDeliveryCommand, error) {
	cmd := StartDeliveryCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setRouteID(routeID),
	); err != nil {
		return StartDeliveryCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrStartDeliveryCommandIsNotConstructed if validation fails.
func (c StartDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrStartDeliveryCommandIsNotConstructed)
}

// DeliveryID returns the identifier the new delivery will be stored under.
func (c StartDeliveryCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// RouteID returns the identifier of the route to execute.
func (c StartDeliveryCommand) RouteID() kernel.UUID {
	return c.routeID
}

func (c *StartDeliveryCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *StartDeliveryCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}
