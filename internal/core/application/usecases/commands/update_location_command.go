package commands

import (
	"errors"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var ErrUpdateLocationCommandIsNotConstructed = errors.New(
	"UpdateLocationCommand must be created via NewUpdateLocationCommand constructor",
)

// UpdateLocationCommand represents a courier position report for an active
// delivery. The latest report wins; no position history is kept.
type UpdateLocationCommand struct { //nolint:recvcheck //using for validation
	deliveryID kernel.UUID
	location   kernel.Coordinate
	reportedAt time.Time

	guard guard.ConstructorGuard
}

// NewUpdateLocationCommand creates a command to record a position report.
// A zero reportedAt is replaced with the current time by the aggregate.
func NewUpdateLocationCommand(
	deliveryID kernel.UUID,
	location kernel.Coordinate,
	reportedAt time.Time,
) (UpdateLocationCommand, error) {
	cmd := UpdateLocationCommand{
		reportedAt: reportedAt,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setDeliveryID(deliveryID),
		cmd.setLocation(location),
	); err != nil {
		return UpdateLocationCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrUpdateLocationCommandIsNotConstructed if validation fails.
func (c UpdateLocationCommand) Validate() error {
	return c.guard.Validate(ErrUpdateLocationCommandIsNotConstructed)
}

// DeliveryID returns the identifier of the delivery being tracked.
func (c UpdateLocationCommand) DeliveryID() kernel.UUID {
	return c.deliveryID
}

// Location returns the reported position.
func (c UpdateLocationCommand) Location() kernel.Coordinate {
	return c.location
}

// ReportedAt returns when the position was reported.
func (c UpdateLocationCommand) ReportedAt() time.Time {
	return c.reportedAt
}

func (c *UpdateLocationCommand) setDeliveryID(deliveryID kernel.UUID) error {
	if err := deliveryID.Validate(); err != nil {
		return err
	}

	c.deliveryID = deliveryID
	return nil
}

func (c *UpdateLocationCommand) setLocation(location kernel.Coordinate) error {
	if err := location.Validate(); err != nil {
		return err
	}

	c.location = location
	return nil
}
