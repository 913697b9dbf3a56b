package commands

import (
	"errors"
	"strings"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/guard"
)

var (
	ErrOptimizeRouteCommandIsNotConstructed = errors.New(
		"OptimizeRouteCommand must be created via NewOptimizeRouteCommand constructor",
	)
	ErrNotEnoughAddresses = errors.New("at least two addresses are required")
	ErrAddressIsEmpty     = errors.New("addresses must not be blank")
)

// OptimizeRouteCommand represents a request to compute an optimized visiting
// order over a set of delivery addresses, optionally anchored at a start
// location. The addresses are geocoded, solved, and persisted as a Route
// under the given identifier.
type OptimizeRouteCommand struct { //nolint:recvcheck //using for validation
	routeID       kernel.UUID
	addresses     []string
	startLocation string

	guard guard.ConstructorGuard
}

// NewOptimizeRouteCommand creates a command to optimize a route.
// Requires a valid route ID and at least two non-blank addresses; the start
// location is optional and may be empty. Returns an error if any validation
// fails, before any geocoding or solving happens.
func NewOptimizeRouteCommand(
	routeID kernel.UUID,
	addresses []string,
	startLocation string,
) (OptimizeRouteCommand, error) {
	cmd := OptimizeRouteCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setRouteID(routeID),
		cmd.setAddresses(addresses),
		cmd.setStartLocation(startLocation),
	); err != nil {
		return OptimizeRouteCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrOptimizeRouteCommandIsNotConstructed if validation fails.
func (c OptimizeRouteCommand) Validate() error {
	return c.guard.Validate(ErrOptimizeRouteCommandIsNotConstructed)
}

// RouteID returns the identifier the optimized route will be stored under.
func (c OptimizeRouteCommand) RouteID() kernel.UUID {
	return c.routeID
}

// Addresses returns the delivery addresses to visit.
func (c OptimizeRouteCommand) Addresses() []string {
	addresses := make([]string, len(c.addresses))
	copy(addresses, c.addresses)
	return addresses
}

// StartLocation returns the optional depot address, empty when the route is
// unanchored.
func (c OptimizeRouteCommand) StartLocation() string {
	return c.startLocation
}

func (c *OptimizeRouteCommand) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return err
	}

	c.routeID = routeID
	return nil
}

func (c *OptimizeRouteCommand) setAddresses(addresses []string) error {
	if len(addresses) < 2 {
		return ErrNotEnoughAddresses
	}

	for _, address := range addresses {
		if strings.TrimSpace(address) == "" {
			return ErrAddressIsEmpty
		}
	}

	c.addresses = make([]string, len(addresses))
	copy(c.addresses, addresses)
	return nil
}

func (c *OptimizeRouteCommand) setStartLocation(startLocation string) error {
	c.startLocation = strings.TrimSpace(startLocation)
	return nil
}
