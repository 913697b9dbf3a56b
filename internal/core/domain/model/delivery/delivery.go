package delivery

import (
	"errors"
	"sort"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
)

// ErrDeliveryIsNotConstructed is returned when a Delivery instance was not
// created through the NewDelivery or RestoreDelivery factory methods.
var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery or RestoreDelivery constructor")

// ErrDeliveryAlreadyCompleted is returned when any mutation is attempted on
// a delivery that has reached the terminal Completed status.
var ErrDeliveryAlreadyCompleted = errors.New("delivery is already completed")

// Delivery is the aggregate root for a single execution of an optimized
// route: the courier's live position, the set of stops already served, and
// the run's lifecycle status.
//
// Delivery maintains these invariants:
//   - Must have a valid unique identifier and owning route identifier
//   - At most one delivery exists per route (enforced by the start command)
//   - Completed stop indexes are within [0, stopCount) and only ever grow
//   - Once Completed, no mutation is accepted
type Delivery struct {
	// id is the unique identifier for the delivery
	id kernel.UUID

	// routeID identifies the route this delivery executes
	routeID kernel.UUID

	// stopCount is the number of stops on the owning route, bounding
	// the valid completed-stop indexes
	stopCount int

	// status represents the current state in the delivery lifecycle
	status Status

	// currentLocation is the courier's last reported position
	// (nil until the first update arrives)
	currentLocation *kernel.Coordinate

	// locationUpdatedAt records when currentLocation was last reported
	locationUpdatedAt time.Time

	// completedStops is the set of served stop indexes
	completedStops map[int]struct{}

	// startedAt records when the delivery run began
	startedAt time.Time

	// completedAt records when the run finished (nil while in progress)
	completedAt *time.Time

	// isConstructed ensures the delivery was created via a constructor
	isConstructed bool
}

// NewDelivery creates a fresh Delivery in InProgress status for the given
// route.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - routeID: the route being executed (must be a valid UUID)
//   - stopCount: number of stops on the route (> 0)
//
// Returns a validation error if any parameter violates the invariants.
func NewDelivery(id kernel.UUID, routeID kernel.UUID, stopCount int) (*Delivery, error) {
	delivery := &Delivery{
		status:         InProgress,
		completedStops: make(map[int]struct{}),
		startedAt:      time.Now().UTC(),
		isConstructed:  true,
	}

	if err := errors.Join(
		delivery.setID(id),
		delivery.setRouteID(routeID),
		delivery.setStopCount(stopCount),
	); err != nil {
		return nil, err
	}

	return delivery, nil
}

// RestoreDelivery reconstructs a Delivery from persisted state, bypassing
// the "fresh run" defaults of NewDelivery while still enforcing all
// invariants. Used by repositories when rehydrating aggregates from storage.
func RestoreDelivery(
	id kernel.UUID,
	routeID kernel.UUID,
	stopCount int,
	status Status,
	currentLocation *kernel.Coordinate,
	locationUpdatedAt time.Time,
	completedStops []int,
	startedAt time.Time,
	completedAt *time.Time,
) (*Delivery, error) {
	delivery := &Delivery{
		locationUpdatedAt: locationUpdatedAt,
		completedStops:    make(map[int]struct{}, len(completedStops)),
		startedAt:         startedAt,
		isConstructed:     true,
	}

	if err := errors.Join(
		delivery.setID(id),
		delivery.setRouteID(routeID),
		delivery.setStopCount(stopCount),
		delivery.setStatus(status),
		delivery.setCurrentLocation(currentLocation),
	); err != nil {
		return nil, err
	}

	for _, idx := range completedStops {
		if idx < 0 || idx >= delivery.stopCount {
			return nil, errs.NewValueIsOutOfRangeError(
				"completedStops", idx, 0, delivery.stopCount-1)
		}
		delivery.completedStops[idx] = struct{}{}
	}

	if completedAt != nil {
		at := *completedAt
		delivery.completedAt = &at
	}

	return delivery, nil
}

// Validate ensures the Delivery instance was properly constructed through a
// factory. This prevents bypassing validation by directly instantiating the
// struct.
func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}

	return nil
}

// IsEqual compares two deliveries by their unique identifiers.
func (d *Delivery) IsEqual(other *Delivery) bool {
	return other != nil && d.id.IsEqual(other.id)
}

// ID returns the delivery's unique identifier.
func (d *Delivery) ID() kernel.UUID {
	return d.id
}

// RouteID returns the identifier of the route being executed.
func (d *Delivery) RouteID() kernel.UUID {
	return d.routeID
}

// StopCount returns the number of stops on the owning route.
func (d *Delivery) StopCount() int {
	return d.stopCount
}

// Status returns the current status of the delivery.
func (d *Delivery) Status() Status {
	return d.status
}

// CurrentLocation returns the courier's last reported position, or nil when
// no position has been reported yet.
func (d *Delivery) CurrentLocation() *kernel.Coordinate {
	if d.currentLocation == nil {
		return nil
	}
	loc := *d.currentLocation
	return &loc
}

// LocationUpdatedAt returns when the current location was last reported.
// Zero until the first update arrives.
func (d *Delivery) LocationUpdatedAt() time.Time {
	return d.locationUpdatedAt
}

// CompletedStops returns the served stop indexes in ascending order.
// A copy is returned so callers cannot mutate the aggregate's set.
func (d *Delivery) CompletedStops() []int {
	stops := make([]int, 0, len(d.completedStops))
	for idx := range d.completedStops {
		stops = append(stops, idx)
	}
	sort.Ints(stops)
	return stops
}

// IsStopCompleted reports whether the given stop index has been served.
func (d *Delivery) IsStopCompleted(idx int) bool {
	_, ok := d.completedStops[idx]
	return ok
}

// StartedAt returns when the delivery run began.
func (d *Delivery) StartedAt() time.Time {
	return d.startedAt
}

// CompletedAt returns when the run finished, or nil while in progress.
func (d *Delivery) CompletedAt() *time.Time {
	if d.completedAt == nil {
		return nil
	}
	at := *d.completedAt
	return &at
}

// UpdateLocation records the courier's position. The latest report wins;
// the aggregate keeps no position history.
//
// Business rules:
//   - The delivery must not be Completed
//   - The location must be a valid Coordinate
//
// A zero reported-at timestamp is replaced with the current time.
func (d *Delivery) UpdateLocation(location kernel.Coordinate, reportedAt time.Time) error {
	if d.status.IsTerminal() {
		return ErrDeliveryAlreadyCompleted
	}

	if err := location.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("location", err)
	}

	if reportedAt.IsZero() {
		reportedAt = time.Now().UTC()
	}

	d.currentLocation = &location
	d.locationUpdatedAt = reportedAt
	return nil
}

// CompleteStop marks the stop at the given index as served.
//
// Business rules:
//   - The delivery must not be Completed
//   - The index must be within [0, stopCount)
//   - Re-completing an already served stop is a no-op, not an error
func (d *Delivery) CompleteStop(idx int) error {
	if d.status.IsTerminal() {
		return ErrDeliveryAlreadyCompleted
	}

	if idx < 0 || idx >= d.stopCount {
		return errs.NewValueIsOutOfRangeError("stopIndex", idx, 0, d.stopCount-1)
	}

	d.completedStops[idx] = struct{}{}
	return nil
}

// Complete marks the delivery run as finished.
//
// Business rules:
//   - The delivery must be in InProgress status
//   - Completed is a final state; a repeat call is rejected
//
// Completing a run does not require every stop to have been served.
func (d *Delivery) Complete() error {
	if d.status.IsTerminal() {
		return ErrDeliveryAlreadyCompleted
	}

	newStatus, err := d.status.Complete()
	if err != nil {
		return err
	}

	d.status = newStatus
	now := time.Now().UTC()
	d.completedAt = &now
	return nil
}

// setID validates and sets the delivery's unique identifier.
// This is a private method used only during construction.
func (d *Delivery) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	d.id = id
	return nil
}

// setRouteID validates and sets the owning route identifier.
func (d *Delivery) setRouteID(routeID kernel.UUID) error {
	if err := routeID.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("routeID", err)
	}
	d.routeID = routeID
	return nil
}

// setStopCount validates and sets the completed-stop index bound.
func (d *Delivery) setStopCount(stopCount int) error {
	if stopCount <= 0 {
		return errs.NewValueIsOutOfRangeError("stopCount", stopCount, 1, nil)
	}
	d.stopCount = stopCount
	return nil
}

// setStatus validates and sets the status during restoration.
func (d *Delivery) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	d.status = status
	return nil
}

// setCurrentLocation validates and sets the optional last reported position.
func (d *Delivery) setCurrentLocation(location *kernel.Coordinate) error {
	if location == nil {
		return nil
	}

	if err := location.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("currentLocation", err)
	}

	loc := *location
	d.currentLocation = &loc
	return nil
}
