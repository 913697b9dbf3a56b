package route

import (
	"errors"
	"fmt"
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
)

// ErrRouteIsNotConstructed is returned when a Route instance was not created
// through the NewRoute or RestoreRoute factory methods.
var ErrRouteIsNotConstructed = errors.New("Route must be created via NewRoute or RestoreRoute constructor")

// Route is the aggregate root for an optimized delivery route: the solved
// visiting order over a set of geocoded stops, the optional depot the vehicle
// departs from, and the derived distance and duration metrics.
//
// Route maintains these invariants:
//   - Must have a valid unique identifier
//   - Must have at least one stop; every stop is a valid Coordinate
//   - The stop sequence is a permutation of the optimization input - the
//     depot, when present, is the implicit start and never appears as a stop
//   - Total distance and estimated duration are non-negative
//   - Status transitions follow Optimized -> InProgress -> Completed
type Route struct {
	// id is the unique identifier for the route
	id kernel.UUID

	// stops is the solved visiting order, depot excluded
	stops []kernel.Coordinate

	// depot is the fixed starting coordinate (nil when the route is unanchored)
	depot *kernel.Coordinate

	// totalDistanceKm is the summed great-circle length of the stop sequence
	totalDistanceKm float64

	// estimatedMinutes is the projected time to drive and serve all stops
	estimatedMinutes float64

	// status represents the current state in the route lifecycle
	status Status

	// createdAt records when the route was optimized
	createdAt time.Time

	// isConstructed ensures the route was created via a constructor
	isConstructed bool
}

// NewRoute creates a freshly optimized Route in Optimized status.
//
// Parameters:
//   - id: unique identifier (must be a valid UUID)
//   - stops: the solved visiting order (at least one valid Coordinate)
//   - depot: optional fixed start location (nil for unanchored routes)
//   - totalDistanceKm: total route length in kilometers (>= 0)
//   - estimatedMinutes: estimated completion time in minutes (>= 0)
//
// Returns a validation error if any parameter violates the invariants.
func NewRoute(
	id kernel.UUID,
	stops []kernel.Coordinate,
	depot *kernel.Coordinate,
	totalDistanceKm float64,
	estimatedMinutes float64,
) (*Route, error) {
	route := &Route{
		status:        Optimized,
		createdAt:     time.Now().UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		route.setID(id),
		route.setStops(stops),
		route.setDepot(depot),
		route.setTotalDistanceKm(totalDistanceKm),
		route.setEstimatedMinutes(estimatedMinutes),
	); err != nil {
		return nil, err
	}

	return route, nil
}

// RestoreRoute reconstructs a Route from persisted state, bypassing the
// "fresh route" defaults of NewRoute while still enforcing all invariants.
// Used by repositories when rehydrating aggregates from storage.
func RestoreRoute(
	id kernel.UUID,
	stops []kernel.Coordinate,
	depot *kernel.Coordinate,
	totalDistanceKm float64,
	estimatedMinutes float64,
	status Status,
	createdAt time.Time,
) (*Route, error) {
	route := &Route{
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		route.setID(id),
		route.setStops(stops),
		route.setDepot(depot),
		route.setTotalDistanceKm(totalDistanceKm),
		route.setEstimatedMinutes(estimatedMinutes),
		route.setStatus(status),
	); err != nil {
		return nil, err
	}

	return route, nil
}

// Validate ensures the Route instance was properly constructed through a factory.
// This prevents bypassing validation by directly instantiating the struct.
func (r *Route) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRouteIsNotConstructed
	}

	return nil
}

// IsEqual compares two routes by their unique identifiers.
func (r *Route) IsEqual(other *Route) bool {
	return other != nil && r.id.IsEqual(other.id)
}

// ID returns the route's unique identifier.
func (r *Route) ID() kernel.UUID {
	return r.id
}

// Stops returns the solved visiting order, depot excluded.
// A copy is returned so callers cannot mutate the aggregate's sequence.
func (r *Route) Stops() []kernel.Coordinate {
	stops := make([]kernel.Coordinate, len(r.stops))
	copy(stops, r.stops)
	return stops
}

// StopCount returns the number of stops in the visiting order.
func (r *Route) StopCount() int {
	return len(r.stops)
}

// Depot returns the fixed starting coordinate, or nil for unanchored routes.
func (r *Route) Depot() *kernel.Coordinate {
	return r.depot
}

// TotalDistanceKm returns the total route length in kilometers.
func (r *Route) TotalDistanceKm() float64 {
	return r.totalDistanceKm
}

// EstimatedMinutes returns the estimated completion time in minutes.
func (r *Route) EstimatedMinutes() float64 {
	return r.estimatedMinutes
}

// Status returns the current status of the route.
func (r *Route) Status() Status {
	return r.status
}

// CreatedAt returns when the route was optimized.
func (r *Route) CreatedAt() time.Time {
	return r.createdAt
}

// Start marks the route as being executed by a delivery.
//
// Business rules:
//   - The route must be in Optimized status
//
// After a successful call the route's status is InProgress.
func (r *Route) Start() error {
	newStatus, err := r.status.Start()
	if err != nil {
		return err
	}

	r.status = newStatus
	return nil
}

// Complete marks the route's delivery as finished.
//
// Business rules:
//   - The route must be in InProgress status
//   - Completed is a final state with no further transitions
func (r *Route) Complete() error {
	newStatus, err := r.status.Complete()
	if err != nil {
		return err
	}

	r.status = newStatus
	return nil
}

// setID validates and sets the route's unique identifier.
// This is a private method used only during construction.
func (r *Route) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	r.id = id
	return nil
}

// setStops validates and sets the visiting order.
// Each stop must be a properly constructed Coordinate.
func (r *Route) setStops(stops []kernel.Coordinate) error {
	if len(stops) == 0 {
		return errs.NewValueIsRequiredError("stops")
	}

	for i, stop := range stops {
		if err := stop.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(
				fmt.Sprintf("stops[%d]", i), err)
		}
	}

	r.stops = make([]kernel.Coordinate, len(stops))
	copy(r.stops, stops)
	return nil
}

// setDepot validates and sets the optional depot coordinate.
func (r *Route) setDepot(depot *kernel.Coordinate) error {
	if depot == nil {
		return nil
	}

	if err := depot.Validate(); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("depot", err)
	}

	d := *depot
	r.depot = &d
	return nil
}

// setTotalDistanceKm validates and sets the total route length.
func (r *Route) setTotalDistanceKm(km float64) error {
	if km < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"totalDistanceKm", fmt.Errorf("%f is negative", km))
	}
	r.totalDistanceKm = km
	return nil
}

// setEstimatedMinutes validates and sets the estimated completion time.
func (r *Route) setEstimatedMinutes(minutes float64) error {
	if minutes < 0 {
		return errs.NewValueIsInvalidErrorWithCause(
			"estimatedMinutes", fmt.Errorf("%f is negative", minutes))
	}
	r.estimatedMinutes = minutes
	return nil
}

// setStatus validates and sets the status during restoration.
func (r *Route) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	r.status = status
	return nil
}
