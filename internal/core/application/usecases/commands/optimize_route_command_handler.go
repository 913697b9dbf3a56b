package commands

import (
	"context"
	"runtime"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/domain/services"
	"routeplanner/internal/core/ports"

	"golang.org/x/sync/semaphore"
)

// OptimizeRouteCommandHandler turns a set of addresses into a persisted,
// near-optimally ordered Route: geocode, build the cost matrix, solve,
// derive metrics, store.
//
// Concurrent solves are bounded by a semaphore sized to the available
// cores, so a burst of optimization requests queues instead of oversubscribing
// the CPU; every request still only blocks its own caller. Solver
// non-convergence is never an error: the route falls back to the original
// input order.
type OptimizeRouteCommandHandler struct {
	uowFactory RouteUoWFactory
	geocoder   ports.Geocoder
	solver     services.RouteSolver
	metrics    services.RouteMetrics
	solveSlots *semaphore.Weighted
}

// NewOptimizeRouteCommandHandler creates a handler for route optimization.
// maxConcurrentSolves bounds simultaneous solver runs; a non-positive value
// sizes the bound to runtime.NumCPU().
func NewOptimizeRouteCommandHandler(
	uowFactory RouteUoWFactory,
	geocoder ports.Geocoder,
	solver services.RouteSolver,
	metrics services.RouteMetrics,
	maxConcurrentSolves int,
) OptimizeRouteCommandHandler {
	if maxConcurrentSolves <= 0 {
		maxConcurrentSolves = runtime.NumCPU()
	}
	return OptimizeRouteCommandHandler{
		uowFactory: uowFactory,
		geocoder:   geocoder,
		solver:     solver,
		metrics:    metrics,
		solveSlots: semaphore.NewWeighted(int64(maxConcurrentSolves)),
	}
}

// Handle processes the optimization command and persists the resulting route.
// Geocoding failures surface with the offending address; the solver deadline
// degrades to the input order instead of failing.
func (h *OptimizeRouteCommandHandler) Handle(ctx context.Context, cmd OptimizeRouteCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	stops, depot, err := h.resolveAddresses(ctx, cmd)
	if err != nil {
		return err
	}

	orderedStops, err := h.solveOrder(ctx, stops, depot)
	if err != nil {
		return err
	}

	totalKm, estimatedMinutes, err := h.deriveMetrics(orderedStops, depot)
	if err != nil {
		return err
	}

	aggregate, err := route.NewRoute(cmd.RouteID(), orderedStops, depot, totalKm, estimatedMinutes)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.RouteRepository().Add(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// resolveAddresses geocodes the stop addresses and the optional start
// location. A resolution failure is returned as an
// ports.AddressNotResolvedError naming the address.
func (h *OptimizeRouteCommandHandler) resolveAddresses(
	ctx context.Context,
	cmd OptimizeRouteCommand,
) ([]kernel.Coordinate, *kernel.Coordinate, error) {
	addresses := cmd.Addresses()
	stops := make([]kernel.Coordinate, 0, len(addresses))
	for _, address := range addresses {
		coordinate, err := h.geocoder.Resolve(ctx, address)
		if err != nil {
			return nil, nil, err
		}
		stops = append(stops, coordinate)
	}

	var depot *kernel.Coordinate
	if start := cmd.StartLocation(); start != "" {
		coordinate, err := h.geocoder.Resolve(ctx, start)
		if err != nil {
			return nil, nil, err
		}
		depot = &coordinate
	}

	return stops, depot, nil
}

// solveOrder runs the bounded solver and reorders the stops accordingly.
// When the solver reports failure the stops keep their input order.
func (h *OptimizeRouteCommandHandler) solveOrder(
	ctx context.Context,
	stops []kernel.Coordinate,
	depot *kernel.Coordinate,
) ([]kernel.Coordinate, error) {
	matrix, err := services.BuildCostMatrix(stops, depot)
	if err != nil {
		return nil, err
	}

	if err = h.solveSlots.Acquire(ctx, 1); err != nil {
		return nil, err
	}
	order, solved := h.solver.Solve(ctx, matrix, depot != nil)
	h.solveSlots.Release(1)

	if !solved {
		return stops, nil
	}

	orderedStops := make([]kernel.Coordinate, 0, len(stops))
	for _, idx := range order {
		orderedStops = append(orderedStops, stops[idx])
	}
	return orderedStops, nil
}

// deriveMetrics computes the driven distance, depot leg included, and the
// estimated completion time for the solved order.
func (h *OptimizeRouteCommandHandler) deriveMetrics(
	orderedStops []kernel.Coordinate,
	depot *kernel.Coordinate,
) (float64, float64, error) {
	path := orderedStops
	if depot != nil {
		path = append([]kernel.Coordinate{*depot}, orderedStops...)
	}

	totalKm, err := h.metrics.TotalDistance(path)
	if err != nil {
		return 0, 0, err
	}

	estimatedMinutes, err := h.metrics.EstimateDuration(totalKm, len(orderedStops))
	if err != nil {
		return 0, 0, err
	}

	return totalKm, estimatedMinutes, nil
}
