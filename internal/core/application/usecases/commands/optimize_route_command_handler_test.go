package commands_test

import (
	"errors"
	"testing"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/core/domain/services"
	"routeplanner/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOptimizeHandler(factory commands.RouteUoWFactory, geocoder ports.Geocoder) commands.OptimizeRouteCommandHandler {
	return commands.NewOptimizeRouteCommandHandler(
		factory,
		geocoder,
		services.NewRouteSolver(100*time.Millisecond),
		services.NewRouteMetrics(services.DefaultSpeedProfile()),
		2,
	)
}

func stubCoordinate(t *testing.T, label string, lat, lng float64) kernel.Coordinate {
	t.Helper()
	coordinate, err := kernel.NewCoordinate(label, lat, lng)
	require.NoError(t, err)
	return coordinate
}

func TestOptimizeRouteCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	routeID := kernel.NewUUID()
	cmd, err := commands.NewOptimizeRouteCommand(
		routeID, []string{"A", "B", "C"}, "Depot")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Resolve", mock.Anything, "A").Return(stubCoordinate(t, "A", 19.00, 72.95), nil).Once()
	geocoder.On("Resolve", mock.Anything, "B").Return(stubCoordinate(t, "B", 19.00, 72.85), nil).Once()
	geocoder.On("Resolve", mock.Anything, "C").Return(stubCoordinate(t, "C", 19.00, 72.90), nil).Once()
	geocoder.On("Resolve", mock.Anything, "Depot").Return(stubCoordinate(t, "Depot", 19.00, 72.80), nil).Once()

	var persisted *route.Route
	repo := new(MockRouteRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*route.Route")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*route.Route)
			}).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newOptimizeHandler(factory, geocoder)
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, persisted)
	require.True(t, persisted.ID().IsEqual(routeID))
	require.Equal(t, 3, persisted.StopCount())
	require.NotNil(t, persisted.Depot())
	require.Equal(t, route.Optimized, persisted.Status())
	require.Positive(t, persisted.TotalDistanceKm())
	require.Positive(t, persisted.EstimatedMinutes())

	// The stops strung out east of the depot solve west to east.
	stops := persisted.Stops()
	require.Equal(t, "B", stops[0].Address())
	require.Equal(t, "C", stops[1].Address())
	require.Equal(t, "A", stops[2].Address())

	geocoder.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestOptimizeRouteCommandHandler_Handle_GeocodeFailure(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewOptimizeRouteCommand(
		kernel.NewUUID(), []string{"A", "nowhere at all"}, "")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Resolve", mock.Anything, "A").
		Return(stubCoordinate(t, "A", 19.0, 72.9), nil).Once()
	geocoder.On("Resolve", mock.Anything, "nowhere at all").
		Return(kernel.Coordinate{}, ports.NewAddressNotResolvedError("nowhere at all", nil)).Once()

	factory := new(MockRouteUoWFactory)

	h := newOptimizeHandler(factory, geocoder)
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, ports.ErrAddressNotResolved)
	require.Contains(t, err.Error(), "nowhere at all")
	factory.AssertNotCalled(t, "Create")
}

func TestOptimizeRouteCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	factory := new(MockRouteUoWFactory)

	h := newOptimizeHandler(factory, new(MockGeocoder))
	err := h.Handle(ctx, commands.OptimizeRouteCommand{})

	require.ErrorIs(t, err, commands.ErrOptimizeRouteCommandIsNotConstructed)
}

func TestOptimizeRouteCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewOptimizeRouteCommand(kernel.NewUUID(), []string{"A", "B"}, "")
	require.NoError(t, err)

	geocoder := new(MockGeocoder)
	geocoder.On("Resolve", mock.Anything, "A").Return(stubCoordinate(t, "A", 19.0, 72.9), nil).Once()
	geocoder.On("Resolve", mock.Anything, "B").Return(stubCoordinate(t, "B", 19.1, 72.8), nil).Once()

	repo := new(MockRouteRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("RouteRepository").Return(repo).Once(),
		repo.On("Add", mock.Anything, mock.AnythingOfType("*route.Route")).
			Return(errors.New("duplicate key")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockRouteUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := newOptimizeHandler(factory, geocoder)
	err = h.Handle(ctx, cmd)

	require.Error(t, err)
	uow.AssertNotCalled(t, "Commit", mock.Anything)
}
