package cmd

import (
	"log/slog"

	httpadapter "routeplanner/internal/adapters/in/http"
	"routeplanner/internal/adapters/in/ws"
	"routeplanner/internal/adapters/out/geocode"
	"routeplanner/internal/adapters/out/inmem"
	"routeplanner/internal/adapters/out/postgres"
	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/application/usecases/queries"
	"routeplanner/internal/core/domain/services"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/core/tracking"
	"routeplanner/internal/jobs"
	"routeplanner/internal/pkg/keylock"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters into application use cases. Storage is
// postgres when a database connection is provided and the in-memory store
// otherwise; the geocoder composition follows Config.
type CompositionRoot struct {
	config Config
	logger *slog.Logger

	gormDB *gorm.DB
	store  *inmem.Store

	createUoW func() ports.UnitOfWork

	hub      *tracking.Hub
	locks    *keylock.KeyLock
	geocoder ports.Geocoder
	solver   services.RouteSolver
	metrics  services.RouteMetrics
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	root := CompositionRoot{
		config:   config,
		logger:   logger,
		gormDB:   gormDB,
		hub:      tracking.NewHub(logger),
		locks:    keylock.New(),
		geocoder: buildGeocoder(config, logger),
		solver:   services.NewRouteSolver(config.SolverBudget),
		metrics: services.NewRouteMetrics(services.SpeedProfile{
			AvgSpeedKmh:      config.AvgSpeedKmh,
			StopDwellMinutes: config.StopDwellMinutes,
		}),
	}

	if gormDB != nil {
		factory := postgres.NewGormUnitOfWorkFactory(gormDB)
		root.createUoW = func() ports.UnitOfWork { return factory.Create() }
	} else {
		root.store = inmem.NewStore()
		factory := inmem.NewInMemUnitOfWorkFactory(root.store)
		root.createUoW = func() ports.UnitOfWork { return factory.Create() }
	}

	return root
}

func buildGeocoder(config Config, logger *slog.Logger) ports.Geocoder {
	if config.GeocoderBaseURL == "" {
		return geocode.NewOfflineGeocoder()
	}
	live := geocode.NewHTTPGeocoder(nil, config.GeocoderBaseURL, config.GeocoderAPIKey)
	if config.GeocoderOfflineFallback {
		return geocode.NewFallbackGeocoder(live, geocode.NewOfflineGeocoder(), logger)
	}
	return live
}

func (c *CompositionRoot) CreateOptimizeRouteCommandHandler() commands.OptimizeRouteCommandHandler {
	var f commands.RouteUoWFactory = FuncRouteUoWFactory(func() commands.RouteUoW {
		return c.createUoW()
	})
	return commands.NewOptimizeRouteCommandHandler(f, c.geocoder, c.solver, c.metrics, c.config.MaxConcurrentSolves)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.createUoW()
	})
	return commands.NewStartDeliveryCommandHandler(f)
}

func (c *CompositionRoot) CreateUpdateLocationCommandHandler() commands.UpdateLocationCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.createUoW()
	})
	return commands.NewUpdateLocationCommandHandler(f, c.hub, c.locks)
}

func (c *CompositionRoot) CreateCompleteStopCommandHandler() commands.CompleteStopCommandHandler {
	var f commands.DeliveryUoWFactory = FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.createUoW()
	})
	return commands.NewCompleteStopCommandHandler(f, c.hub, c.locks)
}

func (c *CompositionRoot) CreateCompleteDeliveryCommandHandler() commands.CompleteDeliveryCommandHandler {
	var f commands.UoWFactory = FuncUoWFactory(func() commands.UoW {
		return c.createUoW()
	})
	return commands.NewCompleteDeliveryCommandHandler(f, c.hub, c.locks)
}

func (c *CompositionRoot) CreateGetRouteQueryHandler() httpadapter.RouteQueryHandler {
	if c.gormDB != nil {
		return queries.NewGetRouteQueryHandler(c.gormDB)
	}
	return inmem.NewGetRouteQueryHandler(c.store)
}

func (c *CompositionRoot) CreateGetDeliveryQueryHandler() httpadapter.DeliveryQueryHandler {
	if c.gormDB != nil {
		return queries.NewGetDeliveryQueryHandler(c.gormDB)
	}
	return inmem.NewGetDeliveryQueryHandler(c.store)
}

func (c *CompositionRoot) CreateHTTPServer() *httpadapter.Server {
	return httpadapter.NewServer(
		c.CreateOptimizeRouteCommandHandler(),
		c.CreateStartDeliveryCommandHandler(),
		c.CreateUpdateLocationCommandHandler(),
		c.CreateCompleteStopCommandHandler(),
		c.CreateCompleteDeliveryCommandHandler(),
		c.CreateGetRouteQueryHandler(),
		c.CreateGetDeliveryQueryHandler(),
	)
}

func (c *CompositionRoot) CreateWSHandler() *ws.Handler {
	return ws.NewHandler(
		c.hub,
		c.CreateUpdateLocationCommandHandler(),
		c.CreateCompleteStopCommandHandler(),
		c.CreateCompleteDeliveryCommandHandler(),
		c.CreateGetDeliveryQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	return jobs.NewJobManager(c.hub, c.CreateGetDeliveryQueryHandler(), c.logger)
}

type FuncRouteUoWFactory func() commands.RouteUoW

func (f FuncRouteUoWFactory) Create() commands.RouteUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}
