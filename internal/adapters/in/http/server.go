// Package http exposes the REST API: route optimization, delivery
// lifecycle commands, and read models for routes and deliveries.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"routeplanner/internal/core/application/usecases/commands"
	"routeplanner/internal/core/application/usecases/queries"
	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/ports"
	"routeplanner/internal/pkg/errs"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

const serviceName = "routeplanner"

// RouteQueryHandler serves the route read model. Satisfied by both the SQL
// and the in-memory implementation, so the server works in either storage
// mode.
type RouteQueryHandler interface {
	Handle(ctx context.Context, query queries.GetRouteQuery) (queries.GetRouteQueryResponse, error)
}

// DeliveryQueryHandler serves the delivery tracking read model.
type DeliveryQueryHandler interface {
	Handle(ctx context.Context, query queries.GetDeliveryQuery) (queries.GetDeliveryQueryResponse, error)
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	optimizeRouteHandler    commands.OptimizeRouteCommandHandler
	startDeliveryHandler    commands.StartDeliveryCommandHandler
	updateLocationHandler   commands.UpdateLocationCommandHandler
	completeStopHandler     commands.CompleteStopCommandHandler
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler

	getRouteHandler    RouteQueryHandler
	getDeliveryHandler DeliveryQueryHandler

	validate *validator.Validate
}

// NewServer creates an HTTP server with the required command and query
// handlers.
func NewServer(
	optimizeRouteHandler commands.OptimizeRouteCommandHandler,
	startDeliveryHandler commands.StartDeliveryCommandHandler,
	updateLocationHandler commands.UpdateLocationCommandHandler,
	completeStopHandler commands.CompleteStopCommandHandler,
	completeDeliveryHandler commands.CompleteDeliveryCommandHandler,
	getRouteHandler RouteQueryHandler,
	getDeliveryHandler DeliveryQueryHandler,
) *Server {
	return &Server{
		optimizeRouteHandler:    optimizeRouteHandler,
		startDeliveryHandler:    startDeliveryHandler,
		updateLocationHandler:   updateLocationHandler,
		completeStopHandler:     completeStopHandler,
		completeDeliveryHandler: completeDeliveryHandler,
		getRouteHandler:         getRouteHandler,
		getDeliveryHandler:      getDeliveryHandler,
		validate:                validator.New(),
	}
}

// RegisterRoutes attaches all API endpoints to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)
	e.POST("/optimize-route", s.OptimizeRoute)
	e.GET("/route/:routeId", s.GetRoute)
	e.POST("/route/:routeId/start", s.StartDelivery)
	e.POST("/track/update", s.UpdateLocation)
	e.POST("/delivery/:deliveryId/complete-stop", s.CompleteStop)
	e.POST("/delivery/:deliveryId/complete", s.CompleteDelivery)
	e.GET("/delivery/:deliveryId", s.GetDelivery)
}

// Health handles GET /health - reports service liveness.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, HealthResponse{
		Service:   serviceName,
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	})
}

// OptimizeRoute handles POST /optimize-route - geocodes the addresses,
// solves the visiting order, persists the route, and returns its detail.
func (s *Server) OptimizeRoute(ctx echo.Context) error {
	var request OptimizeRouteRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := s.validate.Struct(&request); err != nil {
		return badRequest(ctx, "At least two addresses are required")
	}

	routeID := kernel.NewUUID()
	cmd, err := commands.NewOptimizeRouteCommand(routeID, request.Addresses, request.StartLocation)
	if err != nil {
		return badRequest(ctx, "Invalid route data: "+err.Error())
	}

	if err = s.optimizeRouteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewGetRouteQuery(routeID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response, err := s.getRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, toRouteResponse(response))
}

// GetRoute handles GET /route/:routeId - returns the route detail.
func (s *Server) GetRoute(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route identifier")
	}

	query, err := queries.NewGetRouteQuery(routeID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response, err := s.getRouteHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toRouteResponse(response))
}

// StartDelivery handles POST /route/:routeId/start - creates the delivery
// executing the route.
func (s *Server) StartDelivery(ctx echo.Context) error {
	routeID, err := kernel.UUIDFromString(ctx.Param("routeId"))
	if err != nil {
		return badRequest(ctx, "Invalid route identifier")
	}

	deliveryID := kernel.NewUUID()
	cmd, err := commands.NewStartDeliveryCommand(deliveryID, routeID)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	if err = s.startDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, StartDeliveryResponse{
		DeliveryID: deliveryID.String(),
		RouteID:    routeID.String(),
		Status:     delivery.InProgress.String(),
	})
}

// UpdateLocation handles POST /track/update - records a position report.
func (s *Server) UpdateLocation(ctx echo.Context) error {
	var request UpdateLocationRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := s.validate.Struct(&request); err != nil {
		return badRequest(ctx, "Invalid location report: "+err.Error())
	}

	deliveryID, err := kernel.UUIDFromString(request.DeliveryID)
	if err != nil {
		return badRequest(ctx, "Invalid delivery identifier")
	}

	location, err := kernel.NewCoordinate(request.Address, request.Latitude, request.Longitude)
	if err != nil {
		return badRequest(ctx, "Invalid coordinates: "+err.Error())
	}

	cmd, err := commands.NewUpdateLocationCommand(deliveryID, location, time.Now().UTC())
	if err != nil {
		return badRequest(ctx, "Invalid location report: "+err.Error())
	}

	if err = s.updateLocationHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteStop handles POST /delivery/:deliveryId/complete-stop - marks one
// stop of the delivery as served.
func (s *Server) CompleteStop(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery identifier")
	}

	var request CompleteStopRequest
	if err = ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err = s.validate.Struct(&request); err != nil {
		return badRequest(ctx, "Stop index is required and must not be negative")
	}

	cmd, err := commands.NewCompleteStopCommand(deliveryID, *request.StopIndex)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err = s.completeStopHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CompleteDelivery handles POST /delivery/:deliveryId/complete - finishes
// the delivery and its route.
func (s *Server) CompleteDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery identifier")
	}

	cmd, err := commands.NewCompleteDeliveryCommand(deliveryID)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	if err = s.completeDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetDelivery handles GET /delivery/:deliveryId - returns the tracking
// snapshot.
func (s *Server) GetDelivery(ctx echo.Context) error {
	deliveryID, err := kernel.UUIDFromString(ctx.Param("deliveryId"))
	if err != nil {
		return badRequest(ctx, "Invalid delivery identifier")
	}

	query, err := queries.NewGetDeliveryQuery(deliveryID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response, err := s.getDeliveryHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, toDeliveryResponse(response))
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   codeInvalidInput,
		Message: message,
	})
}

// errorResponse maps application errors onto the API error taxonomy.
func errorResponse(ctx echo.Context, err error) error {
	var notResolved *ports.AddressNotResolvedError
	if errors.As(err, &notResolved) {
		return ctx.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   codeGeocodeFailed,
			Message: "Could not resolve address: " + notResolved.Address,
		})
	}

	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Error:   codeNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsOutOfRange):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   codeOutOfRange,
			Message: err.Error(),
		})
	case errors.Is(err, delivery.ErrDeliveryAlreadyCompleted),
		errors.Is(err, commands.ErrDeliveryAlreadyStarted):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Error:   codeConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return ctx.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   codeInvalidInput,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   codeInternal,
			Message: "Internal server error",
		})
	}
}
