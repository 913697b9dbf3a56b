package queries

import (
	"context"
	"database/sql"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"
	"routeplanner/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetRouteQueryHandler retrieves route snapshots straight from the database.
// Uses direct SQL queries for optimal read performance in the CQRS pattern.
type GetRouteQueryHandler struct {
	db *gorm.DB
}

// NewGetRouteQueryHandler creates a handler for route retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetRouteQueryHandler(db *gorm.DB) GetRouteQueryHandler {
	return GetRouteQueryHandler{db: db}
}

// Handle executes the query and returns the route read model with its stops
// in solved visiting order. Returns an errs.ObjectNotFoundError for an
// unknown route identifier.
func (h GetRouteQueryHandler) Handle(
	ctx context.Context,
	query GetRouteQuery,
) (GetRouteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetRouteQueryResponse{}, err
	}

	response, err := h.loadRoute(ctx, query.RouteID())
	if err != nil {
		return GetRouteQueryResponse{}, err
	}

	stops, err := h.loadStops(ctx, query.RouteID())
	if err != nil {
		return GetRouteQueryResponse{}, err
	}
	response.Stops = stops

	return response, nil
}

func (h GetRouteQueryHandler) loadRoute(
	ctx context.Context,
	routeID kernel.UUID,
) (GetRouteQueryResponse, error) {
	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			depot_address,
			depot_lat,
			depot_lng,
			total_distance_km,
			estimated_minutes,
			status,
			created_at
		FROM routes
		WHERE id = ?
	`, routeID.Bytes()).Row()

	var response GetRouteQueryResponse
	var id uuid.UUID
	var depotAddress sql.NullString
	var depotLat, depotLng sql.NullFloat64
	var status int

	err := row.Scan(
		&id,
		&depotAddress,
		&depotLat,
		&depotLng,
		&response.TotalDistanceKm,
		&response.EstimatedMinutes,
		&status,
		&response.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return GetRouteQueryResponse{}, errs.NewObjectNotFoundError("route", routeID.String())
		}
		return GetRouteQueryResponse{}, err
	}

	response.ID, err = kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetRouteQueryResponse{}, err
	}

	if depotAddress.Valid {
		response.Depot = &StopResponse{
			Address:   depotAddress.String,
			Latitude:  depotLat.Float64,
			Longitude: depotLng.Float64,
		}
	}

	response.Status = route.Status(status).String()
	return response, nil
}

func (h GetRouteQueryHandler) loadStops(
	ctx context.Context,
	routeID kernel.UUID,
) ([]StopResponse, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			address,
			lat,
			lng
		FROM route_stops
		WHERE route_id = ?
		ORDER BY seq
	`, routeID.Bytes()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stops := make([]StopResponse, 0)
	for rows.Next() {
		var stop StopResponse
		if err = rows.Scan(&stop.Address, &stop.Latitude, &stop.Longitude); err != nil {
			return nil, err
		}
		stops = append(stops, stop)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return stops, nil
}
