package queries

import (
	"context"
	"database/sql"

	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// GetDeliveryQueryHandler retrieves delivery tracking snapshots straight
// from the database. Uses direct SQL queries for optimal read performance
// in the CQRS pattern.
type GetDeliveryQueryHandler struct {
	db *gorm.DB
}

// NewGetDeliveryQueryHandler creates a handler for delivery retrieval queries.
// Requires a GORM database connection for query execution.
func NewGetDeliveryQueryHandler(db *gorm.DB) GetDeliveryQueryHandler {
	return GetDeliveryQueryHandler{db: db}
}

// Handle executes the query and returns the tracking read model.
// Returns an errs.ObjectNotFoundError for an unknown delivery identifier.
func (h GetDeliveryQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryQuery,
) (GetDeliveryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			route_id,
			status,
			location_address,
			location_lat,
			location_lng,
			location_updated_at,
			completed_stops,
			stop_count,
			started_at,
			completed_at
		FROM deliveries
		WHERE id = ?
	`, query.DeliveryID().Bytes()).Row()

	var response GetDeliveryQueryResponse
	var id, routeID uuid.UUID
	var status int
	var locationAddress sql.NullString
	var locationLat, locationLng sql.NullFloat64
	var locationUpdatedAt, completedAt sql.NullTime
	var completedStops pq.Int64Array

	err := row.Scan(
		&id,
		&routeID,
		&status,
		&locationAddress,
		&locationLat,
		&locationLng,
		&locationUpdatedAt,
		&completedStops,
		&response.StopCount,
		&response.StartedAt,
		&completedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return GetDeliveryQueryResponse{},
				errs.NewObjectNotFoundError("delivery", query.DeliveryID().String())
		}
		return GetDeliveryQueryResponse{}, err
	}

	if response.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetDeliveryQueryResponse{}, err
	}
	if response.RouteID, err = kernel.UUIDFromBytes(routeID[:]); err != nil {
		return GetDeliveryQueryResponse{}, err
	}

	response.Status = delivery.Status(status).String()

	if locationAddress.Valid {
		response.CurrentLocation = &StopResponse{
			Address:   locationAddress.String,
			Latitude:  locationLat.Float64,
			Longitude: locationLng.Float64,
		}
	}
	if locationUpdatedAt.Valid {
		at := locationUpdatedAt.Time
		response.LocationUpdatedAt = &at
	}
	if completedAt.Valid {
		at := completedAt.Time
		response.CompletedAt = &at
	}

	response.CompletedStops = make([]int, 0, len(completedStops))
	for _, idx := range completedStops {
		response.CompletedStops = append(response.CompletedStops, int(idx))
	}

	return response, nil
}
