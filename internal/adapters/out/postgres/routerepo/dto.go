// Package routerepo provides data transfer objects and mapping functions
// for route persistence. It implements the repository pattern for the route
// aggregate, converting between domain entities and their relational
// representation: a routes row plus one route_stops row per stop, ordered
// by sequence.
package routerepo

import (
	"time"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/core/domain/model/route"

	"github.com/google/uuid"
)

// RouteDTO represents the database structure for persisting route aggregates.
type RouteDTO struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey"`
	DepotAddress     *string
	DepotLat         *float64
	DepotLng         *float64
	TotalDistanceKm  float64
	EstimatedMinutes float64
	Status           int
	CreatedAt        time.Time
	Stops            []RouteStopDTO `gorm:"foreignKey:RouteID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for route entities.
func (RouteDTO) TableName() string {
	return "routes"
}

// RouteStopDTO represents one stop of the solved visiting order.
// Seq preserves the order the solver produced.
type RouteStopDTO struct {
	RouteID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Seq     int       `gorm:"primaryKey"`
	Address string
	Lat     float64
	Lng     float64
}

// TableName specifies the database table name for route stops.
func (RouteStopDTO) TableName() string {
	return "route_stops"
}

// fromDomain converts a route domain aggregate to its database representation.
func fromDomain(aggregate *route.Route) RouteDTO {
	stops := aggregate.Stops()
	stopDTOs := make([]RouteStopDTO, 0, len(stops))
	for i, stop := range stops {
		stopDTOs = append(stopDTOs, RouteStopDTO{
			RouteID: aggregate.ID().Bytes(),
			Seq:     i,
			Address: stop.Address(),
			Lat:     stop.Latitude(),
			Lng:     stop.Longitude(),
		})
	}

	dto := RouteDTO{
		ID:               aggregate.ID().Bytes(),
		TotalDistanceKm:  aggregate.TotalDistanceKm(),
		EstimatedMinutes: aggregate.EstimatedMinutes(),
		Status:           int(aggregate.Status()),
		CreatedAt:        aggregate.CreatedAt(),
		Stops:            stopDTOs,
	}

	if depot := aggregate.Depot(); depot != nil {
		address := depot.Address()
		lat := depot.Latitude()
		lng := depot.Longitude()
		dto.DepotAddress = &address
		dto.DepotLat = &lat
		dto.DepotLng = &lng
	}

	return dto
}

// toDomain converts a database DTO to a route domain aggregate using
// RestoreRoute. Stops must already be ordered by sequence.
func toDomain(dto RouteDTO) (*route.Route, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	stops := make([]kernel.Coordinate, 0, len(dto.Stops))
	for _, stopDTO := range dto.Stops {
		stop, stopErr := kernel.NewCoordinate(stopDTO.Address, stopDTO.Lat, stopDTO.Lng)
		if stopErr != nil {
			return nil, stopErr
		}
		stops = append(stops, stop)
	}

	var depot *kernel.Coordinate
	if dto.DepotAddress != nil {
		d, depotErr := kernel.NewCoordinate(*dto.DepotAddress, *dto.DepotLat, *dto.DepotLng)
		if depotErr != nil {
			return nil, depotErr
		}
		depot = &d
	}

	return route.RestoreRoute(
		id,
		stops,
		depot,
		dto.TotalDistanceKm,
		dto.EstimatedMinutes,
		route.Status(dto.Status),
		dto.CreatedAt,
	)
}
