// Package deliveryrepo provides data transfer objects and mapping functions
// for delivery persistence. It implements the repository pattern for the
// delivery aggregate, storing the completed-stop set as a postgres integer
// array for atomic reads and writes of the whole set.
package deliveryrepo

import (
	"time"

	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DeliveryDTO represents the database structure for persisting delivery aggregates.
type DeliveryDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	RouteID           uuid.UUID `gorm:"type:uuid;uniqueIndex"`
	StopCount         int
	Status            int
	LocationAddress   *string
	LocationLat       *float64
	LocationLng       *float64
	LocationUpdatedAt *time.Time
	CompletedStops    pq.Int64Array `gorm:"type:bigint[]"`
	StartedAt         time.Time
	CompletedAt       *time.Time
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// fromDomain converts a delivery domain aggregate to its database representation.
func fromDomain(aggregate *delivery.Delivery) DeliveryDTO {
	completed := aggregate.CompletedStops()
	completedStops := make(pq.Int64Array, 0, len(completed))
	for _, idx := range completed {
		completedStops = append(completedStops, int64(idx))
	}

	dto := DeliveryDTO{
		ID:             aggregate.ID().Bytes(),
		RouteID:        aggregate.RouteID().Bytes(),
		StopCount:      aggregate.StopCount(),
		Status:         int(aggregate.Status()),
		CompletedStops: completedStops,
		StartedAt:      aggregate.StartedAt(),
		CompletedAt:    aggregate.CompletedAt(),
	}

	if location := aggregate.CurrentLocation(); location != nil {
		address := location.Address()
		lat := location.Latitude()
		lng := location.Longitude()
		updatedAt := aggregate.LocationUpdatedAt()
		dto.LocationAddress = &address
		dto.LocationLat = &lat
		dto.LocationLng = &lng
		dto.LocationUpdatedAt = &updatedAt
	}

	return dto
}

// toDomain converts a database DTO to a delivery domain aggregate using
// RestoreDelivery.
func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	routeID, err := kernel.UUIDFromBytes(dto.RouteID[:])
	if err != nil {
		return nil, err
	}

	var location *kernel.Coordinate
	var locationUpdatedAt time.Time
	if dto.LocationAddress != nil {
		loc, locErr := kernel.NewCoordinate(*dto.LocationAddress, *dto.LocationLat, *dto.LocationLng)
		if locErr != nil {
			return nil, locErr
		}
		location = &loc
		if dto.LocationUpdatedAt != nil {
			locationUpdatedAt = *dto.LocationUpdatedAt
		}
	}

	completedStops := make([]int, 0, len(dto.CompletedStops))
	for _, idx := range dto.CompletedStops {
		completedStops = append(completedStops, int(idx))
	}

	return delivery.RestoreDelivery(
		id,
		routeID,
		dto.StopCount,
		delivery.Status(dto.Status),
		location,
		locationUpdatedAt,
		completedStops,
		dto.StartedAt,
		dto.CompletedAt,
	)
}
