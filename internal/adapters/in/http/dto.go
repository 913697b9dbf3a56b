package http

import (
	"time"

	"routeplanner/internal/core/application/usecases/queries"
)

// Error codes exposed by the API. Clients branch on the code, the message
// is for humans.
const (
	codeInvalidInput  = "INVALID_INPUT"
	codeGeocodeFailed = "GEOCODE_FAILED"
	codeNotFound      = "NOT_FOUND"
	codeOutOfRange    = "OUT_OF_RANGE"
	codeConflict      = "CONFLICT"
	codeInternal      = "INTERNAL_ERROR"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Service   string    `json:"service"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// OptimizeRouteRequest asks for an optimized visiting order over a set of
// delivery addresses, optionally anchored at a start location.
type OptimizeRouteRequest struct {
	Addresses     []string `json:"addresses" validate:"required,min=2,dive,required"`
	StartLocation string   `json:"startLocation" validate:"omitempty"`
}

// UpdateLocationRequest is a courier position report.
type UpdateLocationRequest struct {
	DeliveryID string  `json:"deliveryId" validate:"required,uuid"`
	Address    string  `json:"address" validate:"required"`
	Latitude   float64 `json:"lat" validate:"gte=-90,lte=90"`
	Longitude  float64 `json:"lng" validate:"gte=-180,lte=180"`
}

// CompleteStopRequest marks one stop of a delivery as served.
type CompleteStopRequest struct {
	StopIndex *int `json:"stopIndex" validate:"required,gte=0"`
}

// StopDTO is one geocoded address in a response body.
type StopDTO struct {
	Address   string  `json:"address"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lng"`
}

// RouteResponse is the route detail body, stops in solved visiting order.
type RouteResponse struct {
	RouteID          string    `json:"routeId"`
	Stops            []StopDTO `json:"stops"`
	Depot            *StopDTO  `json:"depot,omitempty"`
	TotalDistanceKm  float64   `json:"totalDistanceKm"`
	EstimatedMinutes float64   `json:"estimatedMinutes"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"createdAt"`
}

// StartDeliveryResponse identifies the delivery created for a route.
type StartDeliveryResponse struct {
	DeliveryID string `json:"deliveryId"`
	RouteID    string `json:"routeId"`
	Status     string `json:"status"`
}

// DeliveryResponse is the delivery tracking snapshot body.
type DeliveryResponse struct {
	DeliveryID        string     `json:"deliveryId"`
	RouteID           string     `json:"routeId"`
	Status            string     `json:"status"`
	CurrentLocation   *StopDTO   `json:"currentLocation,omitempty"`
	LocationUpdatedAt *time.Time `json:"locationUpdatedAt,omitempty"`
	CompletedStops    []int      `json:"completedStops"`
	StopCount         int        `json:"stopCount"`
	StartedAt         time.Time  `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt,omitempty"`
}

func toStopDTO(stop queries.StopResponse) StopDTO {
	return StopDTO{
		Address:   stop.Address,
		Latitude:  stop.Latitude,
		Longitude: stop.Longitude,
	}
}

func toRouteResponse(response queries.GetRouteQueryResponse) RouteResponse {
	stops := make([]StopDTO, 0, len(response.Stops))
	for _, stop := range response.Stops {
		stops = append(stops, toStopDTO(stop))
	}

	var depot *StopDTO
	if response.Depot != nil {
		d := toStopDTO(*response.Depot)
		depot = &d
	}

	return RouteResponse{
		RouteID:          response.ID.String(),
		Stops:            stops,
		Depot:            depot,
		TotalDistanceKm:  response.TotalDistanceKm,
		EstimatedMinutes: response.EstimatedMinutes,
		Status:           response.Status,
		CreatedAt:        response.CreatedAt,
	}
}

func toDeliveryResponse(response queries.GetDeliveryQueryResponse) DeliveryResponse {
	var location *StopDTO
	if response.CurrentLocation != nil {
		l := toStopDTO(*response.CurrentLocation)
		location = &l
	}

	completedStops := response.CompletedStops
	if completedStops == nil {
		completedStops = make([]int, 0)
	}

	return DeliveryResponse{
		DeliveryID:        response.ID.String(),
		RouteID:           response.RouteID.String(),
		Status:            response.Status,
		CurrentLocation:   location,
		LocationUpdatedAt: response.LocationUpdatedAt,
		CompletedStops:    completedStops,
		StopCount:         response.StopCount,
		StartedAt:         response.StartedAt,
		CompletedAt:       response.CompletedAt,
	}
}
