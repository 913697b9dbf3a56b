package services

import (
	"math"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"
)

// SpeedProfile parameterizes duration estimation so alternate profiles
// (highway vs. urban, walking couriers) can be substituted without touching
// the calculation.
type SpeedProfile struct {
	// AvgSpeedKmh is the assumed average travel speed between stops.
	AvgSpeedKmh float64

	// StopDwellMinutes is the assumed service time spent at each stop.
	StopDwellMinutes float64
}

// DefaultSpeedProfile returns the urban courier profile: 25 km/h average
// speed and 5 minutes of dwell per stop.
func DefaultSpeedProfile() SpeedProfile {
	return SpeedProfile{AvgSpeedKmh: 25, StopDwellMinutes: 5}
}

// RouteMetrics derives the headline numbers of a solved route: total
// great-circle distance over the visiting order and an estimated completion
// time. Both outputs are rounded to two decimal places.
type RouteMetrics struct {
	profile SpeedProfile
}

// NewRouteMetrics creates a RouteMetrics service with the given speed
// profile. A profile with a non-positive average speed falls back to
// DefaultSpeedProfile.
func NewRouteMetrics(profile SpeedProfile) RouteMetrics {
	if profile.AvgSpeedKmh <= 0 {
		profile = DefaultSpeedProfile()
	}
	if profile.StopDwellMinutes < 0 {
		profile.StopDwellMinutes = 0
	}
	return RouteMetrics{profile: profile}
}

// Profile returns the speed profile in use.
func (m RouteMetrics) Profile() SpeedProfile {
	return m.profile
}

// TotalDistance sums the great-circle distance over consecutive pairs of the
// ordered stops, in kilometers rounded to two decimal places. Fewer than two
// stops travel zero distance.
func (m RouteMetrics) TotalDistance(orderedStops []kernel.Coordinate) (float64, error) {
	if len(orderedStops) < 2 {
		return 0, nil
	}

	var total float64
	for i := 0; i < len(orderedStops)-1; i++ {
		km, err := orderedStops[i].DistanceTo(orderedStops[i+1])
		if err != nil {
			return 0, err
		}
		total += km
	}

	return round2(total), nil
}

// EstimateDuration projects the time to drive the total distance at the
// profile's average speed plus the dwell time at each stop, in minutes
// rounded to two decimal places.
func (m RouteMetrics) EstimateDuration(totalDistanceKm float64, stopCount int) (float64, error) {
	if totalDistanceKm < 0 {
		return 0, errs.NewValueIsOutOfRangeError("totalDistanceKm", totalDistanceKm, 0.0, math.MaxFloat64)
	}
	if stopCount < 0 {
		return 0, errs.NewValueIsOutOfRangeError("stopCount", stopCount, 0, math.MaxInt)
	}

	travelMinutes := totalDistanceKm / m.profile.AvgSpeedKmh * 60
	dwellMinutes := float64(stopCount) * m.profile.StopDwellMinutes

	return round2(travelMinutes + dwellMinutes), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
