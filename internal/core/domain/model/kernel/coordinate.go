package kernel

import (
	"errors"
	"fmt"
	"math"

	"routeplanner/internal/pkg/errs"
	"routeplanner/internal/pkg/guard"

	"github.com/mmcloughlin/geohash"
)

const (
	// LatitudeMin is the minimum valid latitude in degrees.
	LatitudeMin = -90.0
	// LatitudeMax is the maximum valid latitude in degrees.
	LatitudeMax = 90.0
	// LongitudeMin is the minimum valid longitude in degrees.
	LongitudeMin = -180.0
	// LongitudeMax is the maximum valid longitude in degrees.
	LongitudeMax = 180.0

	// earthRadiusKm is the mean Earth radius used by the haversine formula.
	earthRadiusKm = 6371.0

	// geohashPrecision is the number of geohash characters encoded for
	// tracking payloads. Twelve characters give sub-meter cell sizes.
	geohashPrecision = 12
)

// ErrCoordinateIsNotConstructed is returned when attempting to use an improperly
// initialized Coordinate. Coordinates must be created via NewCoordinate.
var ErrCoordinateIsNotConstructed = errs.NewValueIsRequiredError(
	"coordinate must be created via NewCoordinate constructor")

// Coordinate is an immutable value object representing a geocoded point:
// the address label it was resolved from plus latitude and longitude in
// degrees. The zero value is invalid and fails validation - use the
// constructor to create instances.
//
// Example:
//
//	coord, err := kernel.NewCoordinate("Gateway of India, Mumbai", 18.9220, 72.8347)
//	if err != nil {
//	    // Handle validation error
//	}
//	fmt.Println(coord) // Output: Coordinate(18.922000, 72.834700)
type Coordinate struct { //nolint:recvcheck //using for validation
	address   string
	latitude  float64
	longitude float64
	guard     guard.ConstructorGuard
}

// NewCoordinate creates a Coordinate with the specified address label and
// position. Latitude must lie within [LatitudeMin..LatitudeMax] and longitude
// within [LongitudeMin..LongitudeMax]; the address label must be non-empty.
//
// Returns:
//   - Coordinate: a valid coordinate instance
//   - error: validation error if the address is empty or a value is out of bounds
func NewCoordinate(address string, latitude, longitude float64) (Coordinate, error) {
	coord := Coordinate{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		coord.setAddress(address),
		coord.setLatitude(latitude),
		coord.setLongitude(longitude),
	); err != nil {
		return Coordinate{}, err
	}

	return coord, nil
}

// Validate checks if the Coordinate was properly constructed via NewCoordinate.
// The zero value of Coordinate is invalid and fails this validation.
func (c Coordinate) Validate() error {
	return c.guard.Validate(ErrCoordinateIsNotConstructed)
}

// Address returns the address label the coordinate was geocoded from.
func (c Coordinate) Address() string {
	return c.address
}

// Latitude returns the latitude in degrees.
func (c Coordinate) Latitude() float64 {
	return c.latitude
}

// Longitude returns the longitude in degrees.
func (c Coordinate) Longitude() float64 {
	return c.longitude
}

// String returns a human-readable representation of the position.
// Implements the fmt.Stringer interface.
func (c Coordinate) String() string {
	return fmt.Sprintf("Coordinate(%f, %f)", c.latitude, c.longitude)
}

// Geohash returns the geohash encoding of the position, used as a compact
// location fingerprint in tracking payloads.
func (c Coordinate) Geohash() string {
	return geohash.EncodeWithPrecision(c.latitude, c.longitude, geohashPrecision)
}

// IsEqual compares two coordinates by position. The address label does not
// participate in equality: two labels resolved to the same point are the
// same place. Both coordinates must pass validation for the comparison
// to succeed.
func (c Coordinate) IsEqual(other Coordinate) (bool, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return false, err
	}

	return c.latitude == other.latitude && c.longitude == other.longitude, nil
}

// DistanceTo calculates the great-circle distance to another coordinate in
// kilometers using the haversine formula. The result is symmetric,
// non-negative, and zero only for coincident positions. Both coordinates
// must pass validation for the calculation to succeed.
//
// Example:
//
//	a, _ := kernel.NewCoordinate("A", 19.0760, 72.8777)
//	b, _ := kernel.NewCoordinate("B", 18.5204, 73.8567)
//
//	km, err := a.DistanceTo(b) // ~120 km, err = nil
func (c Coordinate) DistanceTo(other Coordinate) (float64, error) {
	if err := errors.Join(c.Validate(), other.Validate()); err != nil {
		return 0, err
	}

	lat1 := degreesToRadians(c.latitude)
	lat2 := degreesToRadians(other.latitude)
	deltaLat := degreesToRadians(other.latitude - c.latitude)
	deltaLon := degreesToRadians(other.longitude - c.longitude)

	a := math.Pow(math.Sin(deltaLat/2), 2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(deltaLon/2), 2)
	angle := 2 * math.Asin(math.Sqrt(a))

	return earthRadiusKm * angle, nil
}

// setAddress sets the address label with validation.
// Note: We intentionally use a pointer receiver here while other methods use
// value receivers, enabling self-encapsulated validation during construction.
func (c *Coordinate) setAddress(address string) error {
	if address == "" {
		return errs.NewValueIsRequiredError("address")
	}

	c.address = address
	return nil
}

// setLatitude sets the latitude with range validation.
func (c *Coordinate) setLatitude(latitude float64) error {
	if latitude < LatitudeMin || latitude > LatitudeMax {
		return errs.NewValueIsOutOfRangeError("latitude", latitude, LatitudeMin, LatitudeMax)
	}

	c.latitude = latitude
	return nil
}

// setLongitude sets the longitude with range validation.
func (c *Coordinate) setLongitude(longitude float64) error {
	if longitude < LongitudeMin || longitude > LongitudeMax {
		return errs.NewValueIsOutOfRangeError("longitude", longitude, LongitudeMin, LongitudeMax)
	}

	c.longitude = longitude
	return nil
}

func degreesToRadians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
