package kernel_test

import (
	"testing"

	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCoordinate(t *testing.T) {
	t.Run("should create valid coordinate", func(t *testing.T) {
		coord, err := kernel.NewCoordinate("Gateway of India, Mumbai", 18.9220, 72.8347)

		require.NoError(t, err)
		require.NoError(t, coord.Validate())
		assert.Equal(t, "Gateway of India, Mumbai", coord.Address())
		assert.InDelta(t, 18.9220, coord.Latitude(), 1e-9)
		assert.InDelta(t, 72.8347, coord.Longitude(), 1e-9)
	})

	t.Run("should accept boundary values", func(t *testing.T) {
		testCases := []struct {
			name     string
			lat, lon float64
		}{
			{"south pole", kernel.LatitudeMin, 0},
			{"north pole", kernel.LatitudeMax, 0},
			{"antimeridian west", 0, kernel.LongitudeMin},
			{"antimeridian east", 0, kernel.LongitudeMax},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				coord, err := kernel.NewCoordinate("edge", tc.lat, tc.lon)
				require.NoError(t, err)
				require.NoError(t, coord.Validate())
			})
		}
	})

	t.Run("should fail with empty address", func(t *testing.T) {
		_, err := kernel.NewCoordinate("", 18.9220, 72.8347)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should fail with out of range latitude", func(t *testing.T) {
		_, err := kernel.NewCoordinate("bad", 91.0, 72.8347)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should fail with out of range longitude", func(t *testing.T) {
		_, err := kernel.NewCoordinate("bad", 18.9220, -180.5)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should collect multiple validation errors", func(t *testing.T) {
		_, err := kernel.NewCoordinate("", 91.0, 181.0)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "address")
		assert.Contains(t, err.Error(), "latitude")
		assert.Contains(t, err.Error(), "longitude")
	})
}

func TestCoordinate_Validate(t *testing.T) {
	t.Run("zero value fails validation", func(t *testing.T) {
		var coord kernel.Coordinate

		err := coord.Validate()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "coordinate must be created")
	})
}

func TestCoordinate_DistanceTo(t *testing.T) {
	mumbai, _ := kernel.NewCoordinate("Mumbai", 19.0760, 72.8777)
	pune, _ := kernel.NewCoordinate("Pune", 18.5204, 73.8567)
	delhi, _ := kernel.NewCoordinate("Delhi", 28.7041, 77.1025)

	t.Run("known distance Mumbai to Pune", func(t *testing.T) {
		km, err := mumbai.DistanceTo(pune)

		require.NoError(t, err)
		// Great-circle distance is roughly 120 km.
		assert.InDelta(t, 120.0, km, 5.0)
	})

	t.Run("known distance Mumbai to Delhi", func(t *testing.T) {
		km, err := mumbai.DistanceTo(delhi)

		require.NoError(t, err)
		assert.InDelta(t, 1150.0, km, 25.0)
	})

	t.Run("distance is symmetric", func(t *testing.T) {
		forward, err := mumbai.DistanceTo(pune)
		require.NoError(t, err)

		backward, err := pune.DistanceTo(mumbai)
		require.NoError(t, err)

		assert.InDelta(t, forward, backward, 1e-9)
	})

	t.Run("distance to self is zero", func(t *testing.T) {
		km, err := mumbai.DistanceTo(mumbai)

		require.NoError(t, err)
		assert.InDelta(t, 0.0, km, 1e-9)
	})

	t.Run("coincident positions with different labels are zero distance", func(t *testing.T) {
		other, _ := kernel.NewCoordinate("Bombay", 19.0760, 72.8777)

		km, err := mumbai.DistanceTo(other)

		require.NoError(t, err)
		assert.InDelta(t, 0.0, km, 1e-9)
	})

	t.Run("fails for unconstructed coordinate", func(t *testing.T) {
		var zero kernel.Coordinate

		_, err := mumbai.DistanceTo(zero)

		require.Error(t, err)
	})
}

func TestCoordinate_IsEqual(t *testing.T) {
	t.Run("equal positions regardless of label", func(t *testing.T) {
		a, _ := kernel.NewCoordinate("label one", 19.0, 72.8)
		b, _ := kernel.NewCoordinate("label two", 19.0, 72.8)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.True(t, equal)
	})

	t.Run("different positions are not equal", func(t *testing.T) {
		a, _ := kernel.NewCoordinate("a", 19.0, 72.8)
		b, _ := kernel.NewCoordinate("b", 19.1, 72.8)

		equal, err := a.IsEqual(b)

		require.NoError(t, err)
		assert.False(t, equal)
	})
}

func TestCoordinate_Geohash(t *testing.T) {
	t.Run("same position encodes to same geohash", func(t *testing.T) {
		a, _ := kernel.NewCoordinate("a", 19.0760, 72.8777)
		b, _ := kernel.NewCoordinate("b", 19.0760, 72.8777)

		assert.NotEmpty(t, a.Geohash())
		assert.Equal(t, a.Geohash(), b.Geohash())
	})

	t.Run("distinct positions encode to distinct geohashes", func(t *testing.T) {
		a, _ := kernel.NewCoordinate("a", 19.0760, 72.8777)
		b, _ := kernel.NewCoordinate("b", 28.7041, 77.1025)

		assert.NotEqual(t, a.Geohash(), b.Geohash())
	})
}
