package delivery_test

import (
	"testing"
	"time"

	"routeplanner/internal/core/domain/model/delivery"
	"routeplanner/internal/core/domain/model/kernel"
	"routeplanner/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDelivery(t *testing.T, stopCount int) *delivery.Delivery {
	t.Helper()
	d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), stopCount)
	require.NoError(t, err)
	return d
}

func TestNewDelivery(t *testing.T) {
	t.Run("should create valid delivery", func(t *testing.T) {
		id := kernel.NewUUID()
		routeID := kernel.NewUUID()

		d, err := delivery.NewDelivery(id, routeID, 4)

		require.NoError(t, err)
		require.NoError(t, d.Validate())
		assert.True(t, d.ID().IsEqual(id))
		assert.True(t, d.RouteID().IsEqual(routeID))
		assert.Equal(t, 4, d.StopCount())
		assert.Equal(t, delivery.InProgress, d.Status())
		assert.Nil(t, d.CurrentLocation())
		assert.True(t, d.LocationUpdatedAt().IsZero())
		assert.Empty(t, d.CompletedStops())
		assert.False(t, d.StartedAt().IsZero())
		assert.Nil(t, d.CompletedAt())
	})

	t.Run("should fail with invalid UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		d, err := delivery.NewDelivery(invalidID, kernel.NewUUID(), 4)

		require.Error(t, err)
		assert.Nil(t, d)
	})

	t.Run("should fail with invalid route UUID", func(t *testing.T) {
		var invalidID kernel.UUID

		d, err := delivery.NewDelivery(kernel.NewUUID(), invalidID, 4)

		require.Error(t, err)
		assert.Nil(t, d)
		assert.Contains(t, err.Error(), "routeID")
	})

	t.Run("should fail with non-positive stop count", func(t *testing.T) {
		for _, count := range []int{0, -1} {
			d, err := delivery.NewDelivery(kernel.NewUUID(), kernel.NewUUID(), count)

			require.Error(t, err, count)
			assert.Nil(t, d)
		}
	})
}

func TestRestoreDelivery(t *testing.T) {
	loc, _ := kernel.NewCoordinate("Last seen", 19.05, 72.85)
	updatedAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	startedAt := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)

	t.Run("should restore delivery with persisted state", func(t *testing.T) {
		d, err := delivery.RestoreDelivery(
			kernel.NewUUID(), kernel.NewUUID(), 5,
			delivery.InProgress, &loc, updatedAt, []int{2, 0}, startedAt, nil)

		require.NoError(t, err)
		assert.Equal(t, delivery.InProgress, d.Status())
		require.NotNil(t, d.CurrentLocation())
		assert.Equal(t, updatedAt, d.LocationUpdatedAt())
		assert.Equal(t, []int{0, 2}, d.CompletedStops())
		assert.Equal(t, startedAt, d.StartedAt())
		assert.Nil(t, d.CompletedAt())
	})

	t.Run("should restore completed delivery", func(t *testing.T) {
		completedAt := updatedAt.Add(time.Hour)

		d, err := delivery.RestoreDelivery(
			kernel.NewUUID(), kernel.NewUUID(), 2,
			delivery.Completed, &loc, updatedAt, []int{0, 1}, startedAt, &completedAt)

		require.NoError(t, err)
		assert.Equal(t, delivery.Completed, d.Status())
		require.NotNil(t, d.CompletedAt())
		assert.Equal(t, completedAt, *d.CompletedAt())
	})

	t.Run("should fail with out of range completed stop", func(t *testing.T) {
		_, err := delivery.RestoreDelivery(
			kernel.NewUUID(), kernel.NewUUID(), 3,
			delivery.InProgress, nil, time.Time{}, []int{3}, startedAt, nil)

		require.Error(t, err)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should fail with invalid status", func(t *testing.T) {
		_, err := delivery.RestoreDelivery(
			kernel.NewUUID(), kernel.NewUUID(), 3,
			delivery.Unknown, nil, time.Time{}, nil, startedAt, nil)

		require.Error(t, err)
	})
}

func TestDelivery_UpdateLocation(t *testing.T) {
	loc, _ := kernel.NewCoordinate("Checkpoint", 19.1, 72.9)

	t.Run("records latest position", func(t *testing.T) {
		d := newDelivery(t, 3)
		at := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)

		require.NoError(t, d.UpdateLocation(loc, at))

		require.NotNil(t, d.CurrentLocation())
		equal, _ := loc.IsEqual(*d.CurrentLocation())
		assert.True(t, equal)
		assert.Equal(t, at, d.LocationUpdatedAt())
	})

	t.Run("latest report wins", func(t *testing.T) {
		d := newDelivery(t, 3)
		first, _ := kernel.NewCoordinate("First", 19.01, 72.81)
		second, _ := kernel.NewCoordinate("Second", 19.02, 72.82)

		require.NoError(t, d.UpdateLocation(first, time.Now()))
		require.NoError(t, d.UpdateLocation(second, time.Now()))

		equal, _ := second.IsEqual(*d.CurrentLocation())
		assert.True(t, equal)
	})

	t.Run("zero timestamp defaults to now", func(t *testing.T) {
		d := newDelivery(t, 3)

		require.NoError(t, d.UpdateLocation(loc, time.Time{}))

		assert.False(t, d.LocationUpdatedAt().IsZero())
	})

	t.Run("rejects unconstructed coordinate", func(t *testing.T) {
		d := newDelivery(t, 3)

		err := d.UpdateLocation(kernel.Coordinate{}, time.Now())

		require.Error(t, err)
		assert.Nil(t, d.CurrentLocation())
	})

	t.Run("rejected once completed", func(t *testing.T) {
		d := newDelivery(t, 3)
		require.NoError(t, d.Complete())

		err := d.UpdateLocation(loc, time.Now())

		require.ErrorIs(t, err, delivery.ErrDeliveryAlreadyCompleted)
	})
}

func TestDelivery_CompleteStop(t *testing.T) {
	t.Run("marks stop as served", func(t *testing.T) {
		d := newDelivery(t, 3)

		require.NoError(t, d.CompleteStop(1))

		assert.True(t, d.IsStopCompleted(1))
		assert.Equal(t, []int{1}, d.CompletedStops())
	})

	t.Run("is idempotent", func(t *testing.T) {
		d := newDelivery(t, 3)

		require.NoError(t, d.CompleteStop(2))
		require.NoError(t, d.CompleteStop(2))

		assert.Equal(t, []int{2}, d.CompletedStops())
	})

	t.Run("rejects out of range index", func(t *testing.T) {
		d := newDelivery(t, 3)

		for _, idx := range []int{-1, 3, 10} {
			err := d.CompleteStop(idx)
			require.Error(t, err, idx)
			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
		}
		assert.Empty(t, d.CompletedStops())
	})

	t.Run("rejected once completed", func(t *testing.T) {
		d := newDelivery(t, 3)
		require.NoError(t, d.Complete())

		err := d.CompleteStop(0)

		require.ErrorIs(t, err, delivery.ErrDeliveryAlreadyCompleted)
	})

	t.Run("returned slice is a copy", func(t *testing.T) {
		d := newDelivery(t, 3)
		require.NoError(t, d.CompleteStop(0))

		got := d.CompletedStops()
		got[0] = 99

		assert.Equal(t, []int{0}, d.CompletedStops())
	})
}

func TestDelivery_Complete(t *testing.T) {
	t.Run("marks run as finished", func(t *testing.T) {
		d := newDelivery(t, 3)

		require.NoError(t, d.Complete())

		assert.Equal(t, delivery.Completed, d.Status())
		require.NotNil(t, d.CompletedAt())
	})

	t.Run("does not require all stops served", func(t *testing.T) {
		d := newDelivery(t, 3)
		require.NoError(t, d.CompleteStop(0))

		require.NoError(t, d.Complete())
		assert.Equal(t, []int{0}, d.CompletedStops())
	})

	t.Run("repeat call is rejected", func(t *testing.T) {
		d := newDelivery(t, 3)
		require.NoError(t, d.Complete())

		err := d.Complete()

		require.ErrorIs(t, err, delivery.ErrDeliveryAlreadyCompleted)
		assert.Equal(t, delivery.Completed, d.Status())
	})
}
