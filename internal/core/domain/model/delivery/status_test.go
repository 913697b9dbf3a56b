package delivery_test

import (
	"testing"

	"routeplanner/internal/core/domain/model/delivery"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_String(t *testing.T) {
	assert.Equal(t, "in_progress", delivery.InProgress.String())
	assert.Equal(t, "completed", delivery.Completed.String())
	assert.Equal(t, "unknown", delivery.Unknown.String())
	assert.Equal(t, "unknown", delivery.Status(99).String())
}

func TestStatus_Validate(t *testing.T) {
	assert.NoError(t, delivery.InProgress.Validate())
	assert.NoError(t, delivery.Completed.Validate())
	assert.Error(t, delivery.Unknown.Validate())
}

func TestStatusFromString(t *testing.T) {
	t.Run("parses wire names", func(t *testing.T) {
		got, err := delivery.StatusFromString("in_progress")
		require.NoError(t, err)
		assert.Equal(t, delivery.InProgress, got)

		got, err = delivery.StatusFromString("completed")
		require.NoError(t, err)
		assert.Equal(t, delivery.Completed, got)
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		_, err := delivery.StatusFromString("pending")
		require.Error(t, err)
	})
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, delivery.InProgress.IsTerminal())
	assert.True(t, delivery.Completed.IsTerminal())
}

func TestStatus_Complete(t *testing.T) {
	t.Run("in_progress can complete", func(t *testing.T) {
		got, err := delivery.InProgress.Complete()

		require.NoError(t, err)
		assert.Equal(t, delivery.Completed, got)
	})

	t.Run("completed cannot complete again", func(t *testing.T) {
		_, err := delivery.Completed.Complete()
		require.Error(t, err)
	})
}
