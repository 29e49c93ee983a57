package repository

import (
	"context"
	"testing"
	"time"

	"staffcal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryBookingCache(t *testing.T) {
	cache := NewMemoryBookingCache(50 * time.Millisecond)
	ctx := context.Background()

	t.Run("SetAndGet", func(t *testing.T) {
		bookings := []models.Booking{{ID: 1, StartDate: "2025-07-01"}}
		require.NoError(t, cache.SetSnapshot(ctx, 1, bookings))

		got, ok, err := cache.GetSnapshot(ctx, 1)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, bookings, got)
	})

	t.Run("Miss", func(t *testing.T) {
		_, ok, err := cache.GetSnapshot(ctx, 42)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Invalidate", func(t *testing.T) {
		require.NoError(t, cache.SetSnapshot(ctx, 2, []models.Booking{{ID: 2}}))
		require.NoError(t, cache.InvalidateSubject(ctx, 2))

		_, ok, _ := cache.GetSnapshot(ctx, 2)
		assert.False(t, ok)
	})

	t.Run("Expiry", func(t *testing.T) {
		require.NoError(t, cache.SetSnapshot(ctx, 3, []models.Booking{{ID: 3}}))
		time.Sleep(60 * time.Millisecond)

		_, ok, _ := cache.GetSnapshot(ctx, 3)
		assert.False(t, ok)
	})
}
