package repository

import (
	"context"
	"testing"
	"time"

	"staffcal/internal/domain"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRepo struct {
	domain.Repository

	bookings []models.Booking
	calls    int
}

func (r *stubRepo) GetSubjectBookings(ctx context.Context, subjectID int64) ([]models.Booking, error) {
	r.calls++
	return r.bookings, nil
}

func TestCachedBookingSourceFlow(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	repo := &stubRepo{bookings: []models.Booking{{ID: 1, SubjectID: 7, StartDate: "2025-07-01"}}}
	cache := NewMemoryBookingCache(time.Minute)
	src := NewCachedBookingSource(repo, cache, &logger)

	t.Run("MissFillsCache", func(t *testing.T) {
		got, err := src.BookingsForSubject(ctx, 7)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, repo.calls)

		// Second read is served from the cache.
		got, err = src.BookingsForSubject(ctx, 7)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, 1, repo.calls)
	})

	t.Run("InvalidateForcesRefetch", func(t *testing.T) {
		src.Invalidate(ctx, 7)

		_, err := src.BookingsForSubject(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.calls)
	})
}
