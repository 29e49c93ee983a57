package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"staffcal/internal/availability"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct {
	bookings []models.Booking
	err      error
}

func (s *stubSource) BookingsForSubject(_ context.Context, subjectID int64) ([]models.Booking, error) {
	if subjectID == 0 {
		return nil, nil
	}
	return s.bookings, s.err
}

func newAvailabilityService(bookings []models.Booking) *AvailabilityService {
	logger := zerolog.New(io.Discard)
	return NewAvailabilityService(&stubSource{bookings: bookings}, &logger)
}

func TestAvailabilityService_CheckDate(t *testing.T) {
	svc := newAvailabilityService([]models.Booking{
		{StartDate: "2026-09-10", EndDate: "2026-09-12", TimingMode: models.ModeMultiDay, Status: models.StatusConfirmed},
	})
	ctx := context.Background()

	t.Run("Booked", func(t *testing.T) {
		booked, err := svc.CheckDate(ctx, 1, "2026-09-11")
		require.NoError(t, err)
		assert.True(t, booked)
	})

	t.Run("Free", func(t *testing.T) {
		booked, err := svc.CheckDate(ctx, 1, "2026-09-13")
		require.NoError(t, err)
		assert.False(t, booked)
	})

	t.Run("EmptyDate", func(t *testing.T) {
		booked, err := svc.CheckDate(ctx, 1, "")
		require.NoError(t, err)
		assert.False(t, booked)
	})

	t.Run("MalformedDate", func(t *testing.T) {
		_, err := svc.CheckDate(ctx, 1, "11.09.2026")
		assert.ErrorIs(t, err, availability.ErrInvalidDate)
	})

	t.Run("ZeroSubject", func(t *testing.T) {
		booked, err := svc.CheckDate(ctx, 0, "2026-09-11")
		require.NoError(t, err)
		assert.False(t, booked)
	})
}

func TestAvailabilityService_CheckRange(t *testing.T) {
	svc := newAvailabilityService([]models.Booking{
		{StartDate: "2026-09-10", TimingMode: models.ModeFullDay, Status: models.StatusPending},
	})
	ctx := context.Background()

	t.Run("Overlapping", func(t *testing.T) {
		booked, err := svc.CheckRange(ctx, 1, "2026-09-08", "2026-09-10")
		require.NoError(t, err)
		assert.True(t, booked)
	})

	t.Run("Disjoint", func(t *testing.T) {
		booked, err := svc.CheckRange(ctx, 1, "2026-09-11", "2026-09-20")
		require.NoError(t, err)
		assert.False(t, booked)
	})

	t.Run("EmptyBound", func(t *testing.T) {
		booked, err := svc.CheckRange(ctx, 1, "", "2026-09-20")
		require.NoError(t, err)
		assert.False(t, booked)
	})

	t.Run("InvertedRange", func(t *testing.T) {
		booked, err := svc.CheckRange(ctx, 1, "2026-09-20", "2026-09-01")
		require.ErrorIs(t, err, availability.ErrInvertedRange)
		assert.False(t, booked)
	})
}

func TestAvailabilityService_CheckSlot(t *testing.T) {
	svc := newAvailabilityService([]models.Booking{
		{StartDate: "2026-09-10", StartTime: "10:00", EndTime: "14:00", TimingMode: models.ModeHourly, Status: models.StatusConfirmed},
	})
	ctx := context.Background()

	t.Run("Overlapping", func(t *testing.T) {
		booked, err := svc.CheckSlot(ctx, 1, "2026-09-10", "13:00-14:00")
		require.NoError(t, err)
		assert.True(t, booked)
	})

	t.Run("Adjacent", func(t *testing.T) {
		booked, err := svc.CheckSlot(ctx, 1, "2026-09-10", "14:00-15:00")
		require.NoError(t, err)
		assert.False(t, booked)
	})

	t.Run("OtherDay", func(t *testing.T) {
		booked, err := svc.CheckSlot(ctx, 1, "2026-09-11", "13:00-14:00")
		require.NoError(t, err)
		assert.False(t, booked)
	})

	t.Run("MalformedSlot", func(t *testing.T) {
		_, err := svc.CheckSlot(ctx, 1, "2026-09-10", "13:00")
		assert.ErrorIs(t, err, availability.ErrInvalidSlot)
	})

	t.Run("EmptyInputs", func(t *testing.T) {
		booked, err := svc.CheckSlot(ctx, 1, "", "")
		require.NoError(t, err)
		assert.False(t, booked)
	})
}

func TestAvailabilityService_FreeSlots(t *testing.T) {
	svc := newAvailabilityService([]models.Booking{
		{StartDate: "2026-09-10", StartTime: "10:00", EndTime: "12:00", TimingMode: models.ModeHourly, Status: models.StatusConfirmed},
	})
	ctx := context.Background()

	slots, err := svc.FreeSlots(ctx, 1, "2026-09-10")
	require.NoError(t, err)
	assert.Len(t, slots, 22)
	assert.NotContains(t, slots, "10:00-11:00")
	assert.NotContains(t, slots, "11:00-12:00")
	assert.Contains(t, slots, "09:00-10:00")
	assert.Contains(t, slots, "23:00-00:00")

	_, err = svc.FreeSlots(ctx, 1, "bad")
	assert.ErrorIs(t, err, availability.ErrInvalidDate)
}

func TestAvailabilityService_SourceError(t *testing.T) {
	logger := zerolog.New(io.Discard)
	svc := NewAvailabilityService(&stubSource{err: errors.New("store down")}, &logger)

	_, err := svc.CheckDate(context.Background(), 1, "2026-09-10")
	assert.Error(t, err)
}
