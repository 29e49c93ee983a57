package database

import (
	"context"
	"testing"
	"time"

	"staffcal/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBooking(subjectID int64, mode, startDate, endDate, startTime, endTime string) *models.Booking {
	return &models.Booking{
		Ref:         uuid.NewString(),
		SubjectID:   subjectID,
		SubjectName: "Anna",
		EventName:   "Corporate offsite",
		StartDate:   startDate,
		EndDate:     endDate,
		StartTime:   startTime,
		EndTime:     endTime,
		TimingMode:  mode,
		Status:      models.StatusPending,
	}
}

func TestBookingsCRUD(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("CreateAndGet", func(t *testing.T) {
		b := newBooking(1, models.ModeHourly, "2025-07-01", "", "14:00", "15:00")
		require.NoError(t, db.CreateBooking(ctx, b))
		require.NotZero(t, b.ID)
		assert.Equal(t, int64(1), b.Version)

		got, err := db.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, b.Ref, got.Ref)
		assert.Equal(t, "2025-07-01", got.StartDate)
		assert.Equal(t, "14:00", got.StartTime)
		assert.Empty(t, got.EndDate)
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := db.GetBooking(ctx, 9999)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("SubjectSnapshotExcludesCancelled", func(t *testing.T) {
		b := newBooking(2, models.ModeFullDay, "2025-07-10", "", "", "")
		require.NoError(t, db.CreateBooking(ctx, b))
		cancelled := newBooking(2, models.ModeFullDay, "2025-07-11", "", "", "")
		cancelled.Status = models.StatusCancelled
		require.NoError(t, db.CreateBooking(ctx, cancelled))

		snapshot, err := db.GetSubjectBookings(ctx, 2)
		require.NoError(t, err)
		require.Len(t, snapshot, 1)
		assert.Equal(t, "2025-07-10", snapshot[0].StartDate)
	})

	t.Run("SubjectSnapshotCoversEveryOccupyingStatus", func(t *testing.T) {
		for i, status := range models.ActiveStatuses {
			b := newBooking(5, models.ModeHourly, "2025-08-01", "", "10:00", "11:00")
			b.StartDate = time.Date(2025, 8, 1+i, 0, 0, 0, 0, time.UTC).Format("2006-01-02")
			b.Status = status
			require.NoError(t, db.CreateBooking(ctx, b))
		}

		snapshot, err := db.GetSubjectBookings(ctx, 5)
		require.NoError(t, err)
		require.Len(t, snapshot, len(models.ActiveStatuses))
	})

	t.Run("ZeroSubjectIDYieldsEmptySnapshot", func(t *testing.T) {
		snapshot, err := db.GetSubjectBookings(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, snapshot)
	})

	t.Run("StatusUpdateWithVersion", func(t *testing.T) {
		b := newBooking(3, models.ModeHourly, "2025-07-05", "", "10:00", "11:00")
		require.NoError(t, db.CreateBooking(ctx, b))

		require.NoError(t, db.UpdateBookingStatusWithVersion(ctx, b.ID, 1, models.StatusConfirmed))

		got, err := db.GetBooking(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusConfirmed, got.Status)
		assert.Equal(t, int64(2), got.Version)

		// Stale version loses.
		err = db.UpdateBookingStatusWithVersion(ctx, b.ID, 1, models.StatusCancelled)
		assert.ErrorIs(t, err, ErrConcurrentModification)
	})
}

func TestCreateBookingWithConflictCheck(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	t.Run("FullDayConflict", func(t *testing.T) {
		first := newBooking(10, models.ModeFullDay, "2025-08-01", "", models.FullDayStart, models.FullDayEnd)
		require.NoError(t, db.CreateBookingWithConflictCheck(ctx, first))

		dup := newBooking(10, models.ModeFullDay, "2025-08-01", "", models.FullDayStart, models.FullDayEnd)
		assert.ErrorIs(t, db.CreateBookingWithConflictCheck(ctx, dup), ErrConflict)
	})

	t.Run("MultiDayOverlapConflict", func(t *testing.T) {
		first := newBooking(11, models.ModeMultiDay, "2025-08-10", "2025-08-12", models.FullDayStart, models.FullDayEnd)
		require.NoError(t, db.CreateBookingWithConflictCheck(ctx, first))

		touching := newBooking(11, models.ModeMultiDay, "2025-08-12", "2025-08-15", models.FullDayStart, models.FullDayEnd)
		assert.ErrorIs(t, db.CreateBookingWithConflictCheck(ctx, touching), ErrConflict)

		disjoint := newBooking(11, models.ModeMultiDay, "2025-08-13", "2025-08-15", models.FullDayStart, models.FullDayEnd)
		assert.NoError(t, db.CreateBookingWithConflictCheck(ctx, disjoint))
	})

	t.Run("HourlyNotHardBlocked", func(t *testing.T) {
		first := newBooking(12, models.ModeHourly, "2025-08-20", "", "09:00", "10:00")
		require.NoError(t, db.CreateBookingWithConflictCheck(ctx, first))

		// Hourly submissions rely on slot filtering upstream, not on a
		// submission-time block.
		second := newBooking(12, models.ModeHourly, "2025-08-20", "", "09:00", "10:00")
		assert.NoError(t, db.CreateBookingWithConflictCheck(ctx, second))
	})

	t.Run("CancelledBookingDoesNotConflict", func(t *testing.T) {
		first := newBooking(13, models.ModeFullDay, "2025-09-01", "", models.FullDayStart, models.FullDayEnd)
		first.Status = models.StatusCancelled
		require.NoError(t, db.CreateBooking(ctx, first))

		replacement := newBooking(13, models.ModeFullDay, "2025-09-01", "", models.FullDayStart, models.FullDayEnd)
		assert.NoError(t, db.CreateBookingWithConflictCheck(ctx, replacement))
	})
}

func TestBookingsByDateRange(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	mustCreate := func(b *models.Booking) {
		require.NoError(t, db.CreateBooking(ctx, b))
	}

	mustCreate(newBooking(20, models.ModeFullDay, "2025-10-01", "", "", ""))
	mustCreate(newBooking(20, models.ModeMultiDay, "2025-10-05", "2025-10-08", "", ""))
	mustCreate(newBooking(20, models.ModeFullDay, "2025-10-20", "", "", ""))

	day := func(s string) time.Time {
		d, err := time.Parse("2006-01-02", s)
		require.NoError(t, err)
		return d
	}

	t.Run("StraddlingRangeIncluded", func(t *testing.T) {
		// Query window falls inside the multi-day booking.
		bookings, err := db.GetBookingsByDateRange(ctx, day("2025-10-06"), day("2025-10-07"))
		require.NoError(t, err)
		require.Len(t, bookings, 1)
		assert.Equal(t, "2025-10-05", bookings[0].StartDate)
	})

	t.Run("FullWindow", func(t *testing.T) {
		bookings, err := db.GetBookingsByDateRange(ctx, day("2025-10-01"), day("2025-10-31"))
		require.NoError(t, err)
		assert.Len(t, bookings, 3)
	})

	t.Run("DailyGroupingExpandsMultiDay", func(t *testing.T) {
		daily, err := db.GetDailyBookings(ctx, day("2025-10-01"), day("2025-10-31"))
		require.NoError(t, err)
		assert.Len(t, daily["2025-10-05"], 1)
		assert.Len(t, daily["2025-10-06"], 1)
		assert.Len(t, daily["2025-10-08"], 1)
		assert.Empty(t, daily["2025-10-09"])
	})

	t.Run("DailyGroupingClampsToWindow", func(t *testing.T) {
		daily, err := db.GetDailyBookings(ctx, day("2025-10-06"), day("2025-10-07"))
		require.NoError(t, err)
		assert.Len(t, daily, 2)
		assert.Empty(t, daily["2025-10-05"])
	})
}
