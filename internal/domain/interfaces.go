package domain

import (
	"context"
	"time"

	"staffcal/internal/models"
)

// Repository is the persistent booking store.
type Repository interface {
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	CreateBooking(ctx context.Context, booking *models.Booking) error
	CreateBookingWithConflictCheck(ctx context.Context, booking *models.Booking) error
	UpdateBookingStatusWithVersion(ctx context.Context, id int64, version int64, status string) error
	GetSubjectBookings(ctx context.Context, subjectID int64) ([]models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]models.Booking, error)
	GetActiveSubjects(ctx context.Context) ([]models.Subject, error)
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
	CreateSubject(ctx context.Context, subject *models.Subject) error
	DeactivateSubject(ctx context.Context, id int64) error
}

// BookingSource supplies the current booking snapshot for a subject. It is
// the seam between the pure conflict engine and whatever fetches and caches
// the data: the engine is correct for any snapshot it is handed, staleness
// is this layer's concern. A zero subject id yields an empty snapshot, not
// an error, so callers need no "subject selected yet?" guard.
type BookingSource interface {
	BookingsForSubject(ctx context.Context, subjectID int64) ([]models.Booking, error)
}

// SnapshotCache caches per-subject booking snapshots.
type SnapshotCache interface {
	GetSnapshot(ctx context.Context, subjectID int64) ([]models.Booking, bool, error)
	SetSnapshot(ctx context.Context, subjectID int64, bookings []models.Booking) error
	InvalidateSubject(ctx context.Context, subjectID int64) error
}

type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// ExportWorker refreshes the schedule workbook in the background.
type ExportWorker interface {
	EnqueueRefresh(ctx context.Context, start, end time.Time) error
}

type BookingService interface {
	ValidateBookingDate(date time.Time) error
	CreateBooking(ctx context.Context, booking *models.Booking) error
	ConfirmBooking(ctx context.Context, bookingID int64, version int64) error
	CancelBooking(ctx context.Context, bookingID int64, version int64) error
	CompleteBooking(ctx context.Context, bookingID int64, version int64) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error)
	GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]models.Booking, error)
}

type AvailabilityService interface {
	SubjectBookings(ctx context.Context, subjectID int64) ([]models.Booking, error)
	CheckDate(ctx context.Context, subjectID int64, date string) (bool, error)
	CheckRange(ctx context.Context, subjectID int64, start, end string) (bool, error)
	CheckSlot(ctx context.Context, subjectID int64, date, slot string) (bool, error)
	FreeSlots(ctx context.Context, subjectID int64, date string) ([]string, error)
}

type SubjectService interface {
	GetActiveSubjects(ctx context.Context) ([]models.Subject, error)
	GetSubjectByID(ctx context.Context, id int64) (*models.Subject, error)
}
