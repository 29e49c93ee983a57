package service

import (
	"context"
	"fmt"

	"staffcal/internal/availability"
	"staffcal/internal/domain"
	"staffcal/internal/metrics"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
)

// AvailabilityService answers conflict queries against a subject's booking
// snapshot. Empty query inputs degrade to "not booked" rather than an error,
// matching the calendar UI which probes availability before the user has
// finished picking dates.
type AvailabilityService struct {
	source domain.BookingSource
	logger *zerolog.Logger
}

func NewAvailabilityService(source domain.BookingSource, logger *zerolog.Logger) *AvailabilityService {
	return &AvailabilityService{
		source: source,
		logger: logger,
	}
}

// SubjectBookings returns the active booking snapshot for a subject.
func (s *AvailabilityService) SubjectBookings(ctx context.Context, subjectID int64) ([]models.Booking, error) {
	return s.source.BookingsForSubject(ctx, subjectID)
}

// CheckDate reports whether the subject is occupied on the given day.
func (s *AvailabilityService) CheckDate(ctx context.Context, subjectID int64, date string) (bool, error) {
	if date == "" {
		return false, nil
	}
	day, err := availability.ParseDate(date)
	if err != nil {
		return false, err
	}

	bookings, err := s.source.BookingsForSubject(ctx, subjectID)
	if err != nil {
		return false, err
	}

	booked := availability.IsDateBooked(bookings, day)
	metrics.IncAvailabilityCheck("date", booked)
	return booked, nil
}

// CheckRange reports whether any day of the inclusive range is occupied.
// A range whose end precedes its start is rejected with ErrInvertedRange.
func (s *AvailabilityService) CheckRange(ctx context.Context, subjectID int64, start, end string) (bool, error) {
	if start == "" || end == "" {
		return false, nil
	}
	from, err := availability.ParseDate(start)
	if err != nil {
		return false, err
	}
	to, err := availability.ParseDate(end)
	if err != nil {
		return false, err
	}
	if to.Compare(from) < 0 {
		return false, fmt.Errorf("%w: %s > %s", availability.ErrInvertedRange, start, end)
	}

	bookings, err := s.source.BookingsForSubject(ctx, subjectID)
	if err != nil {
		return false, err
	}

	booked := availability.IsDateRangeBooked(bookings, from, to)
	metrics.IncAvailabilityCheck("range", booked)
	return booked, nil
}

// CheckSlot reports whether an hourly slot on the given day is occupied.
func (s *AvailabilityService) CheckSlot(ctx context.Context, subjectID int64, date, slot string) (bool, error) {
	if date == "" || slot == "" {
		return false, nil
	}
	day, err := availability.ParseDate(date)
	if err != nil {
		return false, err
	}
	window, err := availability.ParseSlot(slot)
	if err != nil {
		return false, err
	}

	bookings, err := s.source.BookingsForSubject(ctx, subjectID)
	if err != nil {
		return false, err
	}

	booked := availability.IsTimeSlotBooked(bookings, day, window)
	metrics.IncAvailabilityCheck("slot", booked)
	return booked, nil
}

// FreeSlots returns the hourly slots still open on the given day.
func (s *AvailabilityService) FreeSlots(ctx context.Context, subjectID int64, date string) ([]string, error) {
	day, err := availability.ParseDate(date)
	if err != nil {
		return nil, err
	}

	bookings, err := s.source.BookingsForSubject(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	free := availability.FreeSlots(bookings, day)
	labels := make([]string, 0, len(free))
	for _, slot := range free {
		labels = append(labels, slot.String())
	}
	return labels, nil
}
