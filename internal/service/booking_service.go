package service

import (
	"context"
	"errors"
	"time"

	"staffcal/internal/availability"
	"staffcal/internal/database"
	"staffcal/internal/domain"
	"staffcal/internal/events"
	"staffcal/internal/metrics"
	"staffcal/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// SnapshotInvalidator drops a subject's cached booking snapshot after a
// mutation so the next availability check sees fresh data.
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context, subjectID int64)
}

type BookingService struct {
	repo           domain.Repository
	eventBus       domain.EventPublisher
	exportWorker   domain.ExportWorker
	invalidator    SnapshotInvalidator
	maxBookingDays int
	logger         *zerolog.Logger
}

func NewBookingService(repo domain.Repository, eventBus domain.EventPublisher, exportWorker domain.ExportWorker, invalidator SnapshotInvalidator, maxBookingDays int, logger *zerolog.Logger) *BookingService {
	if maxBookingDays <= 0 {
		maxBookingDays = 365
	}
	return &BookingService{
		repo:           repo,
		eventBus:       eventBus,
		exportWorker:   exportWorker,
		invalidator:    invalidator,
		maxBookingDays: maxBookingDays,
		logger:         logger,
	}
}

func (s *BookingService) ValidateBookingDate(date time.Time) error {
	// Проверяем, что дата не в прошлом
	if date.Before(time.Now().AddDate(0, 0, -1)) {
		return database.ErrPastDate
	}

	// Проверяем максимальную дату
	maxDate := time.Now().AddDate(0, 0, s.maxBookingDays)
	if date.After(maxDate) {
		return database.ErrDateTooFar
	}

	return nil
}

func (s *BookingService) CreateBooking(ctx context.Context, booking *models.Booking) error {
	startDate, err := availability.ParseDate(booking.StartDate)
	if err != nil {
		return err
	}

	// Валидация даты
	if err := s.ValidateBookingDate(time.Date(startDate.Year, time.Month(startDate.Month), startDate.Day, 0, 0, 0, 0, time.Local)); err != nil {
		return err
	}

	applyTimingDefaults(booking)

	if booking.Ref == "" {
		booking.Ref = uuid.NewString()
	}
	if booking.Status == "" {
		booking.Status = models.StatusPending
	}

	// Создаем бронирование с проверкой конфликтов
	if err := s.repo.CreateBookingWithConflictCheck(ctx, booking); err != nil {
		if errors.Is(err, database.ErrConflict) {
			metrics.IncBookingConflict(booking.TimingMode)
		}
		return err
	}

	metrics.IncBookingCreated(booking.TimingMode)
	s.invalidate(ctx, booking.SubjectID)

	// Публикуем событие
	s.publishEvent(events.EventBookingCreated, booking)

	// Ставим задачу на обновление расписания
	s.enqueueRefresh(ctx)

	return nil
}

func (s *BookingService) ConfirmBooking(ctx context.Context, bookingID int64, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusConfirmed, events.EventBookingConfirmed)
}

func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusCancelled, events.EventBookingCancelled)
}

func (s *BookingService) CompleteBooking(ctx context.Context, bookingID int64, version int64) error {
	return s.transition(ctx, bookingID, version, models.StatusCompleted, events.EventBookingCompleted)
}

func (s *BookingService) transition(ctx context.Context, bookingID int64, version int64, status, eventType string) error {
	if err := s.repo.UpdateBookingStatusWithVersion(ctx, bookingID, version, status); err != nil {
		return err
	}

	booking, err := s.repo.GetBooking(ctx, bookingID)
	if err == nil {
		s.invalidate(ctx, booking.SubjectID)
		s.publishEvent(eventType, booking)
		s.enqueueRefresh(ctx)
	}

	return nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) GetBookingsByDateRange(ctx context.Context, start, end time.Time) ([]models.Booking, error) {
	return s.repo.GetBookingsByDateRange(ctx, start, end)
}

func (s *BookingService) GetDailyBookings(ctx context.Context, start, end time.Time) (map[string][]models.Booking, error) {
	return s.repo.GetDailyBookings(ctx, start, end)
}

// applyTimingDefaults normalizes the time fields per timing mode before the
// booking hits storage. Full day bookings carry the canonical whole-day
// window; multi day bookings fall back to a single day when EndDate is
// missing.
func applyTimingDefaults(booking *models.Booking) {
	switch booking.TimingMode {
	case models.ModeFullDay:
		booking.StartTime = models.FullDayStart
		booking.EndTime = models.FullDayEnd
		booking.EndDate = ""
	case models.ModeMultiDay:
		booking.StartTime = models.FullDayStart
		booking.EndTime = models.FullDayEnd
		if booking.EndDate == "" {
			booking.EndDate = booking.StartDate
		}
	case models.ModeHourly:
		booking.EndDate = ""
	}
}

func (s *BookingService) invalidate(ctx context.Context, subjectID int64) {
	if s.invalidator == nil {
		return
	}
	s.invalidator.Invalidate(ctx, subjectID)
}

func (s *BookingService) publishEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:   booking.ID,
		Ref:         booking.Ref,
		SubjectID:   booking.SubjectID,
		SubjectName: booking.SubjectName,
		EventName:   booking.EventName,
		TimingMode:  booking.TimingMode,
		Status:      booking.Status,
		StartDate:   booking.StartDate,
		EndDate:     booking.EndDate,
		StartTime:   booking.StartTime,
		EndTime:     booking.EndTime,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}

func (s *BookingService) enqueueRefresh(ctx context.Context) {
	if s.exportWorker == nil {
		return
	}

	now := time.Now()
	start := now.AddDate(0, -models.DefaultExportRangeMonthsBefore, 0)
	end := now.AddDate(0, models.DefaultExportRangeMonthsAfter, 0)

	if err := s.exportWorker.EnqueueRefresh(ctx, start, end); err != nil {
		s.logger.Error().Err(err).Msg("export refresh enqueue error")
	}
}
