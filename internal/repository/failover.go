package repository

import (
	"context"
	"sync/atomic"
	"time"

	"staffcal/internal/domain"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
)

// FailoverBookingSource serves snapshots from the primary source and falls
// back to the secondary when the primary errors, probing the primary again
// after a minute.
type FailoverBookingSource struct {
	primary   domain.BookingSource
	fallback  domain.BookingSource
	logger    *zerolog.Logger
	isDown    atomic.Bool
	lastCheck atomic.Int64
}

func NewFailoverBookingSource(primary, fallback domain.BookingSource, logger *zerolog.Logger) *FailoverBookingSource {
	return &FailoverBookingSource{
		primary:  primary,
		fallback: fallback,
		logger:   logger,
	}
}

func (r *FailoverBookingSource) BookingsForSubject(ctx context.Context, subjectID int64) ([]models.Booking, error) {
	if !r.isDown.Load() {
		bookings, err := r.primary.BookingsForSubject(ctx, subjectID)
		if err == nil {
			return bookings, nil
		}
		r.logger.Error().Err(err).Msg("Primary booking source failed, falling back")
		r.isDown.Store(true)
		r.lastCheck.Store(time.Now().UnixNano())
	}

	// Try to recover after 1 minute
	if r.isDown.Load() && time.Since(time.Unix(0, r.lastCheck.Load())) > time.Minute {
		bookings, err := r.primary.BookingsForSubject(ctx, subjectID)
		if err == nil {
			r.isDown.Store(false)
			return bookings, nil
		}
		r.lastCheck.Store(time.Now().UnixNano())
	}

	return r.fallback.BookingsForSubject(ctx, subjectID)
}
