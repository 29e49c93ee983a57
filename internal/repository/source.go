package repository

import (
	"context"

	"staffcal/internal/domain"
	"staffcal/internal/models"

	"github.com/rs/zerolog"
)

// CachedBookingSource serves per-subject snapshots through a SnapshotCache,
// falling through to the repository on a miss. Snapshot staleness lives
// entirely here; the conflict engine stays correct for whatever snapshot
// it is handed.
type CachedBookingSource struct {
	repo   domain.Repository
	cache  domain.SnapshotCache
	logger *zerolog.Logger
}

func NewCachedBookingSource(repo domain.Repository, cache domain.SnapshotCache, logger *zerolog.Logger) *CachedBookingSource {
	return &CachedBookingSource{
		repo:   repo,
		cache:  cache,
		logger: logger,
	}
}

func (s *CachedBookingSource) BookingsForSubject(ctx context.Context, subjectID int64) ([]models.Booking, error) {
	if subjectID == 0 {
		return nil, nil
	}

	if bookings, ok, err := s.cache.GetSnapshot(ctx, subjectID); err == nil && ok {
		return bookings, nil
	} else if err != nil {
		s.logger.Warn().Err(err).Int64("subject_id", subjectID).Msg("snapshot cache read failed")
	}

	bookings, err := s.repo.GetSubjectBookings(ctx, subjectID)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetSnapshot(ctx, subjectID, bookings); err != nil {
		s.logger.Warn().Err(err).Int64("subject_id", subjectID).Msg("snapshot cache write failed")
	}

	return bookings, nil
}

// Invalidate drops a subject's cached snapshot after a mutation.
func (s *CachedBookingSource) Invalidate(ctx context.Context, subjectID int64) {
	if subjectID == 0 {
		return
	}
	if err := s.cache.InvalidateSubject(ctx, subjectID); err != nil {
		s.logger.Warn().Err(err).Int64("subject_id", subjectID).Msg("snapshot cache invalidate failed")
	}
}

// Invalidator drops a subject's cached snapshot.
type Invalidator interface {
	Invalidate(ctx context.Context, subjectID int64)
}

// MultiInvalidator fans an invalidation out to every configured cache, so a
// mutation clears both redis and the in-memory fallback.
type MultiInvalidator []Invalidator

func (m MultiInvalidator) Invalidate(ctx context.Context, subjectID int64) {
	for _, inv := range m {
		inv.Invalidate(ctx, subjectID)
	}
}
