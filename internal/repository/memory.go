package repository

import (
	"context"
	"sync"
	"time"

	"staffcal/internal/models"
)

// MemoryBookingCache is the in-process fallback snapshot cache, used when
// Redis is unavailable or not configured.
type MemoryBookingCache struct {
	snapshots sync.Map
	ttl       time.Duration
}

type snapshotEntry struct {
	bookings  []models.Booking
	expiresAt time.Time
}

func NewMemoryBookingCache(ttl time.Duration) *MemoryBookingCache {
	return &MemoryBookingCache{
		ttl: ttl,
	}
}

func (r *MemoryBookingCache) GetSnapshot(ctx context.Context, subjectID int64) ([]models.Booking, bool, error) {
	val, ok := r.snapshots.Load(subjectID)
	if !ok {
		return nil, false, nil
	}
	entry := val.(*snapshotEntry)
	if time.Now().After(entry.expiresAt) {
		r.snapshots.Delete(subjectID)
		return nil, false, nil
	}
	return entry.bookings, true, nil
}

func (r *MemoryBookingCache) SetSnapshot(ctx context.Context, subjectID int64, bookings []models.Booking) error {
	r.snapshots.Store(subjectID, &snapshotEntry{
		bookings:  bookings,
		expiresAt: time.Now().Add(r.ttl),
	})
	return nil
}

func (r *MemoryBookingCache) InvalidateSubject(ctx context.Context, subjectID int64) error {
	r.snapshots.Delete(subjectID)
	return nil
}
