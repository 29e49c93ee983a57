package models

import "time"

// Booking is one occupancy of a subject for an event. Dates are stored as
// YYYY-MM-DD and times as HH:MM, the wire format of the availability
// calendar API. An empty EndDate means a single-day booking; empty time
// fields mean the booking occupies the whole day(s).
type Booking struct {
	ID          int64     `json:"id"`
	Ref         string    `json:"ref"`
	SubjectID   int64     `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	EventID     int64     `json:"event_id"`
	EventName   string    `json:"event_name"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date,omitempty"`
	StartTime   string    `json:"start_time,omitempty"`
	EndTime     string    `json:"end_time,omitempty"`
	TimingMode  string    `json:"timing_mode"`
	Status      string    `json:"status"` // pending, confirmed, cancelled, completed
	GuestCount  int64     `json:"guest_count"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Version     int64     `json:"version"`
}

// EffectiveEndDate returns EndDate, falling back to StartDate for
// single-day bookings.
func (b *Booking) EffectiveEndDate() string {
	if b.EndDate == "" {
		return b.StartDate
	}
	return b.EndDate
}
