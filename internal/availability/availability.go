package availability

import "staffcal/internal/models"

// dateSpan returns the inclusive date range a booking occupies. A booking
// with no end date is a single-day booking. Bookings whose start date does
// not parse carry no usable information and are skipped by the predicates.
func dateSpan(b *models.Booking) (start, end Date, ok bool) {
	start, err := ParseDate(b.StartDate)
	if err != nil {
		return Date{}, Date{}, false
	}
	end = start
	if b.EndDate != "" {
		if e, err := ParseDate(b.EndDate); err == nil {
			end = e
		}
	}
	return start, end, true
}

// timeWindow returns the booking's clock window. ok is false for full-day
// bookings and for bookings with partial or malformed time fields, which
// are treated as occupying the whole day. This is the single place that
// rule lives.
func timeWindow(b *models.Booking) (Slot, bool) {
	if b.StartTime == "" || b.EndTime == "" {
		return Slot{}, false
	}
	start, err := ParseClock(b.StartTime)
	if err != nil {
		return Slot{}, false
	}
	end, err := ParseClock(b.EndTime)
	if err != nil {
		return Slot{}, false
	}
	if end == 0 {
		end = endOfDay
	}
	if end <= start {
		return Slot{}, false
	}
	return Slot{Start: start, End: end}, true
}

func containsDate(b *models.Booking, date Date) bool {
	start, end, ok := dateSpan(b)
	if !ok {
		return false
	}
	return start.Compare(date) <= 0 && date.Compare(end) <= 0
}

// IsDateBooked reports whether any booking occupies the given date. A zero
// date or empty snapshot never conflicts.
func IsDateBooked(bookings []models.Booking, date Date) bool {
	if date.IsZero() {
		return false
	}
	for i := range bookings {
		if containsDate(&bookings[i], date) {
			return true
		}
	}
	return false
}

// IsDateRangeBooked reports whether the closed range [start, end] intersects
// any booking's date range. Touching endpoints conflict: a booking occupies
// its boundary dates fully. An inverted or incomplete range never conflicts;
// callers validate ranges before asking.
func IsDateRangeBooked(bookings []models.Booking, start, end Date) bool {
	if start.IsZero() || end.IsZero() || end.Compare(start) < 0 {
		return false
	}
	for i := range bookings {
		bStart, bEnd, ok := dateSpan(&bookings[i])
		if !ok {
			continue
		}
		if start.Compare(bEnd) <= 0 && bStart.Compare(end) <= 0 {
			return true
		}
	}
	return false
}

// IsTimeSlotBooked reports whether the hourly slot on the given date is
// occupied. A full-day booking blocks every slot on its dates. Timed
// bookings block on half-open overlap, so adjacent slots never conflict:
// a 09:00-10:00 booking leaves 10:00-11:00 free.
func IsTimeSlotBooked(bookings []models.Booking, date Date, slot Slot) bool {
	if date.IsZero() || slot == (Slot{}) {
		return false
	}
	for i := range bookings {
		b := &bookings[i]
		if !containsDate(b, date) {
			continue
		}
		w, timed := timeWindow(b)
		if !timed {
			return true
		}
		if slot.Start < w.End && w.Start < slot.End {
			return true
		}
	}
	return false
}

// FreeSlots returns the hourly slots on date not blocked by any booking.
func FreeSlots(bookings []models.Booking, date Date) []Slot {
	slots := DaySlots()
	free := slots[:0]
	for _, s := range slots {
		if !IsTimeSlotBooked(bookings, date, s) {
			free = append(free, s)
		}
	}
	return free
}

// BookingsOnDate returns the bookings whose date range contains date.
func BookingsOnDate(bookings []models.Booking, date Date) []models.Booking {
	var out []models.Booking
	for i := range bookings {
		if containsDate(&bookings[i], date) {
			out = append(out, bookings[i])
		}
	}
	return out
}
