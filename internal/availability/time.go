// Package availability decides whether a proposed date, date range or hourly
// time slot collides with a subject's existing bookings. All functions are
// pure: the booking snapshot is passed in explicitly and nothing is cached.
package availability

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidDate   = errors.New("invalid date, expected YYYY-MM-DD")
	ErrInvalidClock  = errors.New("invalid time, expected HH:MM")
	ErrInvalidSlot   = errors.New("invalid slot, expected HH:MM-HH:MM")
	ErrInvertedRange = errors.New("range end is before range start")
)

// Date is a calendar day. The zero value is "no date".
type Date struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses a zero-padded ISO date. Comparison of parsed dates is
// numeric, so a format change can never reintroduce lexicographic bugs.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}, nil
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) ordinal() int {
	return d.Year*10000 + d.Month*100 + d.Day
}

// Compare returns -1, 0 or 1 as d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.ordinal() < o.ordinal():
		return -1
	case d.ordinal() > o.ordinal():
		return 1
	default:
		return 0
	}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Clock is a time of day in minutes since midnight.
type Clock int

const endOfDay Clock = 24 * 60

// ParseClock parses a 24-hour HH:MM string.
func ParseClock(s string) (Clock, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock(t.Hour()*60 + t.Minute()), nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", int(c)/60, int(c)%60)
}

// Slot is a half-open time window [Start, End) within a single day.
type Slot struct {
	Start Clock
	End   Clock
}

// ParseSlot parses "HH:MM-HH:MM". An end of 00:00 is read as end of day, so
// the generated "23:00-00:00" slot means the last hour of the queried date.
// Slots never cross midnight.
func ParseSlot(s string) (Slot, error) {
	startStr, endStr, ok := strings.Cut(s, "-")
	if !ok {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	start, err := ParseClock(startStr)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	end, err := ParseClock(endStr)
	if err != nil {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	if end == 0 {
		end = endOfDay
	}
	if end <= start {
		return Slot{}, fmt.Errorf("%w: %q", ErrInvalidSlot, s)
	}
	return Slot{Start: start, End: end}, nil
}

// String prints the slot with a modulo-24 end label, matching the calendar
// UI: the last slot of the day reads "23:00-00:00".
func (s Slot) String() string {
	return s.Start.String() + "-" + Clock(int(s.End)%int(endOfDay)).String()
}

// DaySlots returns the 24 contiguous hourly windows of a day.
func DaySlots() []Slot {
	slots := make([]Slot, 0, 24)
	for h := 0; h < 24; h++ {
		slots = append(slots, Slot{Start: Clock(h * 60), End: Clock((h + 1) * 60)})
	}
	return slots
}
