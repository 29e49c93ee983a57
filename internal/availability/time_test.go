package availability

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		d, err := ParseDate("2025-06-10")
		require.NoError(t, err)
		assert.Equal(t, Date{Year: 2025, Month: 6, Day: 10}, d)
		assert.Equal(t, "2025-06-10", d.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, s := range []string{"", "2025-6-1", "10.06.2025", "2025-13-01", "garbage"} {
			_, err := ParseDate(s)
			assert.ErrorIs(t, err, ErrInvalidDate, "input %q", s)
		}
	})

	t.Run("Compare", func(t *testing.T) {
		a, _ := ParseDate("2025-06-10")
		b, _ := ParseDate("2025-06-11")
		assert.Equal(t, -1, a.Compare(b))
		assert.Equal(t, 1, b.Compare(a))
		assert.Equal(t, 0, a.Compare(a))
	})

	t.Run("Zero", func(t *testing.T) {
		assert.True(t, Date{}.IsZero())
		d, _ := ParseDate("2025-01-01")
		assert.False(t, d.IsZero())
	})
}

func TestParseClock(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		c, err := ParseClock("14:30")
		require.NoError(t, err)
		assert.Equal(t, Clock(14*60+30), c)
		assert.Equal(t, "14:30", c.String())
	})

	t.Run("Midnight", func(t *testing.T) {
		c, err := ParseClock("00:00")
		require.NoError(t, err)
		assert.Equal(t, Clock(0), c)
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, s := range []string{"", "9:30", "24:00", "14:60", "14h30"} {
			_, err := ParseClock(s)
			assert.ErrorIs(t, err, ErrInvalidClock, "input %q", s)
		}
	})
}

func TestParseSlot(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		s, err := ParseSlot("10:00-11:00")
		require.NoError(t, err)
		assert.Equal(t, Slot{Start: 600, End: 660}, s)
		assert.Equal(t, "10:00-11:00", s.String())
	})

	t.Run("WraparoundLabel", func(t *testing.T) {
		s, err := ParseSlot("23:00-00:00")
		require.NoError(t, err)
		assert.Equal(t, Slot{Start: 1380, End: 1440}, s)
		assert.Equal(t, "23:00-00:00", s.String())
	})

	t.Run("Invalid", func(t *testing.T) {
		for _, s := range []string{"", "10:00", "10:00-09:00", "10:00-10:00", "25:00-26:00"} {
			_, err := ParseSlot(s)
			assert.ErrorIs(t, err, ErrInvalidSlot, "input %q", s)
		}
	})
}

func TestDaySlots(t *testing.T) {
	slots := DaySlots()
	require.Len(t, slots, 24)
	assert.Equal(t, "00:00-01:00", slots[0].String())
	assert.Equal(t, "23:00-00:00", slots[23].String())

	// Contiguous: each slot ends where the next begins.
	for i := 1; i < len(slots); i++ {
		assert.Equal(t, slots[i-1].End, slots[i].Start)
	}
}
