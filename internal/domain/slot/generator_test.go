package slot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(hour, minute, second int) time.Time {
	return time.Date(2025, time.June, 10, hour, minute, second, 0, time.UTC)
}

func times(day Day) []string {
	out := make([]string, len(day.Slots))
	for i, s := range day.Slots {
		out[i] = s.Time
	}
	return out
}

func TestGenerate_FullGridForFutureDays(t *testing.T) {
	days := Generate(BookedSlots{}, at(8, 0, 0))
	require.Len(t, days, DaysAhead)

	for i := 1; i < DaysAhead; i++ {
		slots := times(days[i])
		require.Len(t, slots, 22, "day %d", i)
		assert.Equal(t, "10:00 AM", slots[0])
		assert.Equal(t, "08:30 PM", slots[len(slots)-1])
	}

	assert.Equal(t, "2025-06-10", days[0].Date)
	assert.Equal(t, "2025-06-16", days[6].Date)
}

func TestGenerate_FirstDayStart(t *testing.T) {
	tests := []struct {
		name  string
		now   time.Time
		first string
		count int
	}{
		{name: "before opening", now: at(7, 45, 0), first: "10:00 AM", count: 22},
		{name: "exactly on the half hour", now: at(14, 30, 0), first: "02:30 PM", count: 13},
		{name: "rounds up to next half hour", now: at(14, 5, 0), first: "02:30 PM", count: 13},
		{name: "seconds past the half hour", now: at(14, 30, 1), first: "03:00 PM", count: 12},
		{name: "last slot of the day", now: at(20, 10, 0), first: "08:30 PM", count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			days := Generate(BookedSlots{}, tt.now)
			slots := times(days[0])
			require.Len(t, slots, tt.count)
			assert.Equal(t, tt.first, slots[0])
		})
	}
}

func TestGenerate_LateDayIsEmpty(t *testing.T) {
	days := Generate(BookedSlots{}, at(21, 15, 0))
	require.Len(t, days, DaysAhead)
	assert.Empty(t, days[0].Slots)
	assert.Len(t, days[1].Slots, 22)
}

func TestGenerate_ExcludesBooked(t *testing.T) {
	booked := BookedSlots{
		"2025-06-11": {"10:00 AM", "03:30 PM"},
		"2025-06-12": {"08:30 PM"},
	}

	days := Generate(booked, at(9, 0, 0))

	for _, day := range days {
		for _, s := range day.Slots {
			assert.False(t, booked.Contains(s.Date, s.Time), "%s %s should be excluded", s.Date, s.Time)
		}
	}
	assert.Len(t, days[1].Slots, 20)
	assert.Len(t, days[2].Slots, 21)
	assert.Len(t, days[3].Slots, 22)
}

func TestGenerate_IsPure(t *testing.T) {
	booked := BookedSlots{"2025-06-10": {"11:00 AM"}}
	now := at(10, 20, 0)

	assert.Equal(t, Generate(booked, now), Generate(booked, now))
	assert.Equal(t, []string{"11:00 AM"}, booked["2025-06-10"])
}

func TestBookedSlots_AddRemove(t *testing.T) {
	b := BookedSlots{}
	b.Add("2025-06-10", "10:00 AM")
	b.Add("2025-06-10", "10:00 AM")
	assert.Equal(t, []string{"10:00 AM"}, b["2025-06-10"])

	b.Remove("2025-06-10", "10:00 AM")
	assert.Empty(t, b["2025-06-10"])
	assert.False(t, b.Contains("2025-06-10", "10:00 AM"))

	b.Remove("2025-06-11", "10:00 AM")
	assert.Empty(t, b.Dates())
}

func TestValidTime(t *testing.T) {
	assert.True(t, ValidTime("10:00 AM"))
	assert.True(t, ValidTime("08:30 PM"))
	assert.False(t, ValidTime("9:00 PM"))
	assert.False(t, ValidTime("09:00 PM"[:5]))
	assert.False(t, ValidTime("09:15 PM"))
	assert.False(t, ValidTime("09:00 PM"))
	assert.False(t, ValidTime("09:30 AM"))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-06-10"))
	assert.False(t, ValidDate("10-06-2025"))
	assert.False(t, ValidDate("2025-13-01"))
}
