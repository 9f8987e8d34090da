package slot

import (
	"sort"
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "03:04 PM"

	DaysAhead   = 7
	StepMinutes = 30
	OpenHour    = 10
	CloseHour   = 21
)

// Slot is one bookable half hour.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Day groups the open slots of a single calendar date.
type Day struct {
	Date  string `json:"date"`
	Slots []Slot `json:"slots"`
}

// BookedSlots maps an ISO date to the reserved time strings of that date.
type BookedSlots map[string][]string

func (b BookedSlots) Contains(date, t string) bool {
	for _, booked := range b[date] {
		if booked == t {
			return true
		}
	}
	return false
}

// Add records a reservation. A pair already present is left as is.
func (b BookedSlots) Add(date, t string) {
	if b.Contains(date, t) {
		return
	}
	b[date] = append(b[date], t)
}

// Remove drops a reservation. Removing a missing pair is a no-op.
func (b BookedSlots) Remove(date, t string) {
	times, ok := b[date]
	if !ok {
		return
	}
	kept := times[:0]
	for _, booked := range times {
		if booked != t {
			kept = append(kept, booked)
		}
	}
	b[date] = kept
}

// Dates returns the dates with at least one entry, ascending.
func (b BookedSlots) Dates() []string {
	dates := make([]string, 0, len(b))
	for date, times := range b {
		if len(times) > 0 {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}

// Generate returns today plus the next six days of open half-hour slots between
// 10:00 and 21:00 in now's location. Today starts at the later of 10:00 and now
// rounded up to the next half hour, so a late call yields an empty first day.
func Generate(booked BookedSlots, now time.Time) []Day {
	loc := now.Location()
	year, month, day := now.Date()
	days := make([]Day, 0, DaysAhead)

	for i := 0; i < DaysAhead; i++ {
		startMinute := OpenHour * 60
		if i == 0 {
			if rounded := roundUpMinutes(now); rounded > startMinute {
				startMinute = rounded
			}
		}

		date := time.Date(year, month, day+i, 0, 0, 0, 0, loc).Format(DateLayout)
		current := Day{Date: date, Slots: []Slot{}}

		for m := startMinute; m < CloseHour*60; m += StepMinutes {
			at := time.Date(year, month, day+i, m/60, m%60, 0, 0, loc)
			formatted := at.Format(TimeLayout)
			if booked.Contains(date, formatted) {
				continue
			}
			current.Slots = append(current.Slots, Slot{Date: date, Time: formatted})
		}

		days = append(days, current)
	}

	return days
}

// roundUpMinutes returns minutes since midnight rounded up to the next step.
func roundUpMinutes(now time.Time) int {
	minutes := now.Hour()*60 + now.Minute()
	if minutes%StepMinutes == 0 && now.Second() == 0 && now.Nanosecond() == 0 {
		return minutes
	}
	return (minutes/StepMinutes + 1) * StepMinutes
}

// ValidDate reports whether s is an ISO calendar date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// ValidTime reports whether s is a slot time string on the half-hour grid inside opening hours.
func ValidTime(s string) bool {
	t, err := time.Parse(TimeLayout, s)
	if err != nil || t.Format(TimeLayout) != s {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes%StepMinutes == 0 && minutes >= OpenHour*60 && minutes < CloseHour*60
}
