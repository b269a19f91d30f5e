// Package calendar implements working-day and business-hour arithmetic for
// SLA deadline calculations.
package calendar

import "time"

// BusinessCalendar defines working hours, working days and holidays.
// Working hours run [StartHour, EndHour) on working days.
type BusinessCalendar struct {
	StartHour   int
	EndHour     int
	WorkingDays map[time.Weekday]bool
	Holidays    map[string]bool // ISO dates, "2006-01-02"
}

// DefaultHolidays are the gazetted holidays observed when none are configured.
var DefaultHolidays = []string{
	"2025-01-26", // Republic Day
	"2025-08-15", // Independence Day
	"2025-10-02", // Gandhi Jayanti
	"2025-12-25", // Christmas
	"2026-01-26",
	"2026-08-15",
	"2026-10-02",
	"2026-12-25",
}

// New returns a calendar with the given holidays. Working days are Monday
// through Saturday, 9:00-18:00.
func New(holidays []string) *BusinessCalendar {
	if len(holidays) == 0 {
		holidays = DefaultHolidays
	}
	hm := make(map[string]bool, len(holidays))
	for _, h := range holidays {
		hm[h] = true
	}
	return &BusinessCalendar{
		StartHour: 9,
		EndHour:   18,
		WorkingDays: map[time.Weekday]bool{
			time.Monday:    true,
			time.Tuesday:   true,
			time.Wednesday: true,
			time.Thursday:  true,
			time.Friday:    true,
			time.Saturday:  true,
		},
		Holidays: hm,
	}
}

// IsWorkingDay reports whether the date falls on a working weekday that is
// not a configured holiday.
func (c *BusinessCalendar) IsWorkingDay(t time.Time) bool {
	if !c.WorkingDays[t.Weekday()] {
		return false
	}
	return !c.Holidays[t.Format("2006-01-02")]
}

// IsWithinWorkingHours reports whether t falls inside working hours on a
// working day.
func (c *BusinessCalendar) IsWithinWorkingHours(t time.Time) bool {
	if !c.IsWorkingDay(t) {
		return false
	}
	return t.Hour() >= c.StartHour && t.Hour() < c.EndHour
}

// startOfNextWorkingDay moves t to the opening hour of the following day.
func (c *BusinessCalendar) startOfNextDay(t time.Time) time.Time {
	next := t.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), c.StartHour, 0, 0, 0, next.Location())
}

// AddBusinessHours adds the given number of working hours to start, skipping
// non-working days entirely and consuming at most EndHour-StartHour hours per
// day. AddBusinessHours(start, 0) == start.
func (c *BusinessCalendar) AddBusinessHours(start time.Time, hours int) time.Time {
	current := start
	remaining := hours

	for remaining > 0 {
		for !c.IsWorkingDay(current) {
			current = c.startOfNextDay(current)
		}
		if current.Hour() < c.StartHour {
			current = time.Date(current.Year(), current.Month(), current.Day(), c.StartHour, 0, 0, 0, current.Location())
		}

		hoursLeftToday := c.EndHour - current.Hour()
		if hoursLeftToday < 0 {
			hoursLeftToday = 0
		}

		if remaining <= hoursLeftToday {
			current = current.Add(time.Duration(remaining) * time.Hour)
			remaining = 0
		} else {
			remaining -= hoursLeftToday
			current = c.startOfNextDay(current)
		}
	}

	return current
}
