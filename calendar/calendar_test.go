package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func TestIsWorkingDay(t *testing.T) {
	c := New(nil)

	assert.True(t, c.IsWorkingDay(date(2025, time.February, 3, 10)), "Monday is a working day")
	assert.True(t, c.IsWorkingDay(date(2025, time.February, 8, 10)), "Saturday is a working day")
	assert.False(t, c.IsWorkingDay(date(2025, time.February, 9, 10)), "Sunday is not a working day")
	assert.False(t, c.IsWorkingDay(date(2025, time.August, 15, 10)), "Independence Day is a holiday")
}

func TestAddBusinessHoursZeroIsIdentity(t *testing.T) {
	c := New(nil)
	start := date(2025, time.February, 9, 3) // even on a Sunday at night
	assert.Equal(t, start, c.AddBusinessHours(start, 0))
}

func TestAddBusinessHoursSameDay(t *testing.T) {
	c := New(nil)
	start := date(2025, time.February, 3, 10) // Monday 10:00

	assert.Equal(t, date(2025, time.February, 3, 14), c.AddBusinessHours(start, 4))
	// Exactly consumes the rest of the day.
	assert.Equal(t, date(2025, time.February, 3, 18), c.AddBusinessHours(start, 8))
}

func TestAddBusinessHoursRollsToNextDay(t *testing.T) {
	c := New(nil)
	start := date(2025, time.February, 3, 10) // Monday 10:00

	// 8 hours left Monday, 1 spills into Tuesday.
	assert.Equal(t, date(2025, time.February, 4, 10), c.AddBusinessHours(start, 9))
}

func TestAddBusinessHoursAfterHoursStart(t *testing.T) {
	c := New(nil)
	start := date(2025, time.February, 8, 20) // Saturday 20:00, after close

	// Nothing left Saturday, Sunday skipped, lands Monday 11:00.
	assert.Equal(t, date(2025, time.February, 10, 11), c.AddBusinessHours(start, 2))
}

func TestAddBusinessHoursSkipsHolidays(t *testing.T) {
	c := New(nil)
	start := date(2025, time.August, 14, 17) // Thursday 17:00, Friday is a holiday

	// 1 hour Thursday, holiday Friday skipped, 2 remaining land Saturday 11:00.
	assert.Equal(t, date(2025, time.August, 16, 11), c.AddBusinessHours(start, 3))
}

func TestAddBusinessHoursMultiDaySpan(t *testing.T) {
	c := New(nil)
	start := date(2025, time.February, 3, 9) // Monday 09:00

	// 9h/day: 3 full days end Wednesday 18:00; 27 hours exact.
	assert.Equal(t, date(2025, time.February, 5, 18), c.AddBusinessHours(start, 27))
	// One more hour opens Thursday.
	assert.Equal(t, date(2025, time.February, 6, 10), c.AddBusinessHours(start, 28))
}

func TestAddBusinessHoursNeverLandsOutsideWorkingHours(t *testing.T) {
	c := New(nil)
	start := date(2025, time.February, 3, 9)

	for hours := 1; hours <= 60; hours++ {
		end := c.AddBusinessHours(start, hours)
		assert.True(t, c.IsWorkingDay(end), "hours=%d landed on non-working day %v", hours, end)
		assert.GreaterOrEqual(t, end.Hour(), c.StartHour, "hours=%d landed before opening: %v", hours, end)
		assert.LessOrEqual(t, end.Hour(), c.EndHour, "hours=%d landed after close: %v", hours, end)
	}
}
