package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekdays_February2025(t *testing.T) {
	days := Weekdays(Date(2025, time.February, 1), Date(2025, time.February, 28))

	assert.Len(t, days, 20)
	assert.Equal(t, Date(2025, time.February, 3), days[0])
	assert.Equal(t, Date(2025, time.February, 28), days[len(days)-1])
	for _, d := range days {
		assert.True(t, IsWeekday(d), d.Format(DateLayout))
	}
}

func TestDaysInMonth(t *testing.T) {
	assert.Len(t, DaysInMonth(2025, time.February), 28)
	assert.Len(t, DaysInMonth(2024, time.February), 29)
	assert.Len(t, DaysInMonth(2025, time.December), 31)
}

func TestClampToToday(t *testing.T) {
	now := time.Date(2025, time.May, 7, 23, 10, 0, 0, time.UTC)

	from, to, ok := ClampToToday(2025, time.May, now)
	assert.True(t, ok)
	assert.Equal(t, Date(2025, time.May, 1), from)
	assert.Equal(t, Date(2025, time.May, 7), to)

	from, to, ok = ClampToToday(2025, time.April, now)
	assert.True(t, ok)
	assert.Equal(t, Date(2025, time.April, 1), from)
	assert.Equal(t, Date(2025, time.April, 30), to)

	_, _, ok = ClampToToday(2025, time.June, now)
	assert.False(t, ok)
}

func TestToday_UsesLocalCalendarDate(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	now := time.Date(2025, time.May, 8, 1, 0, 0, 0, tokyo)

	assert.Equal(t, Date(2025, time.May, 8), Today(now))
}
