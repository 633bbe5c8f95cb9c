package shift

import "time"

// IsWeekday reports whether t falls on Monday to Friday.
func IsWeekday(t time.Time) bool {
	wd := t.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}

// DaysInMonth lists every calendar day of the month at UTC midnight.
func DaysInMonth(year int, month time.Month) []time.Time {
	first := Date(year, month, 1)
	last := first.AddDate(0, 1, -1)
	return daysBetween(first, last)
}

// Weekdays lists the Monday to Friday days in [from, to].
func Weekdays(from, to time.Time) []time.Time {
	var out []time.Time
	for _, d := range daysBetween(from, to) {
		if IsWeekday(d) {
			out = append(out, d)
		}
	}
	return out
}

// Today returns the calendar date of now (in now's location) at UTC midnight,
// comparable with the days produced by this package.
func Today(now time.Time) time.Time {
	return Date(now.Year(), now.Month(), now.Day())
}

// ClampToToday returns the month range [first, min(last, today)]. ok is
// false when the whole month is in the future.
func ClampToToday(year int, month time.Month, now time.Time) (from, to time.Time, ok bool) {
	from = Date(year, month, 1)
	to = from.AddDate(0, 1, -1)
	today := Today(now)
	if from.After(today) {
		return from, to, false
	}
	if to.After(today) {
		to = today
	}
	return from, to, true
}

func daysBetween(from, to time.Time) []time.Time {
	var out []time.Time
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
