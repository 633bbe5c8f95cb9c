package sesame

import (
	"context"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
)

// WindowWorkingDay is the only window label this provider uses.
const WindowWorkingDay = "working_day"

// announcedHours is what the progress line prints for every day. It does not
// match the submitted 07:00-16:00 window; the line has always read this way
// and users compare logs against it.
const announcedHours = "08:00 - 17:00 (lunch 13:00 - 14:00)"

// WorkingDay builds the single window of day: 07:00 to 16:00 with a lunch
// break from 11:00 to 12:00, in loc's offset for that date.
func WorkingDay(day time.Time, loc *time.Location) shift.ShiftWindow {
	y, m, d := day.Date()
	at := func(hour int) time.Time {
		return time.Date(y, m, d, hour, 0, 0, 0, loc)
	}
	return shift.ShiftWindow{
		Label:    WindowWorkingDay,
		ClockIn:  at(7),
		ClockOut: at(16),
		Lunch:    &shift.Interval{Start: at(11), End: at(12)},
	}
}

// ScheduleDay implements shift.Provider with one work entry per day.
func (c *Client) ScheduleDay(ctx context.Context, employeeID string, day time.Time, auth string, sink shift.LineSink) shift.DayOutcome {
	date := day.Format(shift.DateLayout)
	var outcome shift.DayOutcome

	w := WorkingDay(day, c.loc)
	shift.Emitf(sink, "Scheduling working day for %s: %s", date, announcedHours)

	entry := WorkEntryRequest{
		EmployeeID: employeeID,
		Date:       date,
		ClockIn:    w.ClockIn.Format(time.RFC3339),
		ClockOut:   w.ClockOut.Format(time.RFC3339),
		Breaks: []BreakEntry{
			{Start: w.Lunch.Start.Format(time.RFC3339), End: w.Lunch.End.Format(time.RFC3339)},
		},
		Origin: "web",
	}

	resp, err := c.CreateWorkEntry(ctx, entry, auth)
	if err != nil {
		outcome.Add(w.Label, err.Error())
		shift.Emitf(sink, "  Error for %s: %s", w.Label, err.Error())
		return outcome
	}

	if len(resp.Errors) > 0 {
		msgs := make([]string, 0, len(resp.Errors))
		for _, e := range resp.Errors {
			msgs = append(msgs, e.FirstMessage())
		}
		msg := strings.Join(msgs, " | ")
		outcome.Add(w.Label, msg)
		shift.Emitf(sink, "  Error for %s: %s", w.Label, msg)
	}
	return outcome
}
