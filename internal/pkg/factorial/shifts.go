package factorial

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
)

// Window labels, in submission order.
const (
	WindowMorning    = "morning"
	WindowLunchBreak = "lunch_break"
	WindowAfternoon  = "afternoon"
)

// timestampLayout matches the web client: 2025-02-03T09:00:00.000Z.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

type windowHours struct {
	label     string
	startHour int
	endHour   int
}

var dailySchedule = []windowHours{
	{label: WindowMorning, startHour: 9, endHour: 13},
	{label: WindowLunchBreak, startHour: 13, endHour: 14},
	{label: WindowAfternoon, startHour: 15, endHour: 18},
}

// Windows builds the three UTC shift windows for day.
func Windows(day time.Time) []shift.ShiftWindow {
	y, m, d := day.Date()
	windows := make([]shift.ShiftWindow, 0, len(dailySchedule))
	for _, h := range dailySchedule {
		windows = append(windows, shift.ShiftWindow{
			Label:    h.label,
			ClockIn:  time.Date(y, m, d, h.startHour, 0, 0, 0, time.UTC),
			ClockOut: time.Date(y, m, d, h.endHour, 0, 0, 0, time.UTC),
		})
	}
	return windows
}

// ScheduleDay implements shift.Provider. Each window is its own mutation;
// a failing window does not stop the next one.
func (c *Client) ScheduleDay(ctx context.Context, employeeID string, day time.Time, auth string, sink shift.LineSink) shift.DayOutcome {
	date := day.Format(shift.DateLayout)
	var outcome shift.DayOutcome

	shift.Emitf(sink, "Scheduling shifts for %s:", date)
	id, idErr := parseEmployeeID(employeeID)

	for _, w := range Windows(day) {
		span := fmt.Sprintf("%s - %s", w.ClockIn.Format("15:04"), w.ClockOut.Format("15:04"))
		shift.Emitf(sink, "  %s: %s", w.Label, span)

		if idErr != nil {
			outcome.Add(w.Label, idErr.Error())
			shift.Emitf(sink, "  Error for %s: %s", w.Label, idErr.Error())
			continue
		}

		resp, err := c.CreateAttendanceShift(ctx, id, date,
			w.ClockIn.Format(timestampLayout), w.ClockOut.Format(timestampLayout), auth)
		if err != nil {
			outcome.Add(w.Label, err.Error())
			shift.Emitf(sink, "  Error for %s: %s", w.Label, err.Error())
			continue
		}

		appErrs := resp.ApplicationErrors()
		if len(appErrs) == 0 {
			continue
		}
		msgs := make([]string, 0, len(appErrs))
		for _, e := range appErrs {
			msgs = append(msgs, e.FirstMessage())
		}
		msg := span + ": " + strings.Join(msgs, " | ")
		outcome.Add(w.Label, msg)
		shift.Emitf(sink, "  Error for %s: %s", w.Label, msg)
	}

	shift.Emitf(sink, "Finished scheduling for %s", date)
	return outcome
}
