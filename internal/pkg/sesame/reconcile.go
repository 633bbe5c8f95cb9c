package sesame

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/shopspring/decimal"
)

var minutesPerHour = decimal.NewFromInt(60)

// FindIncompleteDays implements shift.Reconciler. The range is clamped to
// today; when the stats cannot be read every weekday of the range is
// returned instead.
func (c *Client) FindIncompleteDays(ctx context.Context, employeeID string, year int, month time.Month, auth string, sink shift.LineSink) []time.Time {
	from, to, ok := shift.ClampToToday(year, month, c.now().In(c.loc))
	if !ok {
		shift.Emitf(sink, "Nothing to check: %04d-%02d has not started yet", year, int(month))
		return nil
	}

	shift.Emitf(sink, "Checking recorded time from %s to %s...",
		from.Format(shift.DateLayout), to.Format(shift.DateLayout))

	stats, err := c.DailyStats(ctx, employeeID, from, to, auth)
	if err != nil {
		slog.Warn("Failed to read daily stats, falling back to weekdays",
			"provider", Name,
			"employee_id", employeeID,
			"error", err,
		)
		fallback := shift.Weekdays(from, to)
		shift.Emitf(sink, "Could not read recorded time (%v); treating %d weekday(s) as incomplete", err, len(fallback))
		return fallback
	}

	var days []time.Time
	for _, s := range stats {
		day, err := time.Parse(shift.DateLayout, s.Date)
		if err != nil {
			slog.Warn("Skipping daily stat with invalid date", "provider", Name, "date", s.Date)
			continue
		}
		if day.Before(from) || day.After(to) {
			continue
		}
		if !s.Incomplete() {
			continue
		}
		shift.Emitf(sink, "  %s: %sh recorded of %sh planned",
			s.Date, hours(s.RecordedMinutes), hours(s.PlannedMinutes))
		days = append(days, day)
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	shift.Emitf(sink, "Found %d incomplete day(s)", len(days))
	return days
}

func hours(minutes int) string {
	return decimal.NewFromInt(int64(minutes)).Div(minutesPerHour).StringFixed(2)
}
