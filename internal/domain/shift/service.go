package shift

import (
	"context"
	"fmt"
	"time"
)

// LineSink receives human-readable progress lines.
type LineSink interface {
	Emit(line string)
}

// Emitf formats a progress line and sends it to sink. A nil sink drops it.
func Emitf(sink LineSink, format string, args ...any) {
	if sink == nil {
		return
	}
	sink.Emit(fmt.Sprintf(format, args...))
}

// Provider submits the shifts of one calendar day to a remote HR backend.
type Provider interface {
	// Name is the provider identifier used in logs and run records.
	Name() string

	// ScheduleDay submits every window of day. Transport and application
	// failures are returned in the outcome, never as an error.
	ScheduleDay(ctx context.Context, employeeID string, day time.Time, auth string, sink LineSink) DayOutcome
}

// Reconciler is implemented by providers that can report already recorded
// attendance.
type Reconciler interface {
	// FindIncompleteDays returns, in chronological order, the days of the
	// month up to today that still need a submission.
	FindIncompleteDays(ctx context.Context, employeeID string, year int, month time.Month, auth string, sink LineSink) []time.Time
}

// Located is implemented by providers whose calendar days are in a fixed
// zone. "Today" is then taken in that zone.
type Located interface {
	Location() *time.Location
}

// RequestValidator is implemented by providers with extra constraints on
// the request, checked before anything is submitted.
type RequestValidator interface {
	ValidateRequest(req ScheduleRequest) error
}
