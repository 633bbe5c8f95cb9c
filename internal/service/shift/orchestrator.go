package shift

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
)

// State of a month run.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

// Report is what a month run produced.
type Report struct {
	Result shift.MonthResult
	State  State
	// Attempted lists the ISO dates handed to the provider, in order.
	Attempted []string
}

type Option func(*Orchestrator)

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		o.now = now
	}
}

// Orchestrator drives a provider through the days of one month, strictly
// one day at a time.
type Orchestrator struct {
	provider shift.Provider
	now      func() time.Time
	state    atomic.Int32
}

func NewOrchestrator(provider shift.Provider, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		provider: provider,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) State() State {
	return State(o.state.Load())
}

// Run schedules every candidate day of req's month. Cancellation through
// token is checked before each day; the day in flight always completes.
// A cancelled run returns the partial result and no error. The only errors
// are request validation failures and concurrent use, both reported before
// anything is submitted.
func (o *Orchestrator) Run(ctx context.Context, req shift.ScheduleRequest, token *CancellationToken, sink shift.LineSink) (Report, error) {
	if err := req.Validate(); err != nil {
		return Report{State: o.State()}, fmt.Errorf("%w: %w", shift.ErrInvalidRequest, err)
	}
	if v, ok := o.provider.(shift.RequestValidator); ok {
		if err := v.ValidateRequest(req); err != nil {
			return Report{State: o.State()}, fmt.Errorf("%w: %w", shift.ErrInvalidRequest, err)
		}
	}
	if !o.begin() {
		return Report{State: StateRunning}, shift.ErrRunInProgress
	}
	if token == nil {
		token = NewCancellationToken()
	}
	if sink == nil {
		sink = Discard
	}

	month := time.Month(req.Month)
	report := Report{State: StateRunning}
	slog.Info("Month run started",
		"provider", o.provider.Name(),
		"employee_id", req.EmployeeID,
		"year", req.Year,
		"month", req.Month,
	)
	shift.Emitf(sink, "Starting scheduling shifts for %04d-%02d...", req.Year, req.Month)

	reconciler, reconciles := o.provider.(shift.Reconciler)
	var candidates []time.Time
	if reconciles {
		incomplete := reconciler.FindIncompleteDays(ctx, req.EmployeeID, req.Year, month, req.Auth, sink)
		candidates = o.clampToMonth(req, incomplete)
	} else {
		candidates = shift.DaysInMonth(req.Year, month)
	}

	for _, day := range candidates {
		if token.IsCancelled() || ctx.Err() != nil {
			shift.Emitf(sink, "Process stopped by user.")
			report.State = StateCancelled
			break
		}

		date := day.Format(shift.DateLayout)
		if !reconciles && !shift.IsWeekday(day) {
			shift.Emitf(sink, "Skipping %s (%s) - Weekend", date, day.Weekday())
			continue
		}

		shift.Emitf(sink, "Processing %s (%s):", date, day.Weekday())
		report.Attempted = append(report.Attempted, date)
		outcome := o.provider.ScheduleDay(ctx, req.EmployeeID, day, req.Auth, sink)
		report.Result.Record(date, outcome)
	}

	if report.State != StateCancelled {
		report.State = StateCompleted
	}
	shift.Emitf(sink, "Finished scheduling the month.")
	o.state.Store(int32(report.State))

	slog.Info("Month run finished",
		"provider", o.provider.Name(),
		"state", report.State.String(),
		"attempted", len(report.Attempted),
		"failed_days", report.Result.Len(),
	)
	return report, nil
}

func (o *Orchestrator) begin() bool {
	for {
		cur := o.state.Load()
		if State(cur) == StateRunning {
			return false
		}
		if o.state.CompareAndSwap(cur, int32(StateRunning)) {
			return true
		}
	}
}

// today is the current time in the provider's zone when it has one.
func (o *Orchestrator) today() time.Time {
	now := o.now()
	if located, ok := o.provider.(shift.Located); ok && located.Location() != nil {
		return now.In(located.Location())
	}
	return now
}

// clampToMonth keeps reconciled days inside [first, min(last, today)],
// drops duplicates and sorts them.
func (o *Orchestrator) clampToMonth(req shift.ScheduleRequest, days []time.Time) []time.Time {
	from, to, ok := shift.ClampToToday(req.Year, time.Month(req.Month), o.today())
	if !ok {
		return nil
	}

	seen := make(map[string]struct{}, len(days))
	var out []time.Time
	for _, d := range days {
		day := shift.Date(d.Year(), d.Month(), d.Day())
		if day.Before(from) || day.After(to) {
			continue
		}
		key := day.Format(shift.DateLayout)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, day)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
