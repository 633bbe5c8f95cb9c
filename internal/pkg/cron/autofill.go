package cron

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
)

// AutofillJobs fills the current month with the configured credential.
// Meant for reconciling providers, which only submit incomplete days.
type AutofillJobs struct {
	jobs     run.JobService
	notifier run.Notifier
	now      func() time.Time
}

// NewAutofillJobs builds the job. notifier may be nil.
func NewAutofillJobs(jobs run.JobService, notifier run.Notifier, now func() time.Time) *AutofillJobs {
	if now == nil {
		now = time.Now
	}
	return &AutofillJobs{jobs: jobs, notifier: notifier, now: now}
}

func (j *AutofillJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob("autofill_current_month", interval, j.FillCurrentMonth)
}

// FillCurrentMonth starts a run for the current month and waits for it.
// A run already in progress is not an error; the next tick retries.
func (j *AutofillJobs) FillCurrentMonth(ctx context.Context) error {
	now := j.now()
	req := run.StartRequest{Year: now.Year(), Month: int(now.Month())}

	started, err := j.jobs.Start(ctx, req, run.TriggerAutofill)
	if errors.Is(err, run.ErrJobRunning) {
		slog.Info("Cron: autofill skipped, a run is in progress")
		return nil
	}
	if err != nil {
		return err
	}

	for line := range started.Lines {
		slog.Debug("Cron: autofill", "run_id", started.ID, "line", line)
	}
	rec := <-started.Finished

	slog.Info("Cron: autofill finished",
		"run_id", rec.ID,
		"status", string(rec.Status),
		"attempted", len(rec.Attempted),
		"failed_days", rec.Result.Len(),
	)

	if j.notifier != nil {
		if err := j.notifier.RunFinished(ctx, rec); err != nil {
			slog.Error("Cron: failed to send run summary", "run_id", rec.ID, "error", err)
		}
	}
	return nil
}
