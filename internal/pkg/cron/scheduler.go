package cron

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// Job is a function run every Interval.
type Job struct {
	Name     string
	Interval time.Duration
	Fn       func(ctx context.Context) error
}

// JobStatus is what the scheduler remembers about a job's executions.
type JobStatus struct {
	Name     string
	Interval time.Duration
	Runs     int
	Skipped  int
	LastRun  time.Time
	LastErr  error
	Running  bool
}

type jobState struct {
	job    Job
	mu     sync.Mutex
	status JobStatus
}

// Scheduler runs each registered job immediately and then every interval
// until stopped. A tick that finds the job's previous execution still
// running is skipped.
type Scheduler struct {
	jobs    []*jobState
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	mu      sync.Mutex
	started bool
}

// NewScheduler creates a scheduler whose jobs stop when parent is done.
func NewScheduler(parent context.Context) *Scheduler {
	ctx, cancel := context.WithCancel(parent)
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Scheduler) AddJob(name string, interval time.Duration, fn func(ctx context.Context) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.jobs = append(s.jobs, &jobState{
		job:    Job{Name: name, Interval: interval, Fn: fn},
		status: JobStatus{Name: name, Interval: interval},
	})
	slog.Info("Cron job registered", "name", name, "interval", interval)
}

// Start launches every registered job. Calling it again has no effect.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return
	}
	s.started = true

	for _, js := range s.jobs {
		s.wg.Add(1)
		go s.runJob(js)
	}

	slog.Info("Cron scheduler started", "job_count", len(s.jobs))
}

// Stop cancels the jobs and waits for the running ones to return.
func (s *Scheduler) Stop() {
	slog.Info("Stopping cron scheduler...")
	s.cancel()
	s.wg.Wait()
	slog.Info("Cron scheduler stopped")
}

// Status returns a snapshot of every job, in registration order.
func (s *Scheduler) Status() []JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobStatus, 0, len(s.jobs))
	for _, js := range s.jobs {
		js.mu.Lock()
		out = append(out, js.status)
		js.mu.Unlock()
	}
	return out
}

func (s *Scheduler) runJob(js *jobState) {
	defer s.wg.Done()

	ticker := time.NewTicker(js.job.Interval)
	defer ticker.Stop()

	s.executeJob(s.ctx, js)

	for {
		select {
		case <-s.ctx.Done():
			slog.Info("Cron job stopping", "name", js.job.Name)
			return
		case <-ticker.C:
			s.executeJob(s.ctx, js)
		}
	}
}

func (s *Scheduler) executeJob(ctx context.Context, js *jobState) error {
	js.mu.Lock()
	if js.status.Running {
		js.status.Skipped++
		js.mu.Unlock()
		slog.Warn("Cron job still running, tick skipped", "name", js.job.Name)
		return nil
	}
	js.status.Running = true
	start := time.Now()
	js.status.LastRun = start
	js.mu.Unlock()

	slog.Debug("Cron job starting", "name", js.job.Name)
	err := js.job.Fn(ctx)

	js.mu.Lock()
	js.status.Running = false
	js.status.Runs++
	js.status.LastErr = err
	js.mu.Unlock()

	if err != nil {
		slog.Error("Cron job failed", "name", js.job.Name, "error", err, "duration", time.Since(start))
		return fmt.Errorf("%s: %w", js.job.Name, err)
	}
	slog.Debug("Cron job completed", "name", js.job.Name, "duration", time.Since(start))
	return nil
}

// RunOnce runs every job once in the caller's goroutine and returns their
// errors joined.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	s.mu.Lock()
	jobs := append([]*jobState(nil), s.jobs...)
	s.mu.Unlock()

	var errs []error
	for _, js := range jobs {
		if err := s.executeJob(ctx, js); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
