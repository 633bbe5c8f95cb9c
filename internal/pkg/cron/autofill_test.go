package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubJobs struct {
	started []run.StartRequest
	trigger run.Trigger
	err     error
}

func (s *stubJobs) Start(_ context.Context, req run.StartRequest, trigger run.Trigger) (run.StartedJob, error) {
	if s.err != nil {
		return run.StartedJob{}, s.err
	}
	s.started = append(s.started, req)
	s.trigger = trigger

	lines := make(chan string, 2)
	lines <- "a"
	lines <- "b"
	close(lines)
	finished := make(chan run.Run, 1)
	finished <- run.Run{ID: "r1", Status: run.StatusCompleted}
	return run.StartedJob{ID: "r1", Lines: lines, Finished: finished}, nil
}

func (s *stubJobs) Stop(string) (bool, error)    { return false, nil }
func (s *stubJobs) Current() (run.JobInfo, bool) { return run.JobInfo{}, false }
func (s *stubJobs) Wait()                        {}
func (s *stubJobs) Watch(string) (<-chan sse.Event, func(), error) {
	return nil, func() {}, nil
}

type recordingNotifier struct {
	runs []run.Run
	err  error
}

func (n *recordingNotifier) RunFinished(_ context.Context, rec run.Run) error {
	n.runs = append(n.runs, rec)
	return n.err
}

func TestAutofillJobs_FillCurrentMonth(t *testing.T) {
	jobs := &stubJobs{}
	notifier := &recordingNotifier{}
	now := func() time.Time { return time.Date(2025, time.May, 7, 6, 0, 0, 0, time.UTC) }
	scheduler := NewScheduler(context.Background())
	NewAutofillJobs(jobs, notifier, now).RegisterJobs(scheduler, time.Hour)

	require.NoError(t, scheduler.RunOnce(context.Background()))

	require.Len(t, jobs.started, 1)
	assert.Equal(t, run.StartRequest{Year: 2025, Month: 5}, jobs.started[0])
	assert.Equal(t, run.TriggerAutofill, jobs.trigger)
	require.Len(t, notifier.runs, 1)
	assert.Equal(t, "r1", notifier.runs[0].ID)
}

func TestAutofillJobs_NotifierFailureIsNotAnError(t *testing.T) {
	notifier := &recordingNotifier{err: errors.New("smtp down")}

	err := NewAutofillJobs(&stubJobs{}, notifier, nil).FillCurrentMonth(context.Background())

	assert.NoError(t, err)
	assert.Len(t, notifier.runs, 1)
}

func TestAutofillJobs_SkipsWhenBusy(t *testing.T) {
	jobs := &stubJobs{err: run.ErrJobRunning}
	notifier := &recordingNotifier{}

	err := NewAutofillJobs(jobs, notifier, nil).FillCurrentMonth(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, notifier.runs)
}

func TestScheduler_StartRunsImmediatelyAndStops(t *testing.T) {
	scheduler := NewScheduler(context.Background())
	ran := make(chan struct{}, 1)
	scheduler.AddJob("probe", time.Hour, func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	})

	scheduler.Start()
	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}
	scheduler.Stop()
}

func TestScheduler_RunOnceReportsStatus(t *testing.T) {
	scheduler := NewScheduler(context.Background())
	scheduler.AddJob("ok", time.Hour, func(context.Context) error { return nil })
	scheduler.AddJob("broken", time.Hour, func(context.Context) error { return errors.New("nope") })

	err := scheduler.RunOnce(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken: nope")

	status := scheduler.Status()
	require.Len(t, status, 2)
	assert.Equal(t, "ok", status[0].Name)
	assert.Equal(t, 1, status[0].Runs)
	assert.NoError(t, status[0].LastErr)
	assert.EqualError(t, status[1].LastErr, "nope")
	assert.False(t, status[1].LastRun.IsZero())
}

func TestScheduler_SkipsOverlappingExecution(t *testing.T) {
	scheduler := NewScheduler(context.Background())
	entered := make(chan struct{})
	release := make(chan struct{})
	scheduler.AddJob("slow", time.Hour, func(context.Context) error {
		close(entered)
		<-release
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- scheduler.RunOnce(context.Background()) }()
	<-entered

	assert.NoError(t, scheduler.RunOnce(context.Background()))
	assert.Equal(t, 1, scheduler.Status()[0].Skipped)
	assert.True(t, scheduler.Status()[0].Running)

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, scheduler.Status()[0].Runs)
}
