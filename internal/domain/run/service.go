package run

import (
	"context"
	"io"

	"github.com/cmlabs-hris/shift-autofill/internal/pkg/sse"
)

// JobService runs at most one month run at a time for the web front end.
type JobService interface {
	Start(ctx context.Context, req StartRequest, trigger Trigger) (StartedJob, error)
	// Stop requests cancellation of the running job. An empty token is
	// accepted; a non-empty one must belong to the running job.
	Stop(token string) (bool, error)
	Current() (JobInfo, bool)
	// Watch streams the running job's events to a late watcher. Events may
	// be dropped for slow watchers. The returned func unsubscribes.
	Watch(token string) (<-chan sse.Event, func(), error)
	Wait()
}

type HistoryService interface {
	GetRun(ctx context.Context, id string) (RunResponse, error)
	ListRuns(ctx context.Context, filter ListRunsFilter) ([]RunResponse, error)
	// OpenTranscript returns the saved log lines of a finished run.
	OpenTranscript(ctx context.Context, id string) (io.ReadCloser, error)
}

// Notifier is told about every finished unattended run.
type Notifier interface {
	RunFinished(ctx context.Context, rec Run) error
}
