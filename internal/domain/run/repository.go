package run

import (
	"context"
	"io"
)

type RunRepository interface {
	Create(ctx context.Context, r Run) error
	// Finish stores the final status, result and finish time of a run.
	Finish(ctx context.Context, r Run) error
	GetByID(ctx context.Context, id string) (Run, error)
	// List returns the most recent runs first.
	List(ctx context.Context, filter ListRunsFilter) ([]Run, error)
}

// TranscriptStore keeps the streamed lines of finished runs.
type TranscriptStore interface {
	Save(ctx context.Context, runID string, transcript io.Reader) error
	// Open returns ErrTranscriptNotFound when nothing was saved for runID.
	Open(ctx context.Context, runID string) (io.ReadCloser, error)
}
