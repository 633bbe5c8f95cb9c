package run

import (
	"context"
	"io"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
)

type HistoryServiceImpl struct {
	runRepo     run.RunRepository
	transcripts run.TranscriptStore
}

// NewHistoryService builds the service. transcripts may be nil when run
// logs are not kept.
func NewHistoryService(runRepo run.RunRepository, transcripts run.TranscriptStore) run.HistoryService {
	return &HistoryServiceImpl{runRepo: runRepo, transcripts: transcripts}
}

func (s *HistoryServiceImpl) GetRun(ctx context.Context, id string) (run.RunResponse, error) {
	rec, err := s.runRepo.GetByID(ctx, id)
	if err != nil {
		return run.RunResponse{}, err
	}
	return run.ToRunResponse(rec), nil
}

func (s *HistoryServiceImpl) ListRuns(ctx context.Context, filter run.ListRunsFilter) ([]run.RunResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	runs, err := s.runRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]run.RunResponse, 0, len(runs))
	for _, rec := range runs {
		responses = append(responses, run.ToRunResponse(rec))
	}
	return responses, nil
}

func (s *HistoryServiceImpl) OpenTranscript(ctx context.Context, id string) (io.ReadCloser, error) {
	if _, err := s.runRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}
	if s.transcripts == nil {
		return nil, run.ErrTranscriptNotFound
	}
	return s.transcripts.Open(ctx, id)
}
