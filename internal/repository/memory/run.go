package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
)

// runRepository keeps run history for the lifetime of the process. It is
// used when no database is configured.
type runRepository struct {
	mu   sync.RWMutex
	runs map[string]run.Run
}

func NewRunRepository() run.RunRepository {
	return &runRepository{runs: make(map[string]run.Run)}
}

func (r *runRepository) Create(ctx context.Context, rec run.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.runs[rec.ID] = cloneRun(rec)
	return nil
}

func (r *runRepository) Finish(ctx context.Context, rec run.Run) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.runs[rec.ID]; !ok {
		return run.ErrRunNotFound
	}
	r.runs[rec.ID] = cloneRun(rec)
	return nil
}

func (r *runRepository) GetByID(ctx context.Context, id string) (run.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.runs[id]
	if !ok {
		return run.Run{}, run.ErrRunNotFound
	}
	return cloneRun(rec), nil
}

func (r *runRepository) List(ctx context.Context, filter run.ListRunsFilter) ([]run.Run, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]run.Run, 0, len(r.runs))
	for _, rec := range r.runs {
		if filter.Status != nil && string(rec.Status) != *filter.Status {
			continue
		}
		out = append(out, cloneRun(rec))
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func cloneRun(rec run.Run) run.Run {
	rec.Attempted = append([]string(nil), rec.Attempted...)
	return rec
}
