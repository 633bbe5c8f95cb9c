package run

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/storage"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
	"github.com/cmlabs-hris/shift-autofill/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryService_GetRun(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRunRepository()
	started := time.Date(2025, time.February, 3, 8, 0, 0, 0, time.UTC)
	finished := started.Add(time.Minute)
	var result shift.MonthResult
	result.Record("2025-02-04", shift.DayOutcome{{Window: "morning", Message: "boom"}})
	require.NoError(t, repo.Create(ctx, run.Run{
		ID: "r1", Provider: "factorial", EmployeeID: "42", Year: 2025, Month: 2,
		Trigger: run.TriggerManual, Status: run.StatusCompleted, Result: result,
		Attempted: []string{"2025-02-03", "2025-02-04"}, StartedAt: started, FinishedAt: &finished,
	}))
	svc := NewHistoryService(repo, nil)

	resp, err := svc.GetRun(ctx, "r1")

	require.NoError(t, err)
	assert.Equal(t, "completed", resp.Status)
	assert.Equal(t, 2, resp.Attempted)
	assert.Equal(t, 1, resp.FailedDays)
	assert.Equal(t, "2025-02-03T08:00:00Z", resp.StartedAt)
	require.NotNil(t, resp.FinishedAt)
	assert.Equal(t, "2025-02-03T08:01:00Z", *resp.FinishedAt)

	_, err = svc.GetRun(ctx, "missing")
	assert.ErrorIs(t, err, run.ErrRunNotFound)
}

func TestHistoryService_ListRunsValidatesFilter(t *testing.T) {
	svc := NewHistoryService(memory.NewRunRepository(), nil)

	status := "exploded"
	_, err := svc.ListRuns(context.Background(), run.ListRunsFilter{Status: &status, Limit: 500})

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 2)

	runs, err := svc.ListRuns(context.Background(), run.ListRunsFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestHistoryService_OpenTranscript(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRunRepository()
	require.NoError(t, repo.Create(ctx, run.Run{ID: "r1", Status: run.StatusCompleted, StartedAt: time.Now()}))

	_, err := NewHistoryService(repo, nil).OpenTranscript(ctx, "r1")
	assert.ErrorIs(t, err, run.ErrTranscriptNotFound)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, "r1", strings.NewReader("line one\n")))
	svc := NewHistoryService(repo, store)

	rc, err := svc.OpenTranscript(ctx, "r1")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "line one\n", string(data))

	_, err = svc.OpenTranscript(ctx, "missing")
	assert.ErrorIs(t, err, run.ErrRunNotFound)
}
