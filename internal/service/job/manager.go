package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/jwt"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/provider"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/sse"
	shiftService "github.com/cmlabs-hris/shift-autofill/internal/service/shift"
	"github.com/google/uuid"
)

// LineTimeLayout prefixes every streamed line.
const LineTimeLayout = "2006-01-02 15:04:05"

// Hub event names.
const (
	EventLog  = "log"
	EventDone = "done"
)

// ProviderFactory builds the client for a provider id.
type ProviderFactory func(id provider.ID) (shift.Provider, error)

// Defaults fill in what a StartRequest leaves empty.
type Defaults struct {
	Provider   string
	EmployeeID string
	Credential string
}

type activeJob struct {
	info   run.JobInfo
	cancel *shiftService.CancellationToken
}

type Manager struct {
	baseCtx   context.Context
	runs      run.RunRepository
	tokens    jwt.Service
	hub       *sse.Hub
	providers ProviderFactory
	defaults  Defaults
	now       func() time.Time

	transcripts run.TranscriptStore

	mu      sync.Mutex
	current *activeJob
	wg      sync.WaitGroup
}

type Option func(*Manager)

func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithTranscripts saves the lines of every run to store once it finishes.
func WithTranscripts(store run.TranscriptStore) Option {
	return func(m *Manager) {
		m.transcripts = store
	}
}

// NewManager builds the job manager. Runs are driven by baseCtx, not by the
// context of the request that started them.
func NewManager(baseCtx context.Context, runs run.RunRepository, tokens jwt.Service, hub *sse.Hub, providers ProviderFactory, defaults Defaults, opts ...Option) *Manager {
	m := &Manager{
		baseCtx:   baseCtx,
		runs:      runs,
		tokens:    tokens,
		hub:       hub,
		providers: providers,
		defaults:  defaults,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) Start(ctx context.Context, req run.StartRequest, trigger run.Trigger) (run.StartedJob, error) {
	if err := req.Validate(); err != nil {
		return run.StartedJob{}, err
	}
	m.applyDefaults(&req)
	if req.EmployeeID == "" || req.Credential == "" {
		return run.StartedJob{}, run.ErrMissingCredential
	}

	providerID, err := provider.Parse(req.Provider)
	if err != nil {
		return run.StartedJob{}, err
	}
	p, err := m.providers(providerID)
	if err != nil {
		return run.StartedJob{}, fmt.Errorf("failed to build provider: %w", err)
	}

	scheduleReq := shift.ScheduleRequest{
		EmployeeID: req.EmployeeID,
		Auth:       req.Credential,
		Year:       req.Year,
		Month:      req.Month,
	}
	if err := scheduleReq.Validate(); err != nil {
		return run.StartedJob{}, err
	}
	if v, ok := p.(shift.RequestValidator); ok {
		if err := v.ValidateRequest(scheduleReq); err != nil {
			return run.StartedJob{}, err
		}
	}

	m.mu.Lock()
	if m.current != nil {
		m.mu.Unlock()
		return run.StartedJob{}, run.ErrJobRunning
	}

	id := uuid.NewString()
	token, _, err := m.tokens.GenerateJobToken(id)
	if err != nil {
		m.mu.Unlock()
		return run.StartedJob{}, fmt.Errorf("failed to sign job token: %w", err)
	}

	rec := run.Run{
		ID:         id,
		Provider:   p.Name(),
		EmployeeID: req.EmployeeID,
		Year:       req.Year,
		Month:      req.Month,
		Trigger:    trigger,
		Status:     run.StatusRunning,
		StartedAt:  m.now(),
	}
	cancel := shiftService.NewCancellationToken()
	m.current = &activeJob{
		info: run.JobInfo{
			ID:         id,
			Provider:   rec.Provider,
			EmployeeID: rec.EmployeeID,
			Year:       rec.Year,
			Month:      rec.Month,
			StartedAt:  rec.StartedAt,
		},
		cancel: cancel,
	}
	m.wg.Add(1)
	m.mu.Unlock()

	if err := m.runs.Create(ctx, rec); err != nil {
		slog.Error("Failed to record run start", "run_id", id, "error", err)
	}

	stream := shiftService.NewStream()
	finished := make(chan run.Run, 1)
	sinks := []shift.LineSink{stream, m.hubSink(id)}
	var transcript *bytes.Buffer
	if m.transcripts != nil {
		transcript = &bytes.Buffer{}
		sinks = append(sinks, shiftService.SinkFunc(func(line string) {
			transcript.WriteString(line)
			transcript.WriteByte('\n')
		}))
	}
	sink := m.timestamped(shiftService.MultiSink(sinks...))

	slog.Info("Job started", "run_id", id, "provider", rec.Provider, "trigger", string(trigger))
	go m.work(p, scheduleReq, rec, cancel, stream, sink, transcript, finished)

	return run.StartedJob{
		ID:       id,
		Token:    token,
		Lines:    stream.Lines(),
		Finished: finished,
	}, nil
}

// work drives one run. transcript is only written from this goroutine.
func (m *Manager) work(p shift.Provider, req shift.ScheduleRequest, rec run.Run, cancel *shiftService.CancellationToken, stream *shiftService.Stream, sink shift.LineSink, transcript *bytes.Buffer, finished chan<- run.Run) {
	defer m.wg.Done()

	report, err := shiftService.NewOrchestrator(p, shiftService.WithClock(m.now)).Run(m.baseCtx, req, cancel, sink)

	rec.Result = report.Result
	rec.Attempted = report.Attempted
	switch {
	case err != nil:
		rec.Status = run.StatusFailed
		msg := err.Error()
		rec.Error = &msg
		sink.Emit("Error: " + msg)
	case report.State == shiftService.StateCancelled:
		rec.Status = run.StatusCancelled
	default:
		rec.Status = run.StatusCompleted
	}
	finishedAt := m.now()
	rec.FinishedAt = &finishedAt

	ctx, done := context.WithTimeout(context.Background(), 5*time.Second)
	if err := m.runs.Finish(ctx, rec); err != nil {
		slog.Error("Failed to record run result", "run_id", rec.ID, "error", err)
	}
	if transcript != nil {
		if err := m.transcripts.Save(ctx, rec.ID, transcript); err != nil {
			slog.Error("Failed to save run transcript", "run_id", rec.ID, "error", err)
		}
	}
	done()

	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()

	stream.Close()
	if data, err := json.Marshal(run.ToRunResponse(rec)); err == nil {
		m.hub.Publish(rec.ID, sse.Event{Event: EventDone, Data: string(data)})
	}
	m.hub.CloseTopic(rec.ID)

	slog.Info("Job finished",
		"run_id", rec.ID,
		"status", string(rec.Status),
		"attempted", len(rec.Attempted),
		"failed_days", rec.Result.Len(),
	)
	finished <- rec
}

// Stop requests cancellation of the running job. It reports false when no
// job is running.
func (m *Manager) Stop(token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return false, nil
	}
	if token != "" {
		jobID, err := m.tokens.ValidateJobToken(token)
		if err != nil {
			return false, err
		}
		if jobID != m.current.info.ID {
			return false, run.ErrInvalidJobToken
		}
	}

	if m.current.cancel.RequestCancel() {
		slog.Info("Job cancellation requested", "run_id", m.current.info.ID)
	}
	return true, nil
}

func (m *Manager) Current() (run.JobInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil {
		return run.JobInfo{}, false
	}
	return m.current.info, true
}

func (m *Manager) Watch(token string) (<-chan sse.Event, func(), error) {
	jobID, err := m.tokens.ValidateJobToken(token)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current == nil || m.current.info.ID != jobID {
		return nil, nil, run.ErrNoJobRunning
	}
	ch, cleanup := m.hub.Subscribe(jobID)
	return ch, cleanup, nil
}

// Wait blocks until every started job has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) applyDefaults(req *run.StartRequest) {
	if req.Provider == "" {
		req.Provider = m.defaults.Provider
	}
	if req.EmployeeID == "" {
		req.EmployeeID = m.defaults.EmployeeID
	}
	if req.Credential == "" {
		req.Credential = m.defaults.Credential
	}
}

func (m *Manager) timestamped(next shift.LineSink) shift.LineSink {
	return shiftService.SinkFunc(func(line string) {
		next.Emit(fmt.Sprintf("[%s] %s", m.now().Format(LineTimeLayout), line))
	})
}

func (m *Manager) hubSink(jobID string) shift.LineSink {
	return shiftService.SinkFunc(func(line string) {
		m.hub.Publish(jobID, sse.Event{Event: EventLog, Data: line})
	})
}
