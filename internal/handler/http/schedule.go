package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/handler/http/response"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/provider"
)

const (
	HeaderJobID    = "X-Job-ID"
	HeaderJobToken = "X-Job-Token"

	resultRule = "=================================================="
)

type ScheduleHandler interface {
	Index(w http.ResponseWriter, r *http.Request)
	Schedule(w http.ResponseWriter, r *http.Request)
	Stop(w http.ResponseWriter, r *http.Request)
	Current(w http.ResponseWriter, r *http.Request)
	Events(w http.ResponseWriter, r *http.Request)
	ParseCurl(w http.ResponseWriter, r *http.Request)
}

type scheduleHandlerImpl struct {
	jobs            run.JobService
	defaultProvider provider.ID
	now             func() time.Time
}

func NewScheduleHandler(jobs run.JobService, defaultProvider provider.ID) ScheduleHandler {
	return &scheduleHandlerImpl{
		jobs:            jobs,
		defaultProvider: defaultProvider,
		now:             time.Now,
	}
}

// Index renders the form.
func (h *scheduleHandlerImpl) Index(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	providers := make([]string, 0, len(provider.All()))
	for _, id := range provider.All() {
		providers = append(providers, string(id))
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, indexPage{
		Year:      now.Year(),
		Month:     int(now.Month()),
		Providers: providers,
		Provider:  string(h.defaultProvider),
	}); err != nil {
		slog.Error("Failed to render index page", "error", err)
	}
}

// Schedule starts a month run and streams its progress as plain text. The
// run keeps going if the client goes away.
func (h *scheduleHandlerImpl) Schedule(w http.ResponseWriter, r *http.Request) {
	req, err := h.decodeStartRequest(r)
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	job, err := h.jobs.Start(r.Context(), req, run.TriggerManual)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	w.Header().Set(HeaderJobID, job.ID)
	w.Header().Set(HeaderJobToken, job.Token)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	flusher, _ := w.(http.Flusher)
	flush := func() {
		if flusher != nil {
			flusher.Flush()
		}
	}
	flush()

	for {
		select {
		case line, ok := <-job.Lines:
			if !ok {
				h.writeResult(w, <-job.Finished)
				flush()
				return
			}
			fmt.Fprintln(w, line)
			flush()
		case <-r.Context().Done():
			slog.Info("Client left, run continues", "run_id", job.ID)
			go func() {
				for range job.Lines {
				}
			}()
			return
		}
	}
}

func (h *scheduleHandlerImpl) writeResult(w http.ResponseWriter, rec run.Run) {
	data, err := json.MarshalIndent(rec.Result, "", "  ")
	if err != nil {
		slog.Error("Failed to encode run result", "run_id", rec.ID, "error", err)
		data = []byte("{}")
	}
	fmt.Fprintf(w, "\n%s\nFinal Result:\n%s\n%s\n", resultRule, data, resultRule)
}

// startBody is the wire form of run.StartRequest. A nil year or month was
// left out and means the current one; an explicit 0 is rejected later.
type startBody struct {
	Provider   string `json:"provider"`
	EmployeeID string `json:"employee_id"`
	Credential string `json:"credential"`
	Year       *int   `json:"year"`
	Month      *int   `json:"month"`
}

func (h *scheduleHandlerImpl) decodeStartRequest(r *http.Request) (run.StartRequest, error) {
	var body startBody
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return run.StartRequest{}, errors.New("Invalid request body")
		}
	} else {
		body.Provider = r.FormValue("provider")
		body.EmployeeID = r.FormValue("employee_id")
		body.Credential = r.FormValue("credential")
		if body.Credential == "" {
			body.Credential = r.FormValue("cookie")
		}
		var err error
		if body.Year, err = formInt(r, "year"); err != nil {
			return run.StartRequest{}, err
		}
		if body.Month, err = formInt(r, "month"); err != nil {
			return run.StartRequest{}, err
		}
	}

	now := h.now()
	req := run.StartRequest{
		Provider:   body.Provider,
		EmployeeID: body.EmployeeID,
		Credential: body.Credential,
		Year:       now.Year(),
		Month:      int(now.Month()),
	}
	if body.Year != nil {
		req.Year = *body.Year
	}
	if body.Month != nil {
		req.Month = *body.Month
	}
	return req, nil
}

// formInt returns nil for a missing or blank field.
func formInt(r *http.Request, key string) (*int, error) {
	raw := strings.TrimSpace(r.FormValue(key))
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", key)
	}
	return &n, nil
}

// Stop requests cancellation of the running job. The form page reads the
// reply as text.
func (h *scheduleHandlerImpl) Stop(w http.ResponseWriter, r *http.Request) {
	stopped, err := h.jobs.Stop(r.Header.Get(HeaderJobToken))
	if err != nil {
		if errors.Is(err, run.ErrInvalidJobToken) {
			response.Text(w, http.StatusUnauthorized, "Invalid job token.")
			return
		}
		response.HandleError(w, err)
		return
	}
	if !stopped {
		response.Text(w, http.StatusOK, "No process running.")
		return
	}
	response.Text(w, http.StatusOK, "Process cancellation requested.")
}

func (h *scheduleHandlerImpl) Current(w http.ResponseWriter, r *http.Request) {
	info, ok := h.jobs.Current()
	if !ok {
		response.HandleError(w, run.ErrNoJobRunning)
		return
	}
	response.Success(w, info)
}

// Events streams the running job as server-sent events for late watchers.
func (h *scheduleHandlerImpl) Events(w http.ResponseWriter, r *http.Request) {
	// EventSource cannot send headers
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	events, cleanup, err := h.jobs.Watch(tokenStr)
	if err != nil {
		switch {
		case errors.Is(err, run.ErrNoJobRunning):
			http.Error(w, "No process running", http.StatusNotFound)
		default:
			http.Error(w, "Invalid token", http.StatusUnauthorized)
		}
		return
	}
	defer cleanup()

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprint(w, "event: connected\ndata: {\"status\":\"connected\"}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(30 * time.Second)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, eventData(event.Event, event.Data))
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// eventData keeps every payload on one data line. Done events already
// carry JSON; log lines are sent as JSON strings.
func eventData(event, data string) string {
	if event != "log" {
		return data
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return `""`
	}
	return string(encoded)
}

type parseCurlRequest struct {
	Curl string `json:"curl"`
}

func (h *scheduleHandlerImpl) ParseCurl(w http.ResponseWriter, r *http.Request) {
	var req parseCurlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Curl) == "" {
		response.ValidationError(w, map[string]string{"curl": "curl is required"})
		return
	}
	response.Success(w, ParseCurl(req.Curl))
}
