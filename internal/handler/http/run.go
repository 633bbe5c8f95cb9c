package http

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type RunHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Log(w http.ResponseWriter, r *http.Request)
}

type runHandlerImpl struct {
	history run.HistoryService
}

func NewRunHandler(history run.HistoryService) RunHandler {
	return &runHandlerImpl{history: history}
}

// List returns past runs, newest first.
func (h *runHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	var filter run.ListRunsFilter

	query := r.URL.Query()
	if status := query.Get("status"); status != "" {
		filter.Status = &status
	}
	if limit := query.Get("limit"); limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil {
			response.BadRequest(w, "limit must be a number", nil)
			return
		}
		filter.Limit = n
	}

	runs, err := h.history.ListRuns(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, runs)
}

func (h *runHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "Run ID is required", nil)
		return
	}

	resp, err := h.history.GetRun(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, resp)
}

// Log returns the saved transcript of a finished run as plain text.
func (h *runHandlerImpl) Log(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	rc, err := h.history.OpenTranscript(r.Context(), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, rc); err != nil {
		slog.Warn("Failed to send run transcript", "run_id", id, "error", err)
	}
}
