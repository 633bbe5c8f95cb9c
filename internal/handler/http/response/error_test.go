package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/provider"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", validator.ValidationErrors{{Field: "month", Message: "bad"}}, http.StatusUnprocessableEntity, CodeValidation},
		{"wrapped validation", fmt.Errorf("%w: %w", shift.ErrInvalidRequest, validator.ValidationErrors{{Field: "year", Message: "bad"}}), http.StatusUnprocessableEntity, CodeValidation},
		{"job running", run.ErrJobRunning, http.StatusConflict, CodeConflict},
		{"run not found", run.ErrRunNotFound, http.StatusNotFound, CodeNotFound},
		{"transcript not found", run.ErrTranscriptNotFound, http.StatusNotFound, CodeNotFound},
		{"no job running", run.ErrNoJobRunning, http.StatusNotFound, CodeNotFound},
		{"bad token", fmt.Errorf("%w: expired", run.ErrInvalidJobToken), http.StatusUnauthorized, CodeUnauthorized},
		{"missing credential", run.ErrMissingCredential, http.StatusUnprocessableEntity, CodeValidation},
		{"employee id", fmt.Errorf("%w: abc", shift.ErrInvalidEmployeeID), http.StatusUnprocessableEntity, CodeValidation},
		{"unknown provider", fmt.Errorf("%w: woffu", provider.ErrUnknownProvider), http.StatusBadRequest, CodeBadRequest},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError, CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			HandleError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleError_ValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()

	HandleError(rec, validator.ValidationErrors{
		{Field: "month", Message: "month must be between 1 and 12"},
		{Field: "year", Message: "year must be 2020 or later"},
	})

	var body Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]string{
		"month": "month must be between 1 and 12",
		"year":  "year must be 2020 or later",
	}, body.Error.Details)
}

func TestSuccessAndText(t *testing.T) {
	rec := httptest.NewRecorder()
	Success(rec, map[string]int{"count": 2})
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"count":2}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	Text(rec, http.StatusOK, "No process running.")
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "No process running.", rec.Body.String())
}
