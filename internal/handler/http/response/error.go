package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/run"
	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/provider"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Run domain errors
	case errors.Is(err, run.ErrJobRunning):
		Conflict(w, "A process is already running")
	case errors.Is(err, run.ErrRunNotFound):
		NotFound(w, "Run not found")
	case errors.Is(err, run.ErrTranscriptNotFound):
		NotFound(w, "No log was kept for this run")
	case errors.Is(err, run.ErrNoJobRunning):
		NotFound(w, "No process running")
	case errors.Is(err, run.ErrInvalidJobToken):
		Unauthorized(w, "Invalid job token")
	case errors.Is(err, run.ErrMissingCredential):
		ValidationError(w, map[string]string{
			"employee_id": "employee_id is required",
			"credential":  "credential is required",
		})

	// Shift domain errors
	case errors.Is(err, shift.ErrInvalidEmployeeID):
		ValidationError(w, map[string]string{"employee_id": err.Error()})
	case errors.Is(err, provider.ErrUnknownProvider):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
