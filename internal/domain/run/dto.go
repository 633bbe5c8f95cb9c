package run

import (
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
)

var (
	// Must match provider.All.
	providerNames = []string{"factorial", "sesame"}
	statusNames   = []string{string(StatusRunning), string(StatusCompleted), string(StatusCancelled), string(StatusFailed)}
)

// StartRequest is what the schedule form (or its JSON twin) submits.
// Empty fields fall back to the configured credential record.
type StartRequest struct {
	Provider   string `json:"provider"`
	EmployeeID string `json:"employee_id"`
	Credential string `json:"credential"`
	Year       int    `json:"year"`
	Month      int    `json:"month"`
}

func (r *StartRequest) Validate() error {
	var errs validator.ValidationErrors

	r.Provider = strings.ToLower(strings.TrimSpace(r.Provider))
	r.EmployeeID = strings.TrimSpace(r.EmployeeID)
	r.Credential = strings.TrimSpace(r.Credential)

	if r.Provider != "" && !validator.IsInSlice(r.Provider, providerNames) {
		errs.Add("provider", validator.OneOf("provider", providerNames))
	}
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if r.Year < shift.MinYear {
		errs.Add("year", fmt.Sprintf("year must be %d or later", shift.MinYear))
	}

	return errs.Err()
}

// StartedJob is returned to whoever started a run. Lines is closed once the
// run has finished; Finished then yields the final record exactly once.
type StartedJob struct {
	ID       string
	Token    string
	Lines    <-chan string
	Finished <-chan Run
}

// JobInfo describes the job currently running.
type JobInfo struct {
	ID         string    `json:"id"`
	Provider   string    `json:"provider"`
	EmployeeID string    `json:"employee_id"`
	Year       int       `json:"year"`
	Month      int       `json:"month"`
	StartedAt  time.Time `json:"started_at"`
}

type ListRunsFilter struct {
	Status *string `json:"status,omitempty"`
	Limit  int     `json:"limit"`
}

func (f *ListRunsFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !validator.IsInSlice(*f.Status, statusNames) {
		errs.Add("status", validator.OneOf("status", statusNames))
	}

	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit < 1 || f.Limit > 100 {
		errs.Add("limit", "limit must be between 1 and 100")
	}

	return errs.Err()
}

type RunResponse struct {
	ID         string            `json:"id"`
	Provider   string            `json:"provider"`
	EmployeeID string            `json:"employee_id"`
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	Trigger    string            `json:"trigger"`
	Status     string            `json:"status"`
	Result     shift.MonthResult `json:"result"`
	Attempted  int               `json:"attempted_days"`
	FailedDays int               `json:"failed_days"`
	Error      *string           `json:"error,omitempty"`
	StartedAt  string            `json:"started_at"`
	FinishedAt *string           `json:"finished_at,omitempty"`
}

func ToRunResponse(r Run) RunResponse {
	resp := RunResponse{
		ID:         r.ID,
		Provider:   r.Provider,
		EmployeeID: r.EmployeeID,
		Year:       r.Year,
		Month:      r.Month,
		Trigger:    string(r.Trigger),
		Status:     string(r.Status),
		Result:     r.Result,
		Attempted:  len(r.Attempted),
		FailedDays: r.Result.Len(),
		Error:      r.Error,
		StartedAt:  r.StartedAt.Format(time.RFC3339),
	}
	if r.FinishedAt != nil {
		finished := r.FinishedAt.Format(time.RFC3339)
		resp.FinishedAt = &finished
	}
	return resp
}
