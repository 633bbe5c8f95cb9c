package run

import (
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
)

// Status enum
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
	// StatusFailed is used when the run never started, e.g. a rejected
	// request.
	StatusFailed Status = "failed"
)

// Trigger says who started a run.
type Trigger string

const (
	TriggerManual   Trigger = "manual"
	TriggerAutofill Trigger = "autofill"
)

// Run is the audit record of one month run. It is never resumed.
type Run struct {
	ID         string
	Provider   string
	EmployeeID string
	Year       int
	Month      int
	Trigger    Trigger
	Status     Status
	Result     shift.MonthResult
	Attempted  []string
	Error      *string
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (r Run) IsFinished() bool {
	return r.Status != StatusRunning
}
