package shift

import (
	"fmt"

	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
)

// MinYear is the earliest year a month can be filled for.
const MinYear = 2020

func (r ScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	if validator.IsEmpty(r.Auth) {
		errs.Add("credential", "credential is required")
	}
	if !validator.IsValidMonth(r.Month) {
		errs.Add("month", "month must be between 1 and 12")
	}
	if r.Year < MinYear {
		errs.Add("year", fmt.Sprintf("year must be %d or later", MinYear))
	}

	return errs.Err()
}
