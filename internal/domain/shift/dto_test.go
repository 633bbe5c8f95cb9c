package shift

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/shift-autofill/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleRequest_Validate(t *testing.T) {
	valid := ScheduleRequest{EmployeeID: "42", Auth: "cookie", Year: 2025, Month: 2}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name  string
		req   ScheduleRequest
		field string
	}{
		{"missing employee", ScheduleRequest{Auth: "c", Year: 2025, Month: 2}, "employee_id"},
		{"blank credential", ScheduleRequest{EmployeeID: "1", Auth: "  ", Year: 2025, Month: 2}, "credential"},
		{"month zero", ScheduleRequest{EmployeeID: "1", Auth: "c", Year: 2025, Month: 0}, "month"},
		{"month thirteen", ScheduleRequest{EmployeeID: "1", Auth: "c", Year: 2025, Month: 13}, "month"},
		{"year too old", ScheduleRequest{EmployeeID: "1", Auth: "c", Year: 2019, Month: 5}, "year"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			require.Error(t, err)

			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.field, verrs[0].Field)
		})
	}
}
