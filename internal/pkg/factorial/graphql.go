package factorial

// createAttendanceShiftQuery is the mutation document the web client sends.
// The backend matches on it, so keep it byte for byte.
const createAttendanceShiftQuery = `mutation CreateAttendanceShift($clockIn: ISO8601DateTime, $clockOut: ISO8601DateTime, $date: ISO8601Date!, $employeeId: Int!, $halfDay: String, $locationType: AttendanceShiftLocationTypeEnum, $observations: String, $referenceDate: ISO8601Date!, $source: AttendanceShiftSourceEnum, $timeSettingsBreakConfigurationId: Int, $workable: Boolean) {
  attendanceMutations {
    createAttendanceShift(
      clockIn: $clockIn
      clockOut: $clockOut
      date: $date
      employeeId: $employeeId
      halfDay: $halfDay
      locationType: $locationType
      observations: $observations
      referenceDate: $referenceDate
      source: $source
      timeSettingsBreakConfigurationId: $timeSettingsBreakConfigurationId
      workable: $workable
    ) {
      errors {
        ...ErrorDetails
        __typename
      }
      shift {
        employee {
          id
          attendanceBalancesConnection(endOn: $referenceDate, startOn: $referenceDate) {
            nodes {
              ...TimesheetBalance
              __typename
            }
            __typename
          }
          attendanceWorkedTimesConnection(endOn: $referenceDate, startOn: $referenceDate) {
            nodes {
              ...TimesheetWorkedTime
              __typename
            }
            __typename
          }
          __typename
        }
        ...TimesheetPageShift
        __typename
      }
      __typename
    }
    __typename
  }
}

fragment TimesheetBalancePoolBlock on AttendanceTimeBlock {
  equivalentMinutesInCents
  minutes
  name
  rawMinutesInCents
  timeSettingsCustomTimeRangeCategoryId
  __typename
}

fragment TimesheetTimeSettingsBreakConfiguration on TimeSettingsBreakConfiguration {
  id
  __typename
}

fragment TimesheetPageWorkplace on LocationsLocation {
  id
  name
  __typename
}

fragment ErrorDetails on MutationError {
  ... on SimpleError {
    message
    type
    __typename
  }
  ... on StructuredError {
    field
    messages
    __typename
  }
  __typename
}

fragment TimesheetBalance on AttendanceBalance {
  id
  balancePools {
    transfers {
      ...TimesheetBalancePoolBlock
      __typename
    }
    type
    usages {
      ...TimesheetBalancePoolBlock
      __typename
    }
    __typename
  }
  dailyBalance
  dailyBalanceFromContract
  dailyBalanceFromPlanning
  date
  __typename
}

fragment TimesheetWorkedTime on AttendanceWorkedTime {
  id
  date
  dayType
  minutes
  multipliedMinutes
  pendingMinutes
  trackedMinutes
  __typename
}

fragment TimesheetPageShift on AttendanceShift {
  id
  automaticClockIn
  automaticClockOut
  clockIn
  clockInWithSeconds
  clockOut
  crossesMidnight
  date
  employeeId
  halfDay
  isOvernight
  locationType
  minutes
  observations
  periodId
  referenceDate
  showPlusOneDay
  timeSettingsBreakConfiguration {
    ...TimesheetTimeSettingsBreakConfiguration
    __typename
  }
  workable
  workplace {
    ...TimesheetPageWorkplace
    __typename
  }
  __typename
}`

const createAttendanceShiftOperation = "CreateAttendanceShift"

type graphQLRequest struct {
	OperationName string                    `json:"operationName"`
	Variables     createAttendanceShiftVars `json:"variables"`
	Query         string                    `json:"query"`
}

type createAttendanceShiftVars struct {
	Date                             string `json:"date"`
	EmployeeID                       int    `json:"employeeId"`
	ClockIn                          string `json:"clockIn"`
	ClockOut                         string `json:"clockOut"`
	ReferenceDate                    string `json:"referenceDate"`
	Source                           string `json:"source"`
	TimeSettingsBreakConfigurationID int    `json:"timeSettingsBreakConfigurationId"`
	Workable                         bool   `json:"workable"`
}

// MutationError is one entry of createAttendanceShift.errors. SimpleError
// fills Message, StructuredError fills Field and Messages.
type MutationError struct {
	Message  string   `json:"message"`
	Type     string   `json:"type"`
	Field    string   `json:"field"`
	Messages []string `json:"messages"`
	Typename string   `json:"__typename"`
}

// FirstMessage returns the first structured message, falling back to the
// simple message and then to a fixed placeholder.
func (e MutationError) FirstMessage() string {
	if len(e.Messages) > 0 && e.Messages[0] != "" {
		return e.Messages[0]
	}
	if e.Message != "" {
		return e.Message
	}
	return unknownError
}

// CreateAttendanceShiftResponse is the part of the GraphQL reply we read.
type CreateAttendanceShiftResponse struct {
	Data *struct {
		AttendanceMutations *struct {
			CreateAttendanceShift *struct {
				Errors []MutationError `json:"errors"`
			} `json:"createAttendanceShift"`
		} `json:"attendanceMutations"`
	} `json:"data"`
	Errors []MutationError `json:"errors"`
}

// ApplicationErrors returns mutation errors plus any top-level GraphQL errors.
func (r *CreateAttendanceShiftResponse) ApplicationErrors() []MutationError {
	if r == nil {
		return nil
	}
	errs := append([]MutationError(nil), r.Errors...)
	if r.Data != nil && r.Data.AttendanceMutations != nil && r.Data.AttendanceMutations.CreateAttendanceShift != nil {
		errs = append(errs, r.Data.AttendanceMutations.CreateAttendanceShift.Errors...)
	}
	return errs
}
