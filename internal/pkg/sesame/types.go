package sesame

import "encoding/json"

type WorkEntryRequest struct {
	EmployeeID string       `json:"employeeId"`
	Date       string       `json:"date"`
	ClockIn    string       `json:"clockIn"`
	ClockOut   string       `json:"clockOut"`
	Breaks     []BreakEntry `json:"breaks"`
	Origin     string       `json:"origin"`
}

type BreakEntry struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// APIError is one entry of the errors list of a 2xx response.
type APIError struct {
	Code     string   `json:"code,omitempty"`
	Message  string   `json:"message,omitempty"`
	Messages []string `json:"messages,omitempty"`
}

// FirstMessage picks messages[0], then message, then "Unknown error".
func (e APIError) FirstMessage() string {
	if len(e.Messages) > 0 && e.Messages[0] != "" {
		return e.Messages[0]
	}
	if e.Message != "" {
		return e.Message
	}
	return unknownError
}

type WorkEntryResponse struct {
	Data   json.RawMessage `json:"data,omitempty"`
	Errors []APIError      `json:"errors,omitempty"`
}

// DailyStat is the attendance summary of one day.
type DailyStat struct {
	Date            string `json:"date"`
	RecordedMinutes int    `json:"recordedMinutes"`
	PlannedMinutes  int    `json:"plannedMinutes"`
}

// Incomplete reports whether the day still needs a work entry: something
// was planned and what is recorded does not match it.
func (s DailyStat) Incomplete() bool {
	return s.PlannedMinutes > 0 && s.RecordedMinutes != s.PlannedMinutes
}

type dailyStatsResponse struct {
	Data []DailyStat `json:"data"`
}
