package shift

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used as MonthResult key.
const DateLayout = "2006-01-02"

// Interval is a plain clock-in/clock-out pair.
type Interval struct {
	Start time.Time
	End   time.Time
}

// ShiftWindow is one labeled block of work submitted for a day.
type ShiftWindow struct {
	Label    string
	ClockIn  time.Time
	ClockOut time.Time
	// Lunch is set only by providers that embed the break in a single window.
	Lunch *Interval
}

// ScheduleRequest is immutable for the duration of one run.
type ScheduleRequest struct {
	EmployeeID string
	Auth       string
	Year       int
	Month      int
}

// FirstDay returns the first calendar day of the requested month in UTC.
func (r ScheduleRequest) FirstDay() time.Time {
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
}

// LastDay returns the last calendar day of the requested month in UTC.
func (r ScheduleRequest) LastDay() time.Time {
	return r.FirstDay().AddDate(0, 1, -1)
}

// Date builds a calendar day at UTC midnight.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// WindowFailure is the error message recorded for one failed window.
type WindowFailure struct {
	Window  string
	Message string
}

// DayOutcome holds the failed windows of one day in submission order.
// An empty outcome means the whole day succeeded.
type DayOutcome []WindowFailure

func (o DayOutcome) IsEmpty() bool {
	return len(o) == 0
}

// Add records a failure for window. A second failure for the same window
// is appended to the existing message.
func (o *DayOutcome) Add(window, message string) {
	for i := range *o {
		if (*o)[i].Window == window {
			(*o)[i].Message += " | " + message
			return
		}
	}
	*o = append(*o, WindowFailure{Window: window, Message: message})
}

func (o DayOutcome) Get(window string) (string, bool) {
	for _, f := range o {
		if f.Window == window {
			return f.Message, true
		}
	}
	return "", false
}

func (o DayOutcome) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(o))
	values := make([]any, len(o))
	for i, f := range o {
		keys[i] = f.Window
		values[i] = f.Message
	}
	return encodeOrderedObject(keys, values)
}

func (o *DayOutcome) UnmarshalJSON(data []byte) error {
	*o = nil
	return decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var msg string
		if err := json.Unmarshal(raw, &msg); err != nil {
			return fmt.Errorf("window %q: %w", key, err)
		}
		*o = append(*o, WindowFailure{Window: key, Message: msg})
		return nil
	})
}

// DayFailure pairs an ISO date with its outcome.
type DayFailure struct {
	Date    string
	Outcome DayOutcome
}

// MonthResult lists failing days in chronological (insertion) order.
// The zero value is an empty result.
type MonthResult struct {
	days []DayFailure
}

// Record stores outcome under date. Empty outcomes are not recorded.
func (m *MonthResult) Record(date string, outcome DayOutcome) {
	if outcome.IsEmpty() {
		return
	}
	m.days = append(m.days, DayFailure{Date: date, Outcome: outcome})
}

func (m MonthResult) Len() int {
	return len(m.days)
}

func (m MonthResult) IsEmpty() bool {
	return len(m.days) == 0
}

func (m MonthResult) Get(date string) (DayOutcome, bool) {
	for _, d := range m.days {
		if d.Date == date {
			return d.Outcome, true
		}
	}
	return nil, false
}

// Dates returns the failing dates in order.
func (m MonthResult) Dates() []string {
	dates := make([]string, len(m.days))
	for i, d := range m.days {
		dates[i] = d.Date
	}
	return dates
}

func (m MonthResult) Days() []DayFailure {
	out := make([]DayFailure, len(m.days))
	copy(out, m.days)
	return out
}

func (m MonthResult) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(m.days))
	values := make([]any, len(m.days))
	for i, d := range m.days {
		keys[i] = d.Date
		values[i] = d.Outcome
	}
	return encodeOrderedObject(keys, values)
}

func (m *MonthResult) UnmarshalJSON(data []byte) error {
	m.days = nil
	return decodeOrderedObject(data, func(key string, raw json.RawMessage) error {
		var outcome DayOutcome
		if err := json.Unmarshal(raw, &outcome); err != nil {
			return fmt.Errorf("day %q: %w", key, err)
		}
		m.days = append(m.days, DayFailure{Date: key, Outcome: outcome})
		return nil
	})
}

// encodeOrderedObject writes a JSON object keeping the given key order,
// which encoding/json does not do for maps.
func encodeOrderedObject(keys []string, values []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeOrderedObject(data []byte, fn func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", tok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if err := fn(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
