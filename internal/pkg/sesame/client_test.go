package sesame

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/shift-autofill/internal/domain/shift"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ shift.Reconciler = (*Client)(nil)
	_ shift.Located    = (*Client)(nil)
)

type lineRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *lineRecorder) Emit(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func newClient(t *testing.T, handler http.HandlerFunc, now time.Time) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL, Location: time.UTC, Now: fixedClock(now)})
}

func TestWorkingDay_Window(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	if err != nil {
		t.Skip("zone database not available")
	}

	// May is CEST, +02:00.
	w := WorkingDay(shift.Date(2025, time.May, 5), madrid)

	assert.Equal(t, WindowWorkingDay, w.Label)
	assert.Equal(t, "2025-05-05T07:00:00+02:00", w.ClockIn.Format(time.RFC3339))
	assert.Equal(t, "2025-05-05T16:00:00+02:00", w.ClockOut.Format(time.RFC3339))
	require.NotNil(t, w.Lunch)
	assert.Equal(t, "2025-05-05T11:00:00+02:00", w.Lunch.Start.Format(time.RFC3339))
	assert.Equal(t, "2025-05-05T12:00:00+02:00", w.Lunch.End.Format(time.RFC3339))

	// January is CET, +01:00.
	winter := WorkingDay(shift.Date(2025, time.January, 8), madrid)
	assert.Equal(t, "2025-01-08T07:00:00+01:00", winter.ClockIn.Format(time.RFC3339))
}

func TestClient_ScheduleDay_NoContentIsSuccess(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, time.Now())

	outcome := client.ScheduleDay(context.Background(), "emp-7", shift.Date(2025, time.May, 6), "tok", &lineRecorder{})

	assert.True(t, outcome.IsEmpty())
}

func TestClient_ScheduleDay_Success(t *testing.T) {
	var got WorkEntryRequest
	var auth string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v3/work-entries", r.URL.Path)
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"data":{"id":"we-1"}}`))
	}, time.Now())
	sink := &lineRecorder{}

	outcome := client.ScheduleDay(context.Background(), "emp-7", shift.Date(2025, time.May, 6), "tok", sink)

	assert.True(t, outcome.IsEmpty())
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, WorkEntryRequest{
		EmployeeID: "emp-7",
		Date:       "2025-05-06",
		ClockIn:    "2025-05-06T07:00:00Z",
		ClockOut:   "2025-05-06T16:00:00Z",
		Breaks:     []BreakEntry{{Start: "2025-05-06T11:00:00Z", End: "2025-05-06T12:00:00Z"}},
		Origin:     "web",
	}, got)
	assert.Equal(t, []string{"Scheduling working day for 2025-05-06: 08:00 - 17:00 (lunch 13:00 - 14:00)"}, sink.lines)
}

// The progress line announces other hours than the ones submitted.
func TestClient_ScheduleDay_AnnouncedHoursDifferFromSubmitted(t *testing.T) {
	var got WorkEntryRequest
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	}, time.Now())
	sink := &lineRecorder{}

	client.ScheduleDay(context.Background(), "1", shift.Date(2025, time.May, 6), "tok", sink)

	require.NotEmpty(t, sink.lines)
	assert.Contains(t, sink.lines[0], "08:00 - 17:00")
	assert.Contains(t, sink.lines[0], "lunch 13:00 - 14:00")
	assert.Contains(t, got.ClockIn, "T07:00:00")
	assert.Contains(t, got.ClockOut, "T16:00:00")
	assert.Contains(t, got.Breaks[0].Start, "T11:00:00")
}

func TestClient_ScheduleDay_ApplicationErrors(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"messages":["Day is locked","second"]},{"message":"Overlap"},{}]}`))
	}, time.Now())

	outcome := client.ScheduleDay(context.Background(), "1", shift.Date(2025, time.May, 6), "tok", nil)

	require.Len(t, outcome, 1)
	msg, ok := outcome.Get(WindowWorkingDay)
	require.True(t, ok)
	assert.Equal(t, "Day is locked | Overlap | Unknown error", msg)
}

func TestClient_ScheduleDay_TransportError(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}, time.Now())
	sink := &lineRecorder{}

	outcome := client.ScheduleDay(context.Background(), "1", shift.Date(2025, time.May, 6), "bad", sink)

	require.Len(t, outcome, 1)
	msg, _ := outcome.Get(WindowWorkingDay)
	assert.Contains(t, msg, "401 Unauthorized")
	assert.Contains(t, sink.lines, "  Error for working_day: "+msg)
}

func TestDailyStat_Incomplete(t *testing.T) {
	cases := []struct {
		name     string
		recorded int
		planned  int
		want     bool
	}{
		{"half recorded", 4 * 60, 8 * 60, true},
		{"fully recorded", 8 * 60, 8 * 60, false},
		{"nothing planned", 0, 0, false},
		{"recorded on a day off", 3 * 60, 0, false},
		{"overtime", 9 * 60, 8 * 60, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := DailyStat{RecordedMinutes: c.recorded, PlannedMinutes: c.planned}
			assert.Equal(t, c.want, s.Incomplete())
		})
	}
}

func TestClient_FindIncompleteDays(t *testing.T) {
	var query string
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v3/employees/emp-7/daily-stats", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		query = r.URL.RawQuery
		w.Write([]byte(`{"data":[
			{"date":"2025-05-07","recordedMinutes":240,"plannedMinutes":480},
			{"date":"2025-05-05","recordedMinutes":480,"plannedMinutes":480},
			{"date":"2025-05-06","recordedMinutes":0,"plannedMinutes":480},
			{"date":"2025-05-03","recordedMinutes":120,"plannedMinutes":0},
			{"date":"2025-05-20","recordedMinutes":0,"plannedMinutes":480},
			{"date":"not-a-date","recordedMinutes":0,"plannedMinutes":480}
		]}`))
	}, time.Date(2025, time.May, 7, 18, 30, 0, 0, time.UTC))
	sink := &lineRecorder{}

	days := client.FindIncompleteDays(context.Background(), "emp-7", 2025, time.May, "tok", sink)

	assert.Equal(t, "from=2025-05-01&to=2025-05-07", query)
	assert.Equal(t, []time.Time{
		shift.Date(2025, time.May, 6),
		shift.Date(2025, time.May, 7),
	}, days)
	assert.Contains(t, sink.lines, "  2025-05-07: 4.00h recorded of 8.00h planned")
	assert.Contains(t, sink.lines, "  2025-05-06: 0.00h recorded of 8.00h planned")
}

func TestClient_FindIncompleteDays_FutureMonthSendsNothing(t *testing.T) {
	var calls atomic.Int32
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}, time.Date(2025, time.May, 7, 12, 0, 0, 0, time.UTC))

	days := client.FindIncompleteDays(context.Background(), "1", 2025, time.June, "tok", nil)

	assert.Empty(t, days)
	assert.Zero(t, calls.Load())
}

func TestClient_FindIncompleteDays_TransportFailureFallsBackToWeekdays(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}, time.Date(2025, time.May, 7, 9, 0, 0, 0, time.UTC))

	days := client.FindIncompleteDays(context.Background(), "1", 2025, time.May, "tok", nil)

	// May 2025 starts on a Thursday; the 3rd and 4th are a weekend.
	assert.Equal(t, []time.Time{
		shift.Date(2025, time.May, 1),
		shift.Date(2025, time.May, 2),
		shift.Date(2025, time.May, 5),
		shift.Date(2025, time.May, 6),
		shift.Date(2025, time.May, 7),
	}, days)
}

func TestHours(t *testing.T) {
	assert.Equal(t, "7.50", hours(450))
	assert.Equal(t, "0.00", hours(0))
	assert.Equal(t, "0.33", hours(20))
}
