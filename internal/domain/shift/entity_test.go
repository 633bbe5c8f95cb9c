package shift

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOutcome_Add(t *testing.T) {
	var o DayOutcome
	assert.True(t, o.IsEmpty())

	o.Add("morning", "first")
	o.Add("afternoon", "other")
	o.Add("morning", "second")

	require.Len(t, o, 2)
	msg, ok := o.Get("morning")
	assert.True(t, ok)
	assert.Equal(t, "first | second", msg)
	_, ok = o.Get("lunch_break")
	assert.False(t, ok)
}

func TestMonthResult_RecordSkipsEmptyOutcomes(t *testing.T) {
	var m MonthResult
	m.Record("2025-02-03", nil)
	m.Record("2025-02-04", DayOutcome{})
	assert.True(t, m.IsEmpty())

	m.Record("2025-02-05", DayOutcome{{Window: "morning", Message: "boom"}})
	assert.Equal(t, 1, m.Len())
	assert.Equal(t, []string{"2025-02-05"}, m.Dates())
}

func TestMonthResult_MarshalKeepsInsertionOrder(t *testing.T) {
	var m MonthResult
	m.Record("2025-02-10", DayOutcome{
		{Window: "morning", Message: "a"},
		{Window: "afternoon", Message: "b"},
	})
	m.Record("2025-02-03", DayOutcome{
		{Window: "lunch_break", Message: "c"},
	})

	data, err := json.Marshal(m)

	require.NoError(t, err)
	assert.Equal(t,
		`{"2025-02-10":{"morning":"a","afternoon":"b"},"2025-02-03":{"lunch_break":"c"}}`,
		string(data))
}

func TestMonthResult_EmptyMarshalsAsObject(t *testing.T) {
	data, err := json.MarshalIndent(MonthResult{}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}

func TestMonthResult_Unmarshal(t *testing.T) {
	var m MonthResult
	err := json.Unmarshal([]byte(`{"2025-05-06":{"working_day":"x"},"2025-05-05":{"working_day":"EOF"}}`), &m)

	require.NoError(t, err)
	assert.Equal(t, []string{"2025-05-06", "2025-05-05"}, m.Dates())
	outcome, ok := m.Get("2025-05-05")
	require.True(t, ok)
	msg, _ := outcome.Get("working_day")
	assert.Equal(t, "EOF", msg)

	assert.Error(t, json.Unmarshal([]byte(`["not","an","object"]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"2025-05-05":{"working_day":1}}`), &m))
}

func TestScheduleRequest_MonthBounds(t *testing.T) {
	req := ScheduleRequest{Year: 2024, Month: 2}
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), req.FirstDay())
	assert.Equal(t, time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), req.LastDay())
}
