package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{
		"low":     PriorityLow,
		" Medium": PriorityMedium,
		"HIGH":    PriorityHigh,
	} {
		got, err := ParsePriority(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParsePriority("urgent")
	assert.EqualError(t, err, "invalid priority: urgent")
}

func TestParseDeadline(t *testing.T) {
	d, err := ParseDeadline("2026-03-10")
	require.NoError(t, err)
	assert.True(t, d.DateOnly)
	assert.Equal(t, "2026-03-10", d.String())

	d, err = ParseDeadline("2026-03-10T09:30:00Z")
	require.NoError(t, err)
	assert.False(t, d.DateOnly)
	assert.Equal(t, "2026-03-10T09:30:00Z", d.String())

	d, err = ParseDeadline("2026-03-10T09:30")
	require.NoError(t, err)
	assert.False(t, d.DateOnly)
	assert.True(t, d.Equal(time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)), "zone-less timestamps are local")
	assert.Equal(t, "2026-03-10T09:30", d.String())

	d, err = ParseDeadline("2026-03-10T09:30:15")
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2026, 3, 10, 9, 30, 15, 0, time.Local)))
	assert.Equal(t, "2026-03-10T09:30:15", d.String())

	_, err = ParseDeadline("next week")
	assert.EqualError(t, err, "invalid deadline: next week")
}

func TestDeadline_PassedAt(t *testing.T) {
	day, _ := ParseDeadline("2026-03-10")
	assert.False(t, day.PassedAt(time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)), "date-only deadline lasts the whole day")
	assert.True(t, day.PassedAt(time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)))

	stamp, _ := ParseDeadline("2026-03-10T09:30:00Z")
	assert.False(t, stamp.PassedAt(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)))
	assert.True(t, stamp.PassedAt(time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)))

	local, _ := ParseDeadline("2026-03-10T09:30")
	assert.False(t, local.PassedAt(time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)))
	assert.True(t, local.PassedAt(time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)))

	assert.False(t, Deadline{Raw: "soon"}.PassedAt(time.Now()))
}

func TestCard_DeadlineJSON(t *testing.T) {
	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c1","title":"Ship","deadline":"2026-03-10","priority":"high","list_id":"l1","position":2000}`), &c))
	assert.Equal(t, "c1", c.ID)
	assert.Equal(t, PriorityHigh, c.Priority)
	assert.Equal(t, 2000, c.Position)
	require.True(t, c.HasDeadline())
	assert.Equal(t, "2026-03-10", c.Deadline.String())

	var empty Card
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c2","deadline":""}`), &empty))
	assert.False(t, empty.HasDeadline())

	var none Card
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c3","deadline":null}`), &none))
	assert.False(t, none.HasDeadline())
	assert.False(t, none.Overdue(time.Now()))

	var minutes Card
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c4","deadline":"2026-03-10T09:30"}`), &minutes))
	require.True(t, minutes.HasDeadline())
	assert.True(t, minutes.Deadline.Equal(time.Date(2026, 3, 10, 9, 30, 0, 0, time.Local)))

	var seconds Card
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c5","deadline":"2026-03-10T09:30:15"}`), &seconds))
	require.True(t, seconds.HasDeadline())
	assert.Equal(t, "2026-03-10T09:30:15", seconds.Deadline.String())

	var odd Card
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c6","deadline":"end of sprint"}`), &odd))
	require.True(t, odd.HasDeadline())
	assert.Equal(t, "end of sprint", odd.Deadline.Raw)
	assert.False(t, odd.Overdue(time.Now()))
	data, err := json.Marshal(odd.Deadline)
	require.NoError(t, err)
	assert.Equal(t, `"end of sprint"`, string(data))

	var number Card
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"c7","deadline":20260310}`), &number))
	assert.Equal(t, "20260310", number.Deadline.Raw)
}

func TestCardInput_DeadlineEncoding(t *testing.T) {
	data, err := json.Marshal(CardInput{Title: "Ship", Deadline: &Deadline{}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Ship","description":"","deadline":""}`, string(data), "cleared")

	data, err = json.Marshal(CardInput{Title: "Ship"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Ship","description":"","deadline":null}`, string(data), "unchanged")
}

func TestInputFromCard(t *testing.T) {
	d, _ := ParseDeadline("2026-03-10")
	c := Card{ID: "c1", Title: "Ship", Description: "v1", Deadline: &d, Priority: PriorityMedium, ListID: "l1", Position: 1000}

	in := InputFromCard(c)
	assert.Equal(t, CardInput{Title: "Ship", Description: "v1", Deadline: &d, Priority: PriorityMedium}, in)
}
