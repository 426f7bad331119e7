package ics

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duetrack/internal/models"
)

func sampleDeadlines() []models.Deadline {
	due := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	return []models.Deadline{
		{ID: 1, Title: "Essay", Course: "ENG101", Date: due, Priority: models.PriorityHigh, EstimatedHours: 2},
		{ID: 2, Title: "Quiz", Date: due.Add(24 * time.Hour), Priority: models.PriorityLow, Completed: true},
		{ID: 3, Title: "Lab", Description: "Bring goggles", Date: due.Add(48 * time.Hour), Priority: models.PriorityMedium},
	}
}

func decode(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return cal
}

func TestExport_OneEventPerDeadline(t *testing.T) {
	deadlines := sampleDeadlines()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, deadlines))

	cal := decode(t, buf.Bytes())

	events := cal.Events()
	require.Len(t, events, len(deadlines))

	for i, event := range events {
		uid, err := event.Props.Text(ical.PropUID)
		require.NoError(t, err)
		assert.Equal(t, EventUID(&deadlines[i]), uid)

		summary, err := event.Props.Text(ical.PropSummary)
		require.NoError(t, err)
		assert.Equal(t, deadlines[i].Title, summary)

		start, err := event.Props.DateTime(ical.PropDateTimeStart, time.UTC)
		require.NoError(t, err)
		assert.True(t, start.Equal(deadlines[i].Date), "DTSTART must match the due date")
	}
}

func TestExport_EventLength(t *testing.T) {
	deadlines := sampleDeadlines()

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, deadlines))
	events := decode(t, buf.Bytes()).Events()

	// Estimated hours set the block; a deadline without them gets one hour.
	end, err := events[0].Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, end.Sub(deadlines[0].Date))

	end, err = events[1].Props.DateTime(ical.PropDateTimeEnd, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Hour, end.Sub(deadlines[1].Date))
}

func TestExport_PriorityAndStatus(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleDeadlines()))
	out := buf.String()

	assert.Contains(t, out, "PRIORITY:1")
	assert.Contains(t, out, "PRIORITY:9")
	assert.Contains(t, out, "PRIORITY:5")
	assert.Contains(t, out, "STATUS:COMPLETED")
	assert.Contains(t, out, "DESCRIPTION:ENG101")
	assert.Contains(t, out, "DESCRIPTION:Bring goggles")
}

func TestExport_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil))

	cal := decode(t, buf.Bytes())
	assert.Empty(t, cal.Events())
}

func TestEventUID_Stable(t *testing.T) {
	d := models.Deadline{ID: 42}
	assert.Equal(t, EventUID(&d), EventUID(&d), "UID must be stable across exports")

	unsaved := models.Deadline{}
	assert.NotEqual(t, EventUID(&unsaved), EventUID(&unsaved), "unsaved deadlines get fresh UIDs")
}
