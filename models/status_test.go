package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransitionTo(t *testing.T) {
	assert.True(t, StatusRed.CanTransitionTo(StatusOrange))
	assert.True(t, StatusOrange.CanTransitionTo(StatusBlue))
	assert.True(t, StatusBlue.CanTransitionTo(StatusGreen))
	assert.True(t, StatusGreen.CanTransitionTo(StatusBlack))

	// Back-edges
	assert.True(t, StatusOrange.CanTransitionTo(StatusRed))
	assert.True(t, StatusBlue.CanTransitionTo(StatusOrange))
	assert.True(t, StatusGreen.CanTransitionTo(StatusBlue))

	// Shortcuts are rejected
	assert.False(t, StatusRed.CanTransitionTo(StatusBlue))
	assert.False(t, StatusRed.CanTransitionTo(StatusBlack))
	assert.False(t, StatusOrange.CanTransitionTo(StatusBlack))
	assert.False(t, StatusBlue.CanTransitionTo(StatusRed))

	// BLACK is terminal
	for _, target := range []Status{StatusRed, StatusOrange, StatusBlue, StatusGreen} {
		assert.False(t, StatusBlack.CanTransitionTo(target))
	}

	// Same-status update is always a legal refresh
	for _, s := range AllStatuses {
		assert.True(t, s.CanTransitionTo(s))
	}
}

func TestIsTerminal(t *testing.T) {
	assert.True(t, StatusBlack.IsTerminal())
	for _, s := range []Status{StatusRed, StatusOrange, StatusBlue, StatusGreen} {
		assert.False(t, s.IsTerminal())
	}
}

func TestAdjustedMaxDurationHours(t *testing.T) {
	assert.Equal(t, 24.0, AdjustedMaxDurationHours(StatusOrange, UrgencyCritical))
	assert.Equal(t, 36.0, AdjustedMaxDurationHours(StatusOrange, UrgencyHigh))
	assert.Equal(t, 48.0, AdjustedMaxDurationHours(StatusOrange, UrgencyMedium))
	assert.Equal(t, 72.0, AdjustedMaxDurationHours(StatusOrange, UrgencyLow))

	// Unknown urgency falls back to the base budget
	assert.Equal(t, 48.0, AdjustedMaxDurationHours(StatusOrange, Urgency("WEIRD")))

	// Terminal status has no budget
	assert.Equal(t, 0.0, AdjustedMaxDurationHours(StatusBlack, UrgencyCritical))
}

func TestCloneIsolation(t *testing.T) {
	c := &Complaint{
		ComplaintID:      "c-1",
		CurrentStatus:    StatusRed,
		ReminderSchedule: []ScheduledReminder{{Type: "acknowledgment_50_percent"}},
		StatusHistory: []StatusHistoryEntry{
			{From: StatusRed, To: StatusRed, Metadata: map[string]string{"k": "v"}},
		},
		Deadlines: &DeadlineRecord{AckHours: 2, ContextFactors: []string{"after_hours_submission"}},
	}

	cp := c.Clone()
	cp.ReminderSchedule[0].Sent = true
	cp.StatusHistory[0].Metadata["k"] = "changed"
	cp.Deadlines.AckHours = 99
	cp.Deadlines.ContextFactors[0] = "changed"

	assert.False(t, c.ReminderSchedule[0].Sent)
	assert.Equal(t, "v", c.StatusHistory[0].Metadata["k"])
	assert.Equal(t, 2, c.Deadlines.AckHours)
	assert.Equal(t, "after_hours_submission", c.Deadlines.ContextFactors[0])
}
