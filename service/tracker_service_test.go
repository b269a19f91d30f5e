package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jansunwai/models"
	"jansunwai/repository"
)

func newTestTracker(store repository.ComplaintStore, now time.Time) *TrackerService {
	svc := NewTrackerService(store, NewEscalationService(), nil)
	svc.now = func() time.Time { return now }
	return svc
}

func seedTrackedComplaint(t *testing.T, store repository.ComplaintStore, id string, status models.Status, ackDeadline, resDeadline time.Time) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, store.Create(&models.Complaint{
		ComplaintID:      id,
		Category:         models.CategoryWater,
		Urgency:          models.UrgencyMedium,
		Department:       "Delhi Jal Board",
		CurrentStatus:    status,
		StatusStartTime:  now.Add(-time.Hour),
		LastStatusChange: now.Add(-time.Hour),
		CreatedAt:        now.Add(-time.Hour),
		Deadlines: &models.DeadlineRecord{
			AcknowledgmentDeadline: ackDeadline,
			ResolutionDeadline:     resDeadline,
			AckHours:               48,
			ResHours:               168,
		},
	}))
}

func TestTrackOverdueAcknowledgment(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	// Ack 2h overdue, resolution far away
	seedTrackedComplaint(t, store, "c-1", models.StatusOrange, now.Add(-2*time.Hour), now.Add(100*time.Hour))

	report, err := svc.Track("", true)
	require.NoError(t, err)

	require.Len(t, report.OverdueDeadlines, 1)
	f := report.OverdueDeadlines[0]
	assert.Equal(t, "acknowledgment", f.DeadlineType)
	assert.Equal(t, models.SeverityHigh, f.Severity)
	assert.InDelta(t, 2.0, f.HoursOverdue, 0.1)

	// An overdue deadline demands an overdue reminder
	var found bool
	for _, a := range report.ActionsRequired {
		if a.ActionType == "schedule_reminder" && a.ReminderType == "overdue_acknowledgment" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestTrackOverdueSeverityEscalatesWithAge(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	// Ack 30h overdue (past the 24h bar), resolution 80h overdue (past 72h)
	seedTrackedComplaint(t, store, "c-1", models.StatusOrange, now.Add(-30*time.Hour), now.Add(-80*time.Hour))

	report, err := svc.Track("", true)
	require.NoError(t, err)

	require.Len(t, report.OverdueDeadlines, 2)
	for _, f := range report.OverdueDeadlines {
		assert.Equal(t, models.SeverityCritical, f.Severity, f.DeadlineType)
	}
}

func TestTrackAcknowledgmentOnlyBeforeDepartmentEngages(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	// Acknowledged (BLUE): the missed ack deadline no longer matters
	seedTrackedComplaint(t, store, "c-1", models.StatusBlue, now.Add(-5*time.Hour), now.Add(100*time.Hour))

	report, err := svc.Track("", true)
	require.NoError(t, err)
	assert.Empty(t, report.OverdueDeadlines)
}

func TestTrackApproachingWindows(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	// Ack due in 2h (inside the 6h window, inside the 3h half-window: HIGH)
	seedTrackedComplaint(t, store, "soon", models.StatusOrange, now.Add(2*time.Hour), now.Add(200*time.Hour))
	// Resolution due in 20h (inside the 24h window, outside 12h: MEDIUM)
	seedTrackedComplaint(t, store, "later", models.StatusGreen, now.Add(-300*time.Hour), now.Add(20*time.Hour))

	report, err := svc.Track("", true)
	require.NoError(t, err)
	require.Len(t, report.ApproachingDeadlines, 2)

	bySubject := map[string]models.DeadlineFinding{}
	for _, f := range report.ApproachingDeadlines {
		bySubject[f.ComplaintID] = f
	}
	assert.Equal(t, models.SeverityHigh, bySubject["soon"].Severity)
	assert.Equal(t, "acknowledgment", bySubject["soon"].DeadlineType)
	assert.Equal(t, models.SeverityMedium, bySubject["later"].Severity)
	assert.Equal(t, "resolution", bySubject["later"].DeadlineType)
}

func TestTrackDeadlineAtThisInstantIsNotApproaching(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	// Both deadlines land on the tick itself. Zero hours remaining is not an
	// approaching finding, and the instant itself is not yet overdue.
	seedTrackedComplaint(t, store, "c-1", models.StatusOrange, now, now)

	report, err := svc.Track("", true)
	require.NoError(t, err)
	assert.Empty(t, report.ApproachingDeadlines)
	assert.Empty(t, report.OverdueDeadlines)

	// One second past the tick the same deadlines are overdue
	svc.now = func() time.Time { return now.Add(time.Second) }
	report, err = svc.Track("", true)
	require.NoError(t, err)
	assert.Empty(t, report.ApproachingDeadlines)
	assert.Len(t, report.OverdueDeadlines, 2)
}

func TestTrackSkipsResolvedComplaints(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	seedTrackedComplaint(t, store, "done", models.StatusBlack, now.Add(-100*time.Hour), now.Add(-50*time.Hour))

	report, err := svc.Track("", true)
	require.NoError(t, err)
	assert.Zero(t, report.TotalTracked)
	assert.Empty(t, report.OverdueDeadlines)
}

func TestTrackReminderMarkingIsIdempotent(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	require.NoError(t, store.Create(&models.Complaint{
		ComplaintID:      "c-1",
		Urgency:          models.UrgencyMedium,
		Category:         models.CategoryRoad,
		Department:       "Public Works Department",
		CurrentStatus:    models.StatusOrange,
		StatusStartTime:  now.Add(-2 * time.Hour),
		LastStatusChange: now.Add(-2 * time.Hour),
		CreatedAt:        now.Add(-2 * time.Hour),
		ReminderSchedule: []models.ScheduledReminder{
			{Type: string(models.ReminderAck50), ScheduledAt: now.Add(-time.Hour), Description: "halfway"},
			{Type: string(models.ReminderAck90), ScheduledAt: now.Add(time.Hour), Description: "not yet"},
		},
	}))

	first, err := svc.Track("", true)
	require.NoError(t, err)

	var sends int
	for _, a := range first.ActionsRequired {
		if a.ActionType == "send_reminder" {
			sends++
			assert.Equal(t, string(models.ReminderAck50), a.ReminderType)
		}
	}
	assert.Equal(t, 1, sends, "only the due checkpoint fires")

	stored, err := store.Get("c-1")
	require.NoError(t, err)
	assert.True(t, stored.ReminderSchedule[0].Sent)
	require.NotNil(t, stored.ReminderSchedule[0].SentAt)
	assert.False(t, stored.ReminderSchedule[1].Sent)

	// A second pass over the same store sends nothing new
	second, err := svc.Track("", true)
	require.NoError(t, err)
	for _, a := range second.ActionsRequired {
		assert.NotEqual(t, "send_reminder", a.ActionType)
	}
}

func TestTrackEscalationTriggers(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	require.NoError(t, store.Create(&models.Complaint{
		ComplaintID:      "c-1",
		Urgency:          models.UrgencyHigh,
		Category:         models.CategoryWater,
		Department:       "Delhi Jal Board",
		CurrentStatus:    models.StatusOrange,
		StatusStartTime:  now.Add(-48 * time.Hour),
		LastStatusChange: now.Add(-48 * time.Hour),
		CreatedAt:        now.Add(-48 * time.Hour),
		EscalationSchedule: []models.EscalationTrigger{
			{Level: 1, TriggerAt: now.Add(-time.Hour), Condition: "no acknowledgment", Action: "Escalate to Department Head"},
			{Level: 3, TriggerAt: now.Add(50 * time.Hour), Condition: "no resolution", Action: "Escalate to State Secretariat"},
		},
	}))

	report, err := svc.Track("", true)
	require.NoError(t, err)

	var escalations int
	for _, a := range report.ActionsRequired {
		if a.ActionType == "escalate" {
			escalations++
			assert.Contains(t, a.Message, "Level 1")
		}
	}
	assert.Equal(t, 1, escalations)
}

func TestTrackDepartmentSummaryAndPerformance(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	seedTrackedComplaint(t, store, "o-1", models.StatusOrange, now.Add(-2*time.Hour), now.Add(400*time.Hour))
	seedTrackedComplaint(t, store, "ok-1", models.StatusOrange, now.Add(100*time.Hour), now.Add(400*time.Hour))

	report, err := svc.Track("", true)
	require.NoError(t, err)

	sum := report.DepartmentSummary["Delhi Jal Board"]
	assert.Equal(t, 1, sum.Overdue)

	require.NotNil(t, report.Performance)
	assert.Equal(t, 2, report.Performance.ActiveComplaints)
	assert.InDelta(t, 50.0, report.Performance.OverduePercentage, 0.1)
	assert.Equal(t, "POOR", report.Performance.HealthStatus)
	assert.Equal(t, 1, report.Performance.DepartmentsAtRisk)
}

func TestCheckEscalationThroughTracker(t *testing.T) {
	store := repository.NewMemoryComplaintStore()
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc := newTestTracker(store, now)

	require.NoError(t, store.Create(&models.Complaint{
		ComplaintID:   "c-1",
		Description:   "Transformer sparking, dangerous for the whole lane",
		Urgency:       models.UrgencyMedium,
		CurrentStatus: models.StatusOrange,
		CreatedAt:     now,
	}))

	result, err := svc.CheckEscalation("c-1")
	require.NoError(t, err)
	assert.True(t, result.Escalated)
	assert.Equal(t, "Safety concern identified", result.Reason)

	_, err = svc.CheckEscalation("missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
