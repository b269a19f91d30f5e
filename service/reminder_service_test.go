package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jansunwai/models"
	"jansunwai/notification"
	"jansunwai/repository"
)

func newTestReminderService(now time.Time) (*ReminderService, *repository.MemoryReminderStore, *notification.EmailSender, *notification.SMSSender) {
	store := repository.NewMemoryReminderStore()
	email := notification.NewEmailSender()
	sms := notification.NewSMSSender()
	svc := NewReminderService(store, email, sms, nil)
	svc.now = func() time.Time { return now }
	return svc, store, email, sms
}

func complaintData() map[string]string {
	return map[string]string{
		"complaint_number": "CMP-20250203-abcd1234",
		"category":         "water",
		"description":      "No supply since Monday",
		"submitted_at":     "03 Feb 2025 10:00",
	}
}

func departmentData() map[string]string {
	return map[string]string{
		"department_name": "Delhi Jal Board",
		"department_head": "CEO, Delhi Jal Board",
	}
}

func TestScheduleRoutesToCorrectQueue(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc, store, _, _ := newTestReminderService(now)

	past, err := svc.Schedule("c-1", models.ReminderAck50, now.Add(-time.Minute),
		complaintData(), departmentData(), "complaints@delhijalboard.nic.in", "")
	require.NoError(t, err)
	assert.Equal(t, "pending", past.Queue)
	assert.Equal(t, models.LevelGentle, past.EscalationLevel)

	future, err := svc.Schedule("c-1", models.ReminderAck90, now.Add(time.Hour),
		complaintData(), departmentData(), "complaints@delhijalboard.nic.in", "")
	require.NoError(t, err)
	assert.Equal(t, "scheduled", future.Queue)
	assert.Equal(t, models.LevelUrgent, future.EscalationLevel)

	scheduled, pending, _, err := store.QueueCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, scheduled)
	assert.Equal(t, 1, pending)

	_, err = svc.Schedule("c-1", models.ReminderType("made_up"), now, nil, nil, "x@y", "")
	assert.Error(t, err)
}

func TestProcessPendingRendersAndArchives(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc, store, email, _ := newTestReminderService(now)

	_, err := svc.Schedule("c-1", models.ReminderAck50, now.Add(-time.Minute),
		complaintData(), departmentData(), "complaints@delhijalboard.nic.in", "")
	require.NoError(t, err)

	result, err := svc.ProcessPending(10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Zero(t, result.FailedCount)
	assert.Equal(t, 1, result.LevelsProcessed[models.LevelGentle])

	require.Len(t, result.Messages, 1)
	msg := result.Messages[0]
	assert.Contains(t, msg.Subject, "CMP-20250203-abcd1234")
	assert.Contains(t, msg.Body, "CEO, Delhi Jal Board")
	assert.Contains(t, msg.Body, "water")
	assert.Empty(t, msg.CCEmails, "gentle reminders carry no CC ladder")
	assert.Nil(t, msg.SMS)

	// Delivered, archived and logged
	assert.Len(t, email.Sent(), 1)
	_, pending, processed, err := store.QueueCounts()
	require.NoError(t, err)
	assert.Zero(t, pending)
	assert.Equal(t, 1, processed)

	entries, err := store.SentSince(now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, models.ReminderProcessed, entries[0].Status)
}

func TestProcessPendingPromotesDueScheduled(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestReminderService(now)

	_, err := svc.Schedule("c-1", models.ReminderRes25, now.Add(30*time.Minute),
		complaintData(), departmentData(), "complaints@delhijalboard.nic.in", "")
	require.NoError(t, err)

	// Not due yet
	result, err := svc.ProcessPending(10)
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount)
	assert.Equal(t, 1, result.ScheduledCount)

	// Clock advances past the checkpoint
	svc.now = func() time.Time { return now.Add(time.Hour) }
	result, err = svc.ProcessPending(10)
	require.NoError(t, err)
	assert.Equal(t, 1, result.ProcessedCount)
	assert.Zero(t, result.ScheduledCount)
}

func TestEscalatedReminderCCsAndSMS(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc, _, _, sms := newTestReminderService(now)

	_, err := svc.Schedule("c-1", models.ReminderOverdueRes, now.Add(-time.Minute),
		complaintData(), departmentData(), "complaints@delhijalboard.nic.in", "1916")
	require.NoError(t, err)

	result, err := svc.ProcessPending(10)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)

	msg := result.Messages[0]
	assert.Equal(t, models.LevelCriticalOverdue, msg.EscalationLevel)
	assert.Equal(t, "highest", msg.Priority)
	assert.Contains(t, msg.CCEmails, DistrictCollectorEmail)
	assert.Contains(t, msg.CCEmails, ChiefSecretaryEmail)
	assert.Contains(t, msg.CCEmails, ChiefMinisterOfficeEmail)

	require.NotNil(t, msg.SMS)
	assert.Equal(t, "1916", msg.SMS.Phone)
	assert.Len(t, sms.Sent(), 1)
}

func TestUrgentReminderWithoutPhoneSkipsSMS(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc, _, _, sms := newTestReminderService(now)

	_, err := svc.Schedule("c-1", models.ReminderAck90, now.Add(-time.Minute),
		complaintData(), departmentData(), "complaints@delhijalboard.nic.in", "")
	require.NoError(t, err)

	result, err := svc.ProcessPending(10)
	require.NoError(t, err)
	require.Len(t, result.Messages, 1)
	assert.Contains(t, result.Messages[0].CCEmails, DistrictCollectorEmail)
	assert.Nil(t, result.Messages[0].SMS)
	assert.Empty(t, sms.Sent())
}

func TestRenderFailureRetriesThenFails(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc, store, _, _ := newTestReminderService(now)

	// No recipient email: rendering can never succeed
	_, err := svc.Schedule("c-1", models.ReminderAck50, now.Add(-time.Minute),
		complaintData(), departmentData(), "", "")
	require.NoError(t, err)

	// First two attempts requeue
	for attempt := 1; attempt <= 2; attempt++ {
		result, err := svc.ProcessPending(10)
		require.NoError(t, err)
		assert.Equal(t, 1, result.RetryCount, "attempt %d", attempt)
		assert.Zero(t, result.FailedCount)
		assert.Equal(t, 1, result.RemainingPending)
	}

	// Third failure is final
	result, err := svc.ProcessPending(10)
	require.NoError(t, err)
	assert.Zero(t, result.RetryCount)
	assert.Equal(t, 1, result.FailedCount)
	assert.Zero(t, result.RemainingPending)

	// The queue is drained for good
	_, pending, _, err := store.QueueCounts()
	require.NoError(t, err)
	assert.Zero(t, pending)

	result, err = svc.ProcessPending(10)
	require.NoError(t, err)
	assert.Zero(t, result.ProcessedCount+result.FailedCount+result.RetryCount)
}

func TestStatistics(t *testing.T) {
	now := time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)
	svc, _, _, _ := newTestReminderService(now)

	for _, rt := range []models.ReminderType{models.ReminderAck50, models.ReminderAck90} {
		_, err := svc.Schedule("c-1", rt, now.Add(-time.Minute),
			complaintData(), departmentData(), "complaints@delhijalboard.nic.in", "")
		require.NoError(t, err)
	}
	_, err := svc.ProcessPending(10)
	require.NoError(t, err)

	stats, err := svc.Statistics(7)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalSent)
	assert.Equal(t, 1, stats.TypeDistribution[models.ReminderAck50])
	assert.Equal(t, 1, stats.TypeDistribution[models.ReminderAck90])
	assert.Equal(t, 1, stats.LevelDistribution[models.LevelGentle])
	assert.Equal(t, 1, stats.LevelDistribution[models.LevelUrgent])
	assert.Equal(t, 2, stats.RecipientCounts["complaints@delhijalboard.nic.in"])
	assert.InDelta(t, 100.0, stats.SuccessRate, 0.01)
	assert.Equal(t, 2, stats.ProcessedArchive)
}
