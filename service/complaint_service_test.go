package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jansunwai/calendar"
	"jansunwai/models"
	"jansunwai/notification"
	"jansunwai/repository"
)

func newTestComplaintService(t *testing.T) (*ComplaintService, *repository.MemoryComplaintStore, *repository.MemoryReminderStore) {
	t.Helper()
	store := repository.NewMemoryComplaintStore()
	reminderStore := repository.NewMemoryReminderStore()
	reminders := NewReminderService(reminderStore, notification.NewEmailSender(), notification.NewSMSSender(), nil)
	deadlines := NewDeadlineService(calendar.New(nil), nil)
	svc := NewComplaintService(store, deadlines, NewDepartmentService(), reminders)
	return svc, store, reminderStore
}

func TestFileComplaint(t *testing.T) {
	svc, store, reminderStore := newTestComplaintService(t)

	resp, err := svc.File(&models.CreateComplaintRequest{
		Description: "No water supply in sector 9 since Monday",
		Category:    models.CategoryWater,
		Urgency:     models.UrgencyHigh,
		SubmittedAt: "2025-02-03T10:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, models.StatusRed, resp.CurrentStatus)
	assert.Equal(t, "Delhi Jal Board", resp.Department)
	assert.Regexp(t, "^CMP-20250203-[0-9a-f]{8}$", resp.ComplaintNumber)
	require.NotNil(t, resp.Deadlines)

	stored, err := store.Get(resp.ComplaintID)
	require.NoError(t, err)
	assert.Equal(t, models.UrgencyHigh, stored.Urgency)
	assert.Len(t, stored.StatusHistory, 1)
	assert.NotEmpty(t, stored.ReminderSchedule)
	assert.Len(t, stored.EscalationSchedule, 3)
	assert.Equal(t, time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC), stored.SubmittedAt)

	// Every schedule checkpoint lands in the reminder queue
	scheduled, pending, _, err := reminderStore.QueueCounts()
	require.NoError(t, err)
	assert.Equal(t, len(stored.ReminderSchedule), scheduled+pending)
}

func TestFileComplaintValidation(t *testing.T) {
	svc, _, _ := newTestComplaintService(t)

	_, err := svc.File(&models.CreateComplaintRequest{Description: "   "})
	assert.Error(t, err)

	// Unknown urgency and empty category degrade instead of failing
	resp, err := svc.File(&models.CreateComplaintRequest{
		Description: "General grievance",
		Urgency:     models.Urgency("SOMEDAY"),
	})
	require.NoError(t, err)
	assert.Equal(t, "District Collector Office", resp.Department)
}

func TestListFiltersByDepartment(t *testing.T) {
	svc, _, _ := newTestComplaintService(t)

	_, err := svc.File(&models.CreateComplaintRequest{Description: "water issue", Category: models.CategoryWater, Urgency: models.UrgencyLow})
	require.NoError(t, err)
	_, err = svc.File(&models.CreateComplaintRequest{Description: "road issue", Category: models.CategoryRoad, Urgency: models.UrgencyLow})
	require.NoError(t, err)

	all, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, all, 2)

	pwd, err := svc.List("Public Works Department")
	require.NoError(t, err)
	require.Len(t, pwd, 1)
	assert.Equal(t, models.CategoryRoad, pwd[0].Category)
}

func TestTimeline(t *testing.T) {
	svc, _, _ := newTestComplaintService(t)

	resp, err := svc.File(&models.CreateComplaintRequest{Description: "test", Category: models.CategoryHealth, Urgency: models.UrgencyCritical})
	require.NoError(t, err)

	history, err := svc.Timeline(resp.ComplaintID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "Complaint registered", history[0].Reason)

	_, err = svc.Timeline("missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
