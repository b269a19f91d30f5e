package worker

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jansunwai/models"
	"jansunwai/repository"
	"jansunwai/service"
)

func newTestTrackerWorker(t *testing.T) (*TrackerWorker, *repository.MemoryComplaintStore) {
	t.Helper()
	store := repository.NewMemoryComplaintStore()
	tracker := service.NewTrackerService(store, service.NewEscalationService(), nil)
	statuses := service.NewStatusService(store, nil, nil)
	return NewTrackerWorker(tracker, statuses, time.Hour), store
}

func TestTrackerWorkerPassRunsStatusMonitor(t *testing.T) {
	w, store := newTestTrackerWorker(t)

	// 80 hours in ORANGE blows the HIGH-urgency budget of 36 hours
	now := time.Now().UTC()
	require.NoError(t, store.Create(&models.Complaint{
		ComplaintID:      "c-1",
		Urgency:          models.UrgencyHigh,
		Category:         models.CategorySanitation,
		Department:       "Municipal Corporation of Delhi",
		CurrentStatus:    models.StatusOrange,
		StatusStartTime:  now.Add(-80 * time.Hour),
		LastStatusChange: now.Add(-80 * time.Hour),
		CreatedAt:        now.Add(-80 * time.Hour),
	}))

	// The combined pass must not choke on a store with no deadline records
	w.runTrackingPass()

	report := w.runMonitorPass()
	require.NotNil(t, report)
	require.Len(t, report.OverdueComplaints, 1)
	assert.Equal(t, "c-1", report.OverdueComplaints[0].ComplaintID)
	assert.InDelta(t, 44.0, report.OverdueComplaints[0].HoursOverdue, 0.5)

	var overdueAlert bool
	for _, a := range report.Alerts {
		if a.Type == models.AlertOverdueStatus && a.ComplaintID == "c-1" {
			overdueAlert = true
			assert.Equal(t, models.SeverityHigh, a.Severity)
		}
	}
	assert.True(t, overdueAlert, "monitor surfaces the status-budget breach")
}

func TestTrackerWorkerStartStop(t *testing.T) {
	w, _ := newTestTrackerWorker(t)

	w.Start()
	w.Stop()
	// A second Stop is a no-op, not a panic
	w.Stop()
}
