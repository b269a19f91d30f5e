package repository

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jansunwai/models"
)

func newStoredComplaint(id string, created time.Time) *models.Complaint {
	return &models.Complaint{
		ComplaintID:   id,
		CurrentStatus: models.StatusRed,
		Urgency:       models.UrgencyMedium,
		Category:      models.CategoryWater,
		CreatedAt:     created,
		ReminderSchedule: []models.ScheduledReminder{
			{Type: "acknowledgment_50_percent", ScheduledAt: created.Add(time.Hour)},
		},
	}
}

func TestMemoryComplaintStoreCRUD(t *testing.T) {
	store := NewMemoryComplaintStore()
	now := time.Now().UTC()

	require.NoError(t, store.Create(newStoredComplaint("c-1", now)))
	require.Error(t, store.Create(newStoredComplaint("c-1", now)), "duplicate id must be rejected")

	got, err := store.Get("c-1")
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ComplaintID)

	_, err = store.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)

	// Mutating the returned copy must not leak into the store
	got.CurrentStatus = models.StatusBlack
	again, err := store.Get("c-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRed, again.CurrentStatus)
}

func TestMemoryComplaintStoreListOrder(t *testing.T) {
	store := NewMemoryComplaintStore()
	base := time.Now().UTC()
	for i := 2; i >= 0; i-- {
		require.NoError(t, store.Create(newStoredComplaint(fmt.Sprintf("c-%d", i), base.Add(time.Duration(i)*time.Minute))))
	}

	list, err := store.List()
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "c-0", list[0].ComplaintID)
	assert.Equal(t, "c-2", list[2].ComplaintID)
}

func TestMemoryComplaintStoreUpdateRollsBackOnError(t *testing.T) {
	store := NewMemoryComplaintStore()
	now := time.Now().UTC()
	require.NoError(t, store.Create(newStoredComplaint("c-1", now)))

	_, err := store.Update("c-1", func(c *models.Complaint) error {
		c.CurrentStatus = models.StatusBlack
		return fmt.Errorf("validation failed")
	})
	require.Error(t, err)

	got, err := store.Get("c-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRed, got.CurrentStatus, "failed update must not change the stored record")
}

func TestMemoryComplaintStoreConcurrentUpdates(t *testing.T) {
	store := NewMemoryComplaintStore()
	now := time.Now().UTC()
	c := newStoredComplaint("c-1", now)
	c.StatusHistory = nil
	require.NoError(t, store.Create(c))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := store.Update("c-1", func(c *models.Complaint) error {
				c.StatusHistory = append(c.StatusHistory, models.StatusHistoryEntry{
					Reason: fmt.Sprintf("writer %d", n),
				})
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := store.Get("c-1")
	require.NoError(t, err)
	assert.Len(t, got.StatusHistory, writers, "no update may be lost")
}

func TestMemoryReminderStoreQueueFlow(t *testing.T) {
	store := NewMemoryReminderStore()
	now := time.Now().UTC()

	require.NoError(t, store.Save(&models.Reminder{
		ReminderID:    "r-due",
		Status:        models.ReminderScheduled,
		ScheduledTime: now.Add(-time.Minute),
	}))
	require.NoError(t, store.Save(&models.Reminder{
		ReminderID:    "r-future",
		Status:        models.ReminderScheduled,
		ScheduledTime: now.Add(time.Hour),
	}))

	promoted, err := store.PromoteDue(now)
	require.NoError(t, err)
	assert.Equal(t, 1, promoted)

	scheduled, pending, processed, err := store.QueueCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, scheduled)
	assert.Equal(t, 1, pending)
	assert.Equal(t, 0, processed)

	batch, err := store.PendingBatch(10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "r-due", batch[0].ReminderID)

	// The batch is popped, not peeked
	_, pending, _, err = store.QueueCounts()
	require.NoError(t, err)
	assert.Equal(t, 0, pending)

	require.NoError(t, store.MarkProcessed(batch[0]))
	_, _, processed, err = store.QueueCounts()
	require.NoError(t, err)
	assert.Equal(t, 1, processed)
}

func TestMemoryReminderStoreRequeueGoesPending(t *testing.T) {
	store := NewMemoryReminderStore()

	r := &models.Reminder{ReminderID: "r-1", Status: models.ReminderPending, RetryCount: 1}
	require.NoError(t, store.Requeue(r))

	batch, err := store.PendingBatch(10)
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, models.ReminderRetryPending, batch[0].Status)
	assert.Equal(t, 1, batch[0].RetryCount)
}

func TestMemoryReminderStoreSentLog(t *testing.T) {
	store := NewMemoryReminderStore()
	now := time.Now().UTC()

	require.NoError(t, store.LogSent(&models.ReminderLogEntry{ComplaintID: "old", Timestamp: now.Add(-48 * time.Hour)}))
	require.NoError(t, store.LogSent(&models.ReminderLogEntry{ComplaintID: "new", Timestamp: now}))

	entries, err := store.SentSince(now.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "new", entries[0].ComplaintID)
}
