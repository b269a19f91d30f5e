package repository

import (
	"errors"
	"time"

	"jansunwai/models"
)

// ErrNotFound is returned when a record does not exist. Callers treat it as a
// no-op condition, never a crash.
var ErrNotFound = errors.New("record not found")

// ComplaintStore is the shared complaint store every component operates over.
// Update runs fn under the store's lock so a read-modify-write of one
// complaint is atomic: concurrent reminder-sent flags and status changes
// cannot lose updates.
type ComplaintStore interface {
	Create(c *models.Complaint) error
	Get(complaintID string) (*models.Complaint, error)
	List() ([]*models.Complaint, error)
	Update(complaintID string, fn func(*models.Complaint) error) (*models.Complaint, error)
}

// ReminderStore holds the reminder queues (scheduled, pending, processed
// archive) and the sent-reminders log.
type ReminderStore interface {
	Save(r *models.Reminder) error
	// PromoteDue moves scheduled reminders whose time has arrived into the
	// pending queue and returns how many were promoted.
	PromoteDue(now time.Time) (int, error)
	// PendingBatch returns up to limit pending (or retry_pending) reminders,
	// oldest first.
	PendingBatch(limit int) ([]*models.Reminder, error)
	// MarkProcessed archives a processed reminder; the archive is capped at
	// the newest maxArchive entries.
	MarkProcessed(r *models.Reminder) error
	// Requeue puts a reminder back in the pending queue as retry_pending.
	Requeue(r *models.Reminder) error
	MarkFailed(r *models.Reminder) error
	// QueueCounts returns the current scheduled, pending and archived counts.
	QueueCounts() (scheduled, pending, processed int, err error)
	LogSent(e *models.ReminderLogEntry) error
	SentSince(cutoff time.Time) ([]models.ReminderLogEntry, error)
}
