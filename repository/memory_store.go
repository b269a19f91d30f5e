package repository

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"jansunwai/models"
)

const (
	maxProcessedArchive = 1000
	maxSentLog          = 2000
)

// MemoryComplaintStore is an in-memory ComplaintStore guarded by a single
// mutex. Contention is low (one store per process), so one lock covering
// every operation is enough to rule out lost updates.
type MemoryComplaintStore struct {
	mu         sync.Mutex
	complaints map[string]*models.Complaint
}

// NewMemoryComplaintStore creates an empty in-memory complaint store.
func NewMemoryComplaintStore() *MemoryComplaintStore {
	return &MemoryComplaintStore{complaints: make(map[string]*models.Complaint)}
}

// Create stores a new complaint.
func (s *MemoryComplaintStore) Create(c *models.Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.complaints[c.ComplaintID]; exists {
		return fmt.Errorf("complaint %s already exists", c.ComplaintID)
	}
	s.complaints[c.ComplaintID] = c.Clone()
	return nil
}

// Get returns a copy of the complaint or ErrNotFound.
func (s *MemoryComplaintStore) Get(complaintID string) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[complaintID]
	if !ok {
		return nil, ErrNotFound
	}
	return c.Clone(), nil
}

// List returns copies of all complaints ordered by creation time.
func (s *MemoryComplaintStore) List() ([]*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Complaint, 0, len(s.complaints))
	for _, c := range s.complaints {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Update applies fn to the stored complaint under the lock. If fn returns an
// error the stored record is left untouched.
func (s *MemoryComplaintStore) Update(complaintID string, fn func(*models.Complaint) error) (*models.Complaint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.complaints[complaintID]
	if !ok {
		return nil, ErrNotFound
	}
	working := c.Clone()
	if err := fn(working); err != nil {
		return nil, err
	}
	s.complaints[complaintID] = working
	return working.Clone(), nil
}

// MemoryReminderStore is an in-memory ReminderStore.
type MemoryReminderStore struct {
	mu        sync.Mutex
	scheduled []*models.Reminder
	pending   []*models.Reminder
	processed []*models.Reminder
	failed    []*models.Reminder
	sentLog   []models.ReminderLogEntry
}

// NewMemoryReminderStore creates an empty in-memory reminder store.
func NewMemoryReminderStore() *MemoryReminderStore {
	return &MemoryReminderStore{}
}

// Save enqueues a reminder into the queue matching its status.
func (s *MemoryReminderStore) Save(r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	switch r.Status {
	case models.ReminderPending, models.ReminderRetryPending:
		s.pending = append(s.pending, &cp)
	default:
		s.scheduled = append(s.scheduled, &cp)
	}
	return nil
}

// PromoteDue moves due scheduled reminders into the pending queue.
func (s *MemoryReminderStore) PromoteDue(now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var still []*models.Reminder
	promoted := 0
	for _, r := range s.scheduled {
		if !r.ScheduledTime.After(now) {
			r.Status = models.ReminderPending
			s.pending = append(s.pending, r)
			promoted++
		} else {
			still = append(still, r)
		}
	}
	s.scheduled = still
	return promoted, nil
}

// PendingBatch pops up to limit reminders from the pending queue, oldest first.
func (s *MemoryReminderStore) PendingBatch(limit int) ([]*models.Reminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.pending) {
		limit = len(s.pending)
	}
	batch := s.pending[:limit]
	s.pending = append([]*models.Reminder(nil), s.pending[limit:]...)
	out := make([]*models.Reminder, len(batch))
	for i, r := range batch {
		cp := *r
		out[i] = &cp
	}
	return out, nil
}

// MarkProcessed archives the reminder, pruning the archive to its cap.
func (s *MemoryReminderStore) MarkProcessed(r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.processed = append(s.processed, &cp)
	if len(s.processed) > maxProcessedArchive {
		s.processed = s.processed[len(s.processed)-maxProcessedArchive:]
	}
	return nil
}

// Requeue returns a failed render to the pending queue as retry_pending.
func (s *MemoryReminderStore) Requeue(r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	cp.Status = models.ReminderRetryPending
	s.pending = append(s.pending, &cp)
	return nil
}

// MarkFailed records a permanently failed reminder.
func (s *MemoryReminderStore) MarkFailed(r *models.Reminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *r
	s.failed = append(s.failed, &cp)
	return nil
}

// QueueCounts returns current queue sizes.
func (s *MemoryReminderStore) QueueCounts() (scheduled, pending, processed int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.scheduled), len(s.pending), len(s.processed), nil
}

// LogSent appends to the sent-reminders log, capped.
func (s *MemoryReminderStore) LogSent(e *models.ReminderLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sentLog = append(s.sentLog, *e)
	if len(s.sentLog) > maxSentLog {
		s.sentLog = s.sentLog[len(s.sentLog)-maxSentLog:]
	}
	return nil
}

// SentSince returns log entries at or after cutoff.
func (s *MemoryReminderStore) SentSince(cutoff time.Time) ([]models.ReminderLogEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ReminderLogEntry
	for _, e := range s.sentLog {
		if !e.Timestamp.Before(cutoff) {
			out = append(out, e)
		}
	}
	return out, nil
}
