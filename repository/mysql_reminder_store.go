package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jansunwai/models"
)

// MySQLReminderStore is the MySQL-backed ReminderStore. Queue membership is
// the status column; the processed archive and sent log are pruned to their
// caps on every write.
type MySQLReminderStore struct {
	db *sql.DB
}

// NewMySQLReminderStore creates a MySQL reminder store.
func NewMySQLReminderStore(db *sql.DB) *MySQLReminderStore {
	return &MySQLReminderStore{db: db}
}

// Save inserts a reminder in its current queue state.
func (s *MySQLReminderStore) Save(r *models.Reminder) error {
	complaintData, err := json.Marshal(r.ComplaintData)
	if err != nil {
		return fmt.Errorf("failed to encode complaint data: %w", err)
	}
	departmentData, err := json.Marshal(r.DepartmentData)
	if err != nil {
		return fmt.Errorf("failed to encode department data: %w", err)
	}
	ccEmails, err := json.Marshal(r.CCEmails)
	if err != nil {
		return fmt.Errorf("failed to encode cc emails: %w", err)
	}

	query := `
		INSERT INTO reminders (
			reminder_id, complaint_id, reminder_type, scheduled_time, status,
			escalation_level, complaint_data, department_data, recipient_email,
			recipient_phone, cc_emails, retry_count, max_retries, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		r.ReminderID, r.ComplaintID, r.Type, r.ScheduledTime, r.Status,
		r.EscalationLevel, complaintData, departmentData, r.RecipientEmail,
		r.RecipientPhone, ccEmails, r.RetryCount, r.MaxRetries, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save reminder: %w", err)
	}
	return nil
}

// PromoteDue flips due scheduled reminders to pending.
func (s *MySQLReminderStore) PromoteDue(now time.Time) (int, error) {
	result, err := s.db.Exec(
		`UPDATE reminders SET status = ? WHERE status = ? AND scheduled_time <= ?`,
		models.ReminderPending, models.ReminderScheduled, now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to promote due reminders: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count promoted reminders: %w", err)
	}
	return int(n), nil
}

// PendingBatch claims up to limit pending reminders, oldest first. Claimed
// rows are deleted; the caller re-saves them into their next state.
func (s *MySQLReminderStore) PendingBatch(limit int) ([]*models.Reminder, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT reminder_id, complaint_id, reminder_type, scheduled_time, status,
			escalation_level, complaint_data, department_data, recipient_email,
			recipient_phone, cc_emails, retry_count, max_retries, last_error, created_at
		FROM reminders
		WHERE status IN (?, ?)
		ORDER BY created_at ASC
		LIMIT ? FOR UPDATE`,
		models.ReminderPending, models.ReminderRetryPending, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending reminders: %w", err)
	}

	var batch []*models.Reminder
	for rows.Next() {
		r, err := scanReminder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan reminder: %w", err)
		}
		batch = append(batch, r)
	}
	if err = rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("error iterating reminders: %w", err)
	}
	rows.Close()

	for _, r := range batch {
		if _, err := tx.Exec(`DELETE FROM reminders WHERE reminder_id = ?`, r.ReminderID); err != nil {
			return nil, fmt.Errorf("failed to claim reminder: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit reminder batch: %w", err)
	}
	return batch, nil
}

// MarkProcessed archives a processed reminder and prunes the archive cap.
func (s *MySQLReminderStore) MarkProcessed(r *models.Reminder) error {
	processedAt := time.Now().UTC()
	if r.ProcessedAt != nil {
		processedAt = *r.ProcessedAt
	}
	_, err := s.db.Exec(`
		INSERT INTO reminder_archive (reminder_id, complaint_id, reminder_type, escalation_level, processed_at)
		VALUES (?, ?, ?, ?, ?)`,
		r.ReminderID, r.ComplaintID, r.Type, r.EscalationLevel, processedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to archive reminder: %w", err)
	}
	// Keep only the newest maxProcessedArchive entries.
	_, err = s.db.Exec(`
		DELETE FROM reminder_archive WHERE id NOT IN (
			SELECT id FROM (SELECT id FROM reminder_archive ORDER BY processed_at DESC LIMIT ?) keep
		)`, maxProcessedArchive)
	if err != nil {
		return fmt.Errorf("failed to prune reminder archive: %w", err)
	}
	return nil
}

// Requeue re-saves a reminder as retry_pending.
func (s *MySQLReminderStore) Requeue(r *models.Reminder) error {
	cp := *r
	cp.Status = models.ReminderRetryPending
	if err := s.Save(&cp); err != nil {
		return err
	}
	if cp.LastError != "" {
		if _, err := s.db.Exec(`UPDATE reminders SET last_error = ? WHERE reminder_id = ?`, cp.LastError, cp.ReminderID); err != nil {
			return fmt.Errorf("failed to record reminder error: %w", err)
		}
	}
	return nil
}

// MarkFailed re-saves a reminder in failed state for the audit trail.
func (s *MySQLReminderStore) MarkFailed(r *models.Reminder) error {
	cp := *r
	cp.Status = models.ReminderFailed
	return s.Save(&cp)
}

// QueueCounts returns current queue sizes.
func (s *MySQLReminderStore) QueueCounts() (scheduled, pending, processed int, err error) {
	row := s.db.QueryRow(`
		SELECT
			SUM(CASE WHEN status = ? THEN 1 ELSE 0 END),
			SUM(CASE WHEN status IN (?, ?) THEN 1 ELSE 0 END)
		FROM reminders`,
		models.ReminderScheduled, models.ReminderPending, models.ReminderRetryPending,
	)
	var sch, pen sql.NullInt64
	if err = row.Scan(&sch, &pen); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count reminder queues: %w", err)
	}
	var arch int
	if err = s.db.QueryRow(`SELECT COUNT(*) FROM reminder_archive`).Scan(&arch); err != nil {
		return 0, 0, 0, fmt.Errorf("failed to count reminder archive: %w", err)
	}
	return int(sch.Int64), int(pen.Int64), arch, nil
}

// LogSent appends to the sent-reminders log, pruning it to its cap.
func (s *MySQLReminderStore) LogSent(e *models.ReminderLogEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO reminder_log (complaint_id, reminder_type, recipient, status, escalation_level, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ComplaintID, e.Type, e.Recipient, e.Status, e.EscalationLevel, e.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("failed to log sent reminder: %w", err)
	}
	_, err = s.db.Exec(`
		DELETE FROM reminder_log WHERE id NOT IN (
			SELECT id FROM (SELECT id FROM reminder_log ORDER BY created_at DESC LIMIT ?) keep
		)`, maxSentLog)
	if err != nil {
		return fmt.Errorf("failed to prune reminder log: %w", err)
	}
	return nil
}

// SentSince returns log entries at or after cutoff.
func (s *MySQLReminderStore) SentSince(cutoff time.Time) ([]models.ReminderLogEntry, error) {
	rows, err := s.db.Query(`
		SELECT complaint_id, reminder_type, recipient, status, escalation_level, created_at
		FROM reminder_log WHERE created_at >= ? ORDER BY created_at ASC`, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to query reminder log: %w", err)
	}
	defer rows.Close()

	var entries []models.ReminderLogEntry
	for rows.Next() {
		var e models.ReminderLogEntry
		if err := rows.Scan(&e.ComplaintID, &e.Type, &e.Recipient, &e.Status, &e.EscalationLevel, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan reminder log entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reminder log: %w", err)
	}
	return entries, nil
}

func scanReminder(rows *sql.Rows) (*models.Reminder, error) {
	var r models.Reminder
	var complaintData, departmentData, ccEmails []byte
	var lastError sql.NullString

	err := rows.Scan(
		&r.ReminderID, &r.ComplaintID, &r.Type, &r.ScheduledTime, &r.Status,
		&r.EscalationLevel, &complaintData, &departmentData, &r.RecipientEmail,
		&r.RecipientPhone, &ccEmails, &r.RetryCount, &r.MaxRetries, &lastError, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(complaintData) > 0 {
		if err := json.Unmarshal(complaintData, &r.ComplaintData); err != nil {
			return nil, fmt.Errorf("failed to decode complaint data: %w", err)
		}
	}
	if len(departmentData) > 0 {
		if err := json.Unmarshal(departmentData, &r.DepartmentData); err != nil {
			return nil, fmt.Errorf("failed to decode department data: %w", err)
		}
	}
	if len(ccEmails) > 0 {
		if err := json.Unmarshal(ccEmails, &r.CCEmails); err != nil {
			return nil, fmt.Errorf("failed to decode cc emails: %w", err)
		}
	}
	if lastError.Valid {
		r.LastError = lastError.String
	}
	return &r, nil
}
