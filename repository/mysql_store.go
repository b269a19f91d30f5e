package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"jansunwai/models"
)

// MySQLComplaintStore is the MySQL-backed ComplaintStore. Nested schedules
// and history are stored as JSON columns; read-modify-write goes through a
// transaction with a row lock so concurrent ticks cannot lose updates.
type MySQLComplaintStore struct {
	db *sql.DB
}

// NewMySQLComplaintStore creates a MySQL complaint store.
func NewMySQLComplaintStore(db *sql.DB) *MySQLComplaintStore {
	return &MySQLComplaintStore{db: db}
}

const complaintColumns = `
	complaint_id, complaint_number, description, category, urgency,
	assigned_department, submitted_at, current_status, status_start_time,
	last_status_change, last_update, deadlines, reminder_schedule,
	escalation_schedule, status_history, created_at, updated_at`

// Create inserts a new complaint row.
func (s *MySQLComplaintStore) Create(c *models.Complaint) error {
	deadlines, reminders, escalations, history, err := marshalComplaintDocs(c)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO complaints (
			complaint_id, complaint_number, description, category, urgency,
			assigned_department, submitted_at, current_status, status_start_time,
			last_status_change, last_update, deadlines, reminder_schedule,
			escalation_schedule, status_history, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.Exec(query,
		c.ComplaintID, c.ComplaintNumber, c.Description, c.Category, c.Urgency,
		c.Department, c.SubmittedAt, c.CurrentStatus, c.StatusStartTime,
		c.LastStatusChange, c.LastUpdate, deadlines, reminders,
		escalations, history, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create complaint: %w", err)
	}
	return nil
}

// Get retrieves a complaint by id.
func (s *MySQLComplaintStore) Get(complaintID string) (*models.Complaint, error) {
	row := s.db.QueryRow(`SELECT `+complaintColumns+` FROM complaints WHERE complaint_id = ?`, complaintID)
	c, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get complaint: %w", err)
	}
	return c, nil
}

// List returns all complaints ordered by creation time.
func (s *MySQLComplaintStore) List() ([]*models.Complaint, error) {
	rows, err := s.db.Query(`SELECT ` + complaintColumns + ` FROM complaints ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query complaints: %w", err)
	}
	defer rows.Close()

	var complaints []*models.Complaint
	for rows.Next() {
		c, err := scanComplaint(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan complaint: %w", err)
		}
		complaints = append(complaints, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating complaints: %w", err)
	}
	return complaints, nil
}

// Update applies fn to the complaint inside a transaction holding a row lock.
// If fn fails the transaction rolls back and the stored row is untouched.
func (s *MySQLComplaintStore) Update(complaintID string, fn func(*models.Complaint) error) (*models.Complaint, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRow(`SELECT `+complaintColumns+` FROM complaints WHERE complaint_id = ? FOR UPDATE`, complaintID)
	c, err := scanComplaint(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load complaint for update: %w", err)
	}

	if err := fn(c); err != nil {
		return nil, err
	}

	deadlines, reminders, escalations, history, err := marshalComplaintDocs(c)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	c.UpdatedAt = &now
	_, err = tx.Exec(`
		UPDATE complaints SET
			description = ?, category = ?, urgency = ?, assigned_department = ?,
			current_status = ?, status_start_time = ?, last_status_change = ?,
			last_update = ?, deadlines = ?, reminder_schedule = ?,
			escalation_schedule = ?, status_history = ?, updated_at = ?
		WHERE complaint_id = ?`,
		c.Description, c.Category, c.Urgency, c.Department,
		c.CurrentStatus, c.StatusStartTime, c.LastStatusChange,
		c.LastUpdate, deadlines, reminders,
		escalations, history, now,
		complaintID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update complaint: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit complaint update: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanComplaint(row rowScanner) (*models.Complaint, error) {
	var c models.Complaint
	var deadlines, reminders, escalations, history []byte
	var updatedAt sql.NullTime

	err := row.Scan(
		&c.ComplaintID, &c.ComplaintNumber, &c.Description, &c.Category, &c.Urgency,
		&c.Department, &c.SubmittedAt, &c.CurrentStatus, &c.StatusStartTime,
		&c.LastStatusChange, &c.LastUpdate, &deadlines, &reminders,
		&escalations, &history, &c.CreatedAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(deadlines) > 0 {
		if err := json.Unmarshal(deadlines, &c.Deadlines); err != nil {
			return nil, fmt.Errorf("failed to decode deadlines: %w", err)
		}
	}
	if len(reminders) > 0 {
		if err := json.Unmarshal(reminders, &c.ReminderSchedule); err != nil {
			return nil, fmt.Errorf("failed to decode reminder schedule: %w", err)
		}
	}
	if len(escalations) > 0 {
		if err := json.Unmarshal(escalations, &c.EscalationSchedule); err != nil {
			return nil, fmt.Errorf("failed to decode escalation schedule: %w", err)
		}
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &c.StatusHistory); err != nil {
			return nil, fmt.Errorf("failed to decode status history: %w", err)
		}
	}
	if updatedAt.Valid {
		t := updatedAt.Time
		c.UpdatedAt = &t
	}
	return &c, nil
}

func marshalComplaintDocs(c *models.Complaint) (deadlines, reminders, escalations, history []byte, err error) {
	if deadlines, err = json.Marshal(c.Deadlines); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode deadlines: %w", err)
	}
	if reminders, err = json.Marshal(c.ReminderSchedule); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode reminder schedule: %w", err)
	}
	if escalations, err = json.Marshal(c.EscalationSchedule); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode escalation schedule: %w", err)
	}
	if history, err = json.Marshal(c.StatusHistory); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("failed to encode status history: %w", err)
	}
	return deadlines, reminders, escalations, history, nil
}
