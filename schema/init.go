// Package schema: safe database initialization. Creates only missing tables,
// never drops or overwrites existing ones.

package schema

import (
	"database/sql"
	"log"
)

// InitializeDatabase ensures core tables exist. Checks INFORMATION_SCHEMA.TABLES
// and creates only missing tables in order: complaints, reminders,
// reminder_archive, reminder_log. Does not drop or recreate tables; does not
// remove data.
func InitializeDatabase(db *sql.DB) {
	tables := []struct {
		name   string
		create func(*sql.DB)
	}{
		{"complaints", createComplaintsTable},
		{"reminders", createRemindersTable},
		{"reminder_archive", createReminderArchiveTable},
		{"reminder_log", createReminderLogTable},
	}

	for _, t := range tables {
		exists, err := tableExists(db, t.name)
		if err != nil {
			log.Fatalf("[SCHEMA] Failed to check if table %s exists: %v", t.name, err)
		}
		if exists {
			log.Printf("[SCHEMA] %s table exists", t.name)
			continue
		}
		t.create(db)
		log.Printf("[SCHEMA] created %s table", t.name)
	}
}

func tableExists(db *sql.DB, name string) (bool, error) {
	var count int
	err := db.QueryRow(`
		SELECT COUNT(*) FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?`, name).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func createComplaintsTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS complaints (
    complaint_id VARCHAR(64) PRIMARY KEY,
    complaint_number VARCHAR(32) NOT NULL,
    description TEXT NOT NULL,
    category VARCHAR(32) NOT NULL,
    urgency VARCHAR(16) NOT NULL,
    assigned_department VARCHAR(255) NOT NULL,
    submitted_at TIMESTAMP NOT NULL,
    current_status VARCHAR(16) NOT NULL,
    status_start_time TIMESTAMP NOT NULL,
    last_status_change TIMESTAMP NOT NULL,
    last_update TIMESTAMP NOT NULL,
    deadlines JSON NULL,
    reminder_schedule JSON NULL,
    escalation_schedule JSON NULL,
    status_history JSON NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NULL,
    INDEX idx_complaints_status (current_status),
    INDEX idx_complaints_department (assigned_department),
    UNIQUE INDEX idx_complaints_number (complaint_number)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table complaints: %v", err)
	}
}

func createRemindersTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS reminders (
    reminder_id VARCHAR(64) PRIMARY KEY,
    complaint_id VARCHAR(64) NOT NULL,
    reminder_type VARCHAR(48) NOT NULL,
    scheduled_time TIMESTAMP NOT NULL,
    status VARCHAR(16) NOT NULL,
    escalation_level VARCHAR(24) NOT NULL,
    complaint_data JSON NULL,
    department_data JSON NULL,
    recipient_email VARCHAR(255) NOT NULL,
    recipient_phone VARCHAR(32) NULL,
    cc_emails JSON NULL,
    retry_count INT NOT NULL DEFAULT 0,
    max_retries INT NOT NULL DEFAULT 3,
    last_error TEXT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    INDEX idx_reminders_status_time (status, scheduled_time),
    INDEX idx_reminders_complaint (complaint_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table reminders: %v", err)
	}
}

func createReminderArchiveTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS reminder_archive (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    reminder_id VARCHAR(64) NOT NULL,
    complaint_id VARCHAR(64) NOT NULL,
    reminder_type VARCHAR(48) NOT NULL,
    escalation_level VARCHAR(24) NOT NULL,
    processed_at TIMESTAMP NOT NULL,
    INDEX idx_archive_processed (processed_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table reminder_archive: %v", err)
	}
}

func createReminderLogTable(db *sql.DB) {
	q := `
CREATE TABLE IF NOT EXISTS reminder_log (
    id BIGINT PRIMARY KEY AUTO_INCREMENT,
    complaint_id VARCHAR(64) NOT NULL,
    reminder_type VARCHAR(48) NOT NULL,
    recipient VARCHAR(255) NOT NULL,
    status VARCHAR(16) NOT NULL,
    escalation_level VARCHAR(24) NOT NULL,
    created_at TIMESTAMP NOT NULL,
    INDEX idx_log_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci`
	if _, err := db.Exec(q); err != nil {
		log.Fatalf("[SCHEMA] Failed to create table reminder_log: %v", err)
	}
}
