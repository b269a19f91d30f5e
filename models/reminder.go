package models

import "time"

// ReminderType identifies one of the fixed reminder templates.
type ReminderType string

const (
	ReminderAck50      ReminderType = "acknowledgment_50_percent"
	ReminderAck90      ReminderType = "acknowledgment_90_percent"
	ReminderRes25      ReminderType = "resolution_25_percent"
	ReminderRes75      ReminderType = "resolution_75_percent"
	ReminderOverdueAck ReminderType = "overdue_acknowledgment"
	ReminderOverdueRes ReminderType = "overdue_resolution"
)

// AllReminderTypes lists the fixed reminder templates.
var AllReminderTypes = []ReminderType{
	ReminderAck50, ReminderAck90, ReminderRes25, ReminderRes75,
	ReminderOverdueAck, ReminderOverdueRes,
}

// IsValidReminderType reports whether t names a known template.
func IsValidReminderType(t ReminderType) bool {
	for _, known := range AllReminderTypes {
		if t == known {
			return true
		}
	}
	return false
}

// EscalationLevel tags a reminder template and controls the CC distribution
// list attached when the reminder is rendered.
type EscalationLevel string

const (
	LevelGentle          EscalationLevel = "gentle"
	LevelUrgent          EscalationLevel = "urgent"
	LevelProgressCheck   EscalationLevel = "progress_check"
	LevelFinalWarning    EscalationLevel = "final_warning"
	LevelOverdue         EscalationLevel = "overdue"
	LevelCriticalOverdue EscalationLevel = "critical_overdue"
)

// IsUrgentOrAbove reports whether the level triggers the wider CC list and SMS.
func (l EscalationLevel) IsUrgentOrAbove() bool {
	switch l {
	case LevelUrgent, LevelFinalWarning, LevelOverdue, LevelCriticalOverdue:
		return true
	}
	return false
}

// ReminderStatus is the queue lifecycle state of a reminder.
type ReminderStatus string

const (
	ReminderScheduled    ReminderStatus = "scheduled"
	ReminderPending      ReminderStatus = "pending"
	ReminderProcessed    ReminderStatus = "processed"
	ReminderFailed       ReminderStatus = "failed"
	ReminderRetryPending ReminderStatus = "retry_pending"
)

// Reminder is a queued reminder. Lifecycle: scheduled → pending →
// processed|failed, with retry_pending looped up to MaxRetries on render
// failure.
type Reminder struct {
	ReminderID      string            `json:"reminder_id"`
	ComplaintID     string            `json:"complaint_id"`
	Type            ReminderType      `json:"reminder_type"`
	ScheduledTime   time.Time         `json:"scheduled_time"`
	CreatedAt       time.Time         `json:"created_at"`
	Status          ReminderStatus    `json:"status"`
	EscalationLevel EscalationLevel   `json:"escalation_level"`
	ComplaintData   map[string]string `json:"complaint_data,omitempty"`
	DepartmentData  map[string]string `json:"department_data,omitempty"`
	RecipientEmail  string            `json:"recipient_email"`
	RecipientPhone  string            `json:"recipient_phone,omitempty"`
	CCEmails        []string          `json:"cc_emails,omitempty"`
	RetryCount      int               `json:"retry_count"`
	MaxRetries      int               `json:"max_retries"`
	LastError       string            `json:"last_error,omitempty"`
	ProcessedAt     *time.Time        `json:"processed_at,omitempty"`
}

// ReminderMessage is the rendered communication produced from a reminder.
type ReminderMessage struct {
	ReminderID      string          `json:"reminder_id"`
	ComplaintID     string          `json:"complaint_id"`
	Subject         string          `json:"subject"`
	Body            string          `json:"body"`
	RecipientEmail  string          `json:"recipient_email"`
	RecipientName   string          `json:"recipient_name"`
	CCEmails        []string        `json:"cc_emails,omitempty"`
	EscalationLevel EscalationLevel `json:"escalation_level"`
	Priority        string          `json:"priority"`
	Department      string          `json:"department"`
	SMS             *SMSMessage     `json:"sms,omitempty"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// SMSMessage is the optional SMS leg for urgent reminders.
type SMSMessage struct {
	Phone   string `json:"phone"`
	Content string `json:"content"`
}

// ScheduleReminderRequest queues one reminder directly, outside the schedule
// derived at filing time.
type ScheduleReminderRequest struct {
	ComplaintID    string            `json:"complaint_id"`
	Type           ReminderType      `json:"reminder_type"`
	ScheduledTime  time.Time         `json:"scheduled_time"`
	ComplaintData  map[string]string `json:"complaint_data,omitempty"`
	DepartmentData map[string]string `json:"department_data,omitempty"`
	RecipientEmail string            `json:"recipient_email"`
	RecipientPhone string            `json:"recipient_phone,omitempty"`
}

// ScheduleReminderResult confirms a scheduled reminder.
type ScheduleReminderResult struct {
	Success         bool            `json:"success"`
	ReminderID      string          `json:"reminder_id"`
	ComplaintID     string          `json:"complaint_id"`
	Type            ReminderType    `json:"reminder_type"`
	ScheduledFor    time.Time       `json:"scheduled_for"`
	EscalationLevel EscalationLevel `json:"escalation_level"`
	Queue           string          `json:"queue"` // "pending" or "scheduled"
}

// BatchResult summarizes one processing pass over the pending queue.
type BatchResult struct {
	ProcessedAt      time.Time               `json:"processed_at"`
	ProcessedCount   int                     `json:"processed_count"`
	FailedCount      int                     `json:"failed_count"`
	RetryCount       int                     `json:"retry_count"`
	RemainingPending int                     `json:"remaining_pending"`
	ScheduledCount   int                     `json:"scheduled_count"`
	Messages         []ReminderMessage       `json:"messages"`
	LevelsProcessed  map[EscalationLevel]int `json:"escalation_levels_processed"`
}

// ReminderLogEntry is one line of the sent-reminders log used for statistics.
type ReminderLogEntry struct {
	Timestamp       time.Time       `json:"timestamp"`
	ComplaintID     string          `json:"complaint_id"`
	Type            ReminderType    `json:"reminder_type"`
	Recipient       string          `json:"recipient"`
	Status          ReminderStatus  `json:"status"`
	EscalationLevel EscalationLevel `json:"escalation_level"`
}

// ReminderStatistics summarizes reminder activity over a look-back window.
type ReminderStatistics struct {
	PeriodStart       time.Time               `json:"period_start"`
	PeriodEnd         time.Time               `json:"period_end"`
	TotalSent         int                     `json:"total_reminders_sent"`
	QueuePending      int                     `json:"queue_pending"`
	QueueScheduled    int                     `json:"queue_scheduled"`
	ProcessedArchive  int                     `json:"processed_archive"`
	TypeDistribution  map[ReminderType]int    `json:"reminder_types_distribution"`
	LevelDistribution map[EscalationLevel]int `json:"escalation_levels_distribution"`
	RecipientCounts   map[string]int          `json:"departments_contacted"`
	SuccessRate       float64                 `json:"success_rate"`
}
