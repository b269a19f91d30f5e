package models

import "time"

// SLACompliance records the base and adjusted SLA windows for audit.
type SLACompliance struct {
	BaseAckHours     int  `json:"base_ack_sla"`
	BaseResHours     int  `json:"base_res_sla"`
	AdjustedAckHours int  `json:"adjusted_ack_sla"`
	AdjustedResHours int  `json:"adjusted_res_sla"`
	CategoryAdjusted bool `json:"category_adjustment_applied"`
}

// DeadlineCalculation is the full output of the deadline calculator:
// deadlines, the derived reminder schedule and the escalation schedule.
type DeadlineCalculation struct {
	ComplaintID        string              `json:"complaint_id,omitempty"`
	SubmissionTime     time.Time           `json:"submission_time"`
	Urgency            Urgency             `json:"urgency_level"`
	Category           Category            `json:"category"`
	Deadlines          DeadlineRecord      `json:"deadlines"`
	ReminderSchedule   []ScheduledReminder `json:"reminder_schedule"`
	EscalationSchedule []EscalationTrigger `json:"escalation_schedule"`
	SLACompliance      SLACompliance       `json:"sla_compliance"`
}
