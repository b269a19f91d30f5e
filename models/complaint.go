package models

import "time"

// Category is the complaint category assigned during classification.
type Category string

const (
	CategoryElectricity Category = "electricity"
	CategoryWater       Category = "water"
	CategoryRoad        Category = "road"
	CategorySanitation  Category = "sanitation"
	CategoryHealth      Category = "health"
	CategoryGeneral     Category = "general"
)

// Urgency is the urgency level assigned during classification.
type Urgency string

const (
	UrgencyLow      Urgency = "LOW"
	UrgencyMedium   Urgency = "MEDIUM"
	UrgencyHigh     Urgency = "HIGH"
	UrgencyCritical Urgency = "CRITICAL"
)

// IsValidUrgency reports whether u names a known urgency level.
func IsValidUrgency(u Urgency) bool {
	switch u {
	case UrgencyLow, UrgencyMedium, UrgencyHigh, UrgencyCritical:
		return true
	}
	return false
}

// CalculationMethod records how deadline arithmetic was done.
type CalculationMethod string

const (
	Calculation247           CalculationMethod = "24_7_continuous"
	CalculationBusinessHours CalculationMethod = "business_hours_only"
)

// ScheduledReminder is one entry of a complaint's reminder schedule. Only the
// sent flag and timestamp mutate after routing.
type ScheduledReminder struct {
	Type        string     `json:"type"`
	ScheduledAt time.Time  `json:"scheduled_at"`
	Description string     `json:"description"`
	Sent        bool       `json:"sent"`
	SentAt      *time.Time `json:"sent_at,omitempty"`
}

// EscalationTrigger is a precomputed escalation checkpoint. Read-only after
// routing; the tracker evaluates it against the clock.
type EscalationTrigger struct {
	Level     int       `json:"level"`
	TriggerAt time.Time `json:"trigger_at"`
	Condition string    `json:"condition"`
	Action    string    `json:"action"`
}

// StatusHistoryEntry records one status transition. History is append-only;
// the complaint's current status always equals the last entry's To.
type StatusHistoryEntry struct {
	From          Status            `json:"from_status"`
	To            Status            `json:"to_status"`
	Timestamp     time.Time         `json:"timestamp"`
	DurationHours float64           `json:"duration_hours"`
	Reason        string            `json:"reason"`
	Metadata      map[string]string `json:"metadata,omitempty"`
}

// DeadlineRecord holds the deadlines set once at routing time.
type DeadlineRecord struct {
	AcknowledgmentDeadline time.Time         `json:"acknowledgment_deadline"`
	ResolutionDeadline     time.Time         `json:"resolution_deadline"`
	AckHours               int               `json:"acknowledgment_hours"`
	ResHours               int               `json:"resolution_hours"`
	CalculationMethod      CalculationMethod `json:"calculation_method"`
	ContextFactors         []string          `json:"context_factors"`
}

// Complaint is the shared complaint record every component operates over.
type Complaint struct {
	ComplaintID     string   `json:"complaint_id"`
	ComplaintNumber string   `json:"complaint_number"`
	Description     string   `json:"description"`
	Category        Category `json:"category"`
	Urgency         Urgency  `json:"urgency"`
	Department      string   `json:"assigned_department"`

	SubmittedAt time.Time `json:"submitted_at"`

	CurrentStatus    Status    `json:"current_status"`
	StatusStartTime  time.Time `json:"status_start_time"`
	LastStatusChange time.Time `json:"last_status_change"`
	LastUpdate       time.Time `json:"last_update"`

	Deadlines          *DeadlineRecord     `json:"deadlines,omitempty"`
	ReminderSchedule   []ScheduledReminder `json:"reminder_schedule,omitempty"`
	EscalationSchedule []EscalationTrigger `json:"escalation_schedule,omitempty"`
	StatusHistory      []StatusHistoryEntry `json:"status_history"`

	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Clone returns a deep copy so callers never share mutable slices with the store.
func (c *Complaint) Clone() *Complaint {
	cp := *c
	if c.Deadlines != nil {
		d := *c.Deadlines
		d.ContextFactors = append([]string(nil), c.Deadlines.ContextFactors...)
		cp.Deadlines = &d
	}
	cp.ReminderSchedule = make([]ScheduledReminder, len(c.ReminderSchedule))
	copy(cp.ReminderSchedule, c.ReminderSchedule)
	cp.EscalationSchedule = append([]EscalationTrigger(nil), c.EscalationSchedule...)
	cp.StatusHistory = make([]StatusHistoryEntry, len(c.StatusHistory))
	for i, h := range c.StatusHistory {
		if h.Metadata != nil {
			m := make(map[string]string, len(h.Metadata))
			for k, v := range h.Metadata {
				m[k] = v
			}
			h.Metadata = m
		}
		cp.StatusHistory[i] = h
	}
	if c.UpdatedAt != nil {
		t := *c.UpdatedAt
		cp.UpdatedAt = &t
	}
	return &cp
}

// CreateComplaintRequest is the payload for filing a new complaint. Category
// and urgency come from the external classifier.
type CreateComplaintRequest struct {
	Description   string   `json:"description"`
	Category      Category `json:"category"`
	Urgency       Urgency  `json:"urgency"`
	SubmittedAt   string   `json:"submitted_at,omitempty"` // ISO 8601; empty = now
}

// CreateComplaintResponse confirms a filed complaint.
type CreateComplaintResponse struct {
	ComplaintID     string          `json:"complaint_id"`
	ComplaintNumber string          `json:"complaint_number"`
	CurrentStatus   Status          `json:"current_status"`
	Department      string          `json:"assigned_department"`
	Deadlines       *DeadlineRecord `json:"deadlines"`
	Message         string          `json:"message"`
}

// UpdateStatusRequest is the payload for a status change.
type UpdateStatusRequest struct {
	NewStatus Status            `json:"new_status"`
	Reason    string            `json:"reason"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// StatusUpdateResult confirms a status change to the caller.
type StatusUpdateResult struct {
	Success              bool             `json:"success"`
	ComplaintID          string           `json:"complaint_id"`
	From                 Status           `json:"from"`
	To                   Status           `json:"to"`
	Timestamp            time.Time        `json:"timestamp"`
	DurationInPrevious   float64          `json:"duration_in_previous_hours"`
	NewStatusInfo        StatusDefinition `json:"new_status_info"`
	AutoActionsTriggered []string         `json:"auto_actions_triggered"`
	NextExpectedStatuses []Status         `json:"next_expected_statuses"`
}

// ErrorResponse is the JSON error envelope returned by the API.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
