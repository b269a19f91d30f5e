package models

import "fmt"

// Status is the colour-coded lifecycle status of a complaint.
type Status string

const (
	StatusRed    Status = "RED"    // received, being categorized and routed
	StatusOrange Status = "ORANGE" // routed to department, awaiting acknowledgment
	StatusBlue   Status = "BLUE"   // acknowledged by department
	StatusGreen  Status = "GREEN"  // work in progress
	StatusBlack  Status = "BLACK"  // resolved and verified (terminal)
)

// StatusDefinition describes one lifecycle status: what it means, how long a
// complaint may sit in it, which statuses it may move to next and which
// auto actions fire on entry.
type StatusDefinition struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	AutoActions      []string `json:"auto_actions"`
	MaxDurationHours int      `json:"max_duration_hours"` // 0 = no limit (terminal)
	NextStatuses     []Status `json:"next_statuses"`
}

// StatusDefinitions is the single source of truth for the status machine.
// Back-edges: ORANGE→RED (routing failure), BLUE→ORANGE (re-escalation),
// GREEN→BLUE (regression). BLACK is terminal.
var StatusDefinitions = map[Status]StatusDefinition{
	StatusRed: {
		Name:             "Received & Processing",
		Description:      "Complaint received, being categorized and routed",
		AutoActions:      []string{"categorize", "route"},
		MaxDurationHours: 1,
		NextStatuses:     []Status{StatusOrange},
	},
	StatusOrange: {
		Name:             "Routed to Department",
		Description:      "Complaint routed to department with deadline",
		AutoActions:      []string{"send_notification", "start_timer"},
		MaxDurationHours: 48,
		NextStatuses:     []Status{StatusBlue, StatusRed},
	},
	StatusBlue: {
		Name:             "Acknowledged by Department",
		Description:      "Department has acknowledged receipt and assigned an officer",
		AutoActions:      []string{"notify_citizen", "schedule_follow_up"},
		MaxDurationHours: 72,
		NextStatuses:     []Status{StatusGreen, StatusOrange},
	},
	StatusGreen: {
		Name:             "Work in Progress",
		Description:      "Department is actively working on resolution",
		AutoActions:      []string{"progress_tracking", "regular_updates"},
		MaxDurationHours: 168,
		NextStatuses:     []Status{StatusBlack, StatusBlue},
	},
	StatusBlack: {
		Name:             "Resolved & Verified",
		Description:      "Problem resolved and citizen satisfaction confirmed",
		AutoActions:      []string{"satisfaction_survey", "close_complaint"},
		MaxDurationHours: 0,
		NextStatuses:     []Status{},
	},
}

// AllStatuses in lifecycle order.
var AllStatuses = []Status{StatusRed, StatusOrange, StatusBlue, StatusGreen, StatusBlack}

// IsValidStatus reports whether s names a known status.
func IsValidStatus(s Status) bool {
	_, ok := StatusDefinitions[s]
	return ok
}

// IsTerminal reports whether s has no outgoing transitions.
func (s Status) IsTerminal() bool {
	def, ok := StatusDefinitions[s]
	return ok && len(def.NextStatuses) == 0
}

// CanTransitionTo reports whether a transition from s to target is legal.
// A same-status update is always allowed (metadata refresh).
func (s Status) CanTransitionTo(target Status) bool {
	if s == target {
		return true
	}
	def, ok := StatusDefinitions[s]
	if !ok {
		return false
	}
	for _, next := range def.NextStatuses {
		if next == target {
			return true
		}
	}
	return false
}

// InvalidTransitionError is returned when a status change is rejected.
// No state is mutated when this error is returned.
type InvalidTransitionError struct {
	From    Status
	To      Status
	Allowed []Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s (allowed: %v)", e.From, e.To, e.Allowed)
}

// UrgencyDurationMultipliers scale per-status maximum durations: more urgent
// complaints are allowed less time in each status.
var UrgencyDurationMultipliers = map[Urgency]float64{
	UrgencyCritical: 0.5,
	UrgencyHigh:     0.75,
	UrgencyMedium:   1.0,
	UrgencyLow:      1.5,
}

// AdjustedMaxDurationHours returns the status duration budget for the given
// urgency, or 0 when the status has no limit.
func AdjustedMaxDurationHours(s Status, urgency Urgency) float64 {
	def, ok := StatusDefinitions[s]
	if !ok || def.MaxDurationHours == 0 {
		return 0
	}
	mult, ok := UrgencyDurationMultipliers[urgency]
	if !ok {
		mult = 1.0
	}
	return float64(def.MaxDurationHours) * mult
}
