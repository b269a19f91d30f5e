package models

import "time"

// AlertType identifies a tracker or monitor alert.
type AlertType string

const (
	AlertOverdueAck      AlertType = "OVERDUE_ACKNOWLEDGMENT"
	AlertOverdueRes      AlertType = "OVERDUE_RESOLUTION"
	AlertApproachingAck  AlertType = "APPROACHING_ACKNOWLEDGMENT_DEADLINE"
	AlertApproachingRes  AlertType = "APPROACHING_RESOLUTION_DEADLINE"
	AlertOverdueStatus   AlertType = "OVERDUE_COMPLAINT"
	AlertStuckComplaint  AlertType = "STUCK_COMPLAINT"
)

// Severity grades alerts and deadline findings.
type Severity string

const (
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Alert is one tracker/monitor finding, consumable by external collaborators.
type Alert struct {
	Type        AlertType `json:"type"`
	ComplaintID string    `json:"complaint_id"`
	Severity    Severity  `json:"severity"`
	Message     string    `json:"message"`
	Action      string    `json:"action"`
	Department  string    `json:"department,omitempty"`
}

// DeadlineFinding describes one overdue or approaching deadline.
type DeadlineFinding struct {
	ComplaintID    string    `json:"complaint_id"`
	Urgency        Urgency   `json:"urgency"`
	Category       Category  `json:"category"`
	Department     string    `json:"department"`
	CurrentStatus  Status    `json:"current_status"`
	DeadlineType   string    `json:"deadline_type"` // "acknowledgment" or "resolution"
	Deadline       time.Time `json:"deadline"`
	HoursOverdue   float64   `json:"hours_overdue,omitempty"`
	HoursRemaining float64   `json:"hours_remaining,omitempty"`
	Severity       Severity  `json:"severity"`
}

// ActionItem is a required follow-up produced by a tracker pass.
type ActionItem struct {
	ActionType   string   `json:"action_type"`
	ComplaintID  string   `json:"complaint_id,omitempty"`
	ReminderType string   `json:"reminder_type,omitempty"`
	Message      string   `json:"message,omitempty"`
	Recipient    string   `json:"recipient,omitempty"`
	Urgency      Urgency  `json:"urgency,omitempty"`
	Priority     Severity `json:"priority,omitempty"`
	Complaints   []string `json:"complaints,omitempty"`
}

// DepartmentSummary aggregates deadline findings per department.
type DepartmentSummary struct {
	Overdue     int `json:"overdue"`
	Approaching int `json:"approaching"`
	Total       int `json:"total"`
}

// PerformanceMetrics summarizes deadline performance across the store.
type PerformanceMetrics struct {
	OverduePercentage float64 `json:"overdue_percentage"`
	OnTimePercentage  float64 `json:"on_time_performance"`
	ResolutionRate    float64 `json:"resolution_rate"`
	ActiveComplaints  int     `json:"active_complaints"`
	DepartmentsAtRisk int     `json:"departments_at_risk"`
	HealthStatus      string  `json:"health_status"` // GOOD, FAIR, POOR
}

// TrackingReport is the output of one tracker pass; JSON-serializable for
// external consumers.
type TrackingReport struct {
	Timestamp            time.Time                    `json:"tracking_timestamp"`
	TotalTracked         int                          `json:"total_tracked"`
	ApproachingDeadlines []DeadlineFinding            `json:"approaching_deadlines"`
	OverdueDeadlines     []DeadlineFinding            `json:"overdue_deadlines"`
	Alerts               []Alert                      `json:"alerts"`
	ActionsRequired      []ActionItem                 `json:"actions_required"`
	DepartmentSummary    map[string]DepartmentSummary `json:"department_summary"`
	Performance          *PerformanceMetrics          `json:"performance_metrics,omitempty"`
}

// StatusOverdueInfo describes a complaint that exceeded its status budget.
type StatusOverdueInfo struct {
	ComplaintID   string   `json:"complaint_id"`
	CurrentStatus Status   `json:"current_status"`
	HoursOverdue  float64  `json:"hours_overdue"`
	Urgency       Urgency  `json:"urgency"`
	Category      Category `json:"category"`
	Department    string   `json:"department"`
}

// StatusAtRiskInfo describes a complaint past 80% of its status budget.
type StatusAtRiskInfo struct {
	ComplaintID    string   `json:"complaint_id"`
	CurrentStatus  Status   `json:"current_status"`
	HoursRemaining float64  `json:"hours_remaining"`
	Urgency        Urgency  `json:"urgency"`
	Category       Category `json:"category"`
	RiskLevel      Severity `json:"risk_level"`
}

// DepartmentPerformance tallies per-department monitor counts.
type DepartmentPerformance struct {
	Total    int `json:"total"`
	Overdue  int `json:"overdue"`
	Resolved int `json:"resolved"`
}

// Recommendation is a monitor suggestion for operators.
type Recommendation struct {
	Type     string   `json:"type"`
	Priority Severity `json:"priority"`
	Action   string   `json:"action"`
	Details  string   `json:"details"`
}

// SystemHealth is the monitor's overall health block.
type SystemHealth struct {
	OverallOverdueRate  float64 `json:"overall_overdue_rate"`
	ResolutionRate      float64 `json:"resolution_rate"`
	ActiveComplaintLoad int     `json:"active_complaint_load"`
	HealthStatus        string  `json:"health_status"`
}

// MonitoringReport is the output of a status-monitor pass (time-in-status
// view, complementary to the deadline tracker).
type MonitoringReport struct {
	Timestamp                  time.Time                        `json:"timestamp"`
	TotalActiveComplaints      int                              `json:"total_active_complaints"`
	StatusDistribution         map[Status]int                   `json:"status_distribution"`
	OverdueComplaints          []StatusOverdueInfo              `json:"overdue_complaints"`
	AtRiskComplaints           []StatusAtRiskInfo               `json:"at_risk_complaints"`
	Alerts                     []Alert                          `json:"alerts"`
	Recommendations            []Recommendation                 `json:"recommendations"`
	DepartmentPerformance      map[string]DepartmentPerformance `json:"department_performance"`
	UnderperformingDepartments []string                         `json:"underperforming_departments"`
	SystemHealth               *SystemHealth                    `json:"system_health,omitempty"`
}

// EscalationCheckResult is the escalation policy verdict for one complaint.
type EscalationCheckResult struct {
	ComplaintID string    `json:"complaint_id"`
	Escalated   bool      `json:"escalated"`
	Reason      string    `json:"reason"`
	Level       string    `json:"level"` // IMMEDIATE, HIGH, STANDARD
	Path        []string  `json:"escalation_path"`
	CheckedAt   time.Time `json:"checked_at"`
}
