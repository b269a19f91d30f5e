package service

import (
	"fmt"
	"log"
	"time"

	"jansunwai/journal"
	"jansunwai/models"
	"jansunwai/notification"
	"jansunwai/repository"
)

// StatusService owns the status state machine: validated transitions with an
// append-only history, plus the time-in-status monitor.
type StatusService struct {
	store      repository.ComplaintStore
	jrnl       *journal.Journal // status change log, optional
	dispatcher notification.ActionDispatcher
	now        func() time.Time
}

// NewStatusService creates a status service. jrnl and dispatcher may be nil.
func NewStatusService(store repository.ComplaintStore, jrnl *journal.Journal, dispatcher notification.ActionDispatcher) *StatusService {
	return &StatusService{
		store:      store,
		jrnl:       jrnl,
		dispatcher: dispatcher,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// UpdateStatus applies a validated status transition. On an illegal
// transition the stored complaint is left untouched and the error names the
// source, target and allowed set. A same-status update is a metadata refresh
// and always succeeds.
func (s *StatusService) UpdateStatus(complaintID string, newStatus models.Status, reason string, metadata map[string]string) (*models.StatusUpdateResult, error) {
	if !models.IsValidStatus(newStatus) {
		return nil, fmt.Errorf("invalid status %q (valid: %v)", newStatus, models.AllStatuses)
	}

	now := s.now()
	var result models.StatusUpdateResult

	updated, err := s.store.Update(complaintID, func(c *models.Complaint) error {
		oldStatus := c.CurrentStatus
		if !oldStatus.CanTransitionTo(newStatus) {
			return &models.InvalidTransitionError{
				From:    oldStatus,
				To:      newStatus,
				Allowed: models.StatusDefinitions[oldStatus].NextStatuses,
			}
		}

		durationHours := now.Sub(c.StatusStartTime).Hours()
		c.StatusHistory = append(c.StatusHistory, models.StatusHistoryEntry{
			From:          oldStatus,
			To:            newStatus,
			Timestamp:     now,
			DurationHours: durationHours,
			Reason:        reason,
			Metadata:      metadata,
		})
		c.CurrentStatus = newStatus
		c.StatusStartTime = now
		c.LastStatusChange = now
		c.LastUpdate = now

		def := models.StatusDefinitions[newStatus]
		result = models.StatusUpdateResult{
			Success:              true,
			ComplaintID:          complaintID,
			From:                 oldStatus,
			To:                   newStatus,
			Timestamp:            now,
			DurationInPrevious:   durationHours,
			NewStatusInfo:        def,
			AutoActionsTriggered: def.AutoActions,
			NextExpectedStatuses: def.NextStatuses,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logStatusChange(complaintID, result.From, result.To, reason)
	if s.dispatcher != nil && result.From != result.To {
		s.dispatcher.DispatchStatusActions(updated.ComplaintID, result.To, result.AutoActionsTriggered)
	}
	return &result, nil
}

func (s *StatusService) logStatusChange(complaintID string, from, to models.Status, reason string) {
	if s.jrnl == nil {
		return
	}
	entry := map[string]interface{}{
		"timestamp":     s.now().Format(time.RFC3339),
		"complaint_id":  complaintID,
		"status_change": fmt.Sprintf("%s -> %s", from, to),
		"reason":        reason,
	}
	if err := s.jrnl.Append(entry); err != nil {
		log.Printf("[STATUS] failed to log status change: %v", err)
	}
}

// Monitor scans complaints for status-budget overruns: overdue (past the
// urgency-adjusted budget), at risk (past 80% of it) and stuck (ORANGE/BLUE
// without progress for 72h), and summarizes department performance.
// complaintID and statusFilter are optional filters.
func (s *StatusService) Monitor(complaintID string, statusFilter models.Status, checkOverdue bool) (*models.MonitoringReport, error) {
	now := s.now()
	complaints, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}

	report := &models.MonitoringReport{
		Timestamp:             now,
		TotalActiveComplaints: len(complaints),
		StatusDistribution:    make(map[models.Status]int),
		DepartmentPerformance: make(map[string]models.DepartmentPerformance),
	}
	for _, st := range models.AllStatuses {
		report.StatusDistribution[st] = 0
	}

	for _, c := range complaints {
		if complaintID != "" && c.ComplaintID != complaintID {
			continue
		}
		if statusFilter != "" && c.CurrentStatus != statusFilter {
			continue
		}
		report.StatusDistribution[c.CurrentStatus]++

		timeInStatus := now.Sub(c.StatusStartTime).Hours()

		if checkOverdue && c.CurrentStatus != models.StatusBlack {
			adjustedMax := models.AdjustedMaxDurationHours(c.CurrentStatus, c.Urgency)
			if adjustedMax > 0 {
				switch {
				case timeInStatus > adjustedMax:
					report.OverdueComplaints = append(report.OverdueComplaints, models.StatusOverdueInfo{
						ComplaintID:   c.ComplaintID,
						CurrentStatus: c.CurrentStatus,
						HoursOverdue:  round1(timeInStatus - adjustedMax),
						Urgency:       c.Urgency,
						Category:      c.Category,
						Department:    c.Department,
					})
					severity := models.SeverityMedium
					if c.Urgency == models.UrgencyCritical || c.Urgency == models.UrgencyHigh {
						severity = models.SeverityHigh
					}
					action := "follow_up_required"
					if c.Urgency == models.UrgencyCritical {
						action = "immediate_escalation"
					}
					report.Alerts = append(report.Alerts, models.Alert{
						Type:        models.AlertOverdueStatus,
						ComplaintID: c.ComplaintID,
						Severity:    severity,
						Message:     fmt.Sprintf("Complaint %s is %.1f hours overdue in %s status", c.ComplaintID, timeInStatus-adjustedMax, c.CurrentStatus),
						Action:      action,
						Department:  c.Department,
					})
				case timeInStatus > adjustedMax*0.8:
					risk := models.SeverityMedium
					if timeInStatus > adjustedMax*0.9 {
						risk = models.SeverityHigh
					}
					report.AtRiskComplaints = append(report.AtRiskComplaints, models.StatusAtRiskInfo{
						ComplaintID:    c.ComplaintID,
						CurrentStatus:  c.CurrentStatus,
						HoursRemaining: round1(adjustedMax - timeInStatus),
						Urgency:        c.Urgency,
						Category:       c.Category,
						RiskLevel:      risk,
					})
				}
			}
		}

		hoursSinceChange := now.Sub(c.LastStatusChange).Hours()
		if (c.CurrentStatus == models.StatusOrange || c.CurrentStatus == models.StatusBlue) && hoursSinceChange > 72 {
			report.Alerts = append(report.Alerts, models.Alert{
				Type:        models.AlertStuckComplaint,
				ComplaintID: c.ComplaintID,
				Severity:    models.SeverityMedium,
				Message:     fmt.Sprintf("Complaint %s stuck in %s status for %.1f hours", c.ComplaintID, c.CurrentStatus, hoursSinceChange),
				Action:      "department_follow_up",
				Department:  c.Department,
			})
		}
	}

	if len(report.OverdueComplaints) > 0 {
		report.Recommendations = append(report.Recommendations, models.Recommendation{
			Type:     "ESCALATION_NEEDED",
			Priority: models.SeverityHigh,
			Action:   fmt.Sprintf("Escalate %d overdue complaints immediately", len(report.OverdueComplaints)),
			Details:  "Run the escalation check on each overdue complaint",
		})
	}
	if len(report.AtRiskComplaints) > 0 {
		report.Recommendations = append(report.Recommendations, models.Recommendation{
			Type:     "PREVENTIVE_ACTION",
			Priority: models.SeverityMedium,
			Action:   fmt.Sprintf("Send reminders for %d at-risk complaints", len(report.AtRiskComplaints)),
			Details:  "Schedule proactive reminders before the status budget is exhausted",
		})
	}

	// Department performance over the full store, independent of filters.
	overdueByDept := make(map[string]int)
	for _, o := range report.OverdueComplaints {
		overdueByDept[o.Department]++
	}
	for _, c := range complaints {
		perf := report.DepartmentPerformance[c.Department]
		perf.Total++
		if c.CurrentStatus == models.StatusBlack {
			perf.Resolved++
		}
		report.DepartmentPerformance[c.Department] = perf
	}
	for dept, n := range overdueByDept {
		perf := report.DepartmentPerformance[dept]
		perf.Overdue = n
		report.DepartmentPerformance[dept] = perf
	}
	for dept, perf := range report.DepartmentPerformance {
		if perf.Total > 0 && float64(perf.Overdue)/float64(perf.Total) > 0.3 {
			report.UnderperformingDepartments = append(report.UnderperformingDepartments, dept)
		}
	}
	if len(report.UnderperformingDepartments) > 0 {
		report.Recommendations = append(report.Recommendations, models.Recommendation{
			Type:     "DEPARTMENT_PERFORMANCE",
			Priority: models.SeverityHigh,
			Action:   "Review underperforming departments",
			Details:  fmt.Sprintf("Departments with >30%% overdue rate: %v", report.UnderperformingDepartments),
		})
	}

	if len(complaints) > 0 {
		overduePct := float64(len(report.OverdueComplaints)) / float64(len(complaints)) * 100
		resolved := report.StatusDistribution[models.StatusBlack]
		report.SystemHealth = &models.SystemHealth{
			OverallOverdueRate:  round1(overduePct),
			ResolutionRate:      round1(float64(resolved) / float64(len(complaints)) * 100),
			ActiveComplaintLoad: len(complaints),
			HealthStatus:        healthLabel(overduePct),
		}
	}

	return report, nil
}

// healthLabel buckets the overdue percentage: GOOD under 10%, POOR over 25%.
func healthLabel(overduePct float64) string {
	switch {
	case overduePct < 10:
		return "GOOD"
	case overduePct > 25:
		return "POOR"
	default:
		return "FAIR"
	}
}

func round1(f float64) float64 {
	return float64(int(f*10+0.5)) / 10
}
