package service

import (
	"fmt"
	"log"
	"time"

	"jansunwai/journal"
	"jansunwai/models"
	"jansunwai/repository"
)

// Approaching-deadline windows in hours. A finding turns HIGH inside the
// half-window.
const (
	ackApproachingWindow = 6
	resApproachingWindow = 24
)

// TrackerService runs the periodic deadline sweep: overdue and approaching
// findings, due-reminder marking, department summaries and the performance
// snapshot.
type TrackerService struct {
	store      repository.ComplaintStore
	escalation *EscalationService
	jrnl       *journal.Journal // alert log, optional
	now        func() time.Time
}

// NewTrackerService creates a tracker. jrnl may be nil.
func NewTrackerService(store repository.ComplaintStore, escalation *EscalationService, jrnl *journal.Journal) *TrackerService {
	return &TrackerService{
		store:      store,
		escalation: escalation,
		jrnl:       jrnl,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Track runs one tracking pass. With checkAll false only the named complaint
// is examined; otherwise every complaint in the store is swept. Resolved
// (BLACK) complaints are skipped entirely.
func (s *TrackerService) Track(complaintID string, checkAll bool) (*models.TrackingReport, error) {
	now := s.now()
	complaints, err := s.store.List()
	if err != nil {
		return nil, fmt.Errorf("failed to list complaints: %w", err)
	}

	report := &models.TrackingReport{
		Timestamp:         now,
		DepartmentSummary: make(map[string]models.DepartmentSummary),
	}

	totalInStore := len(complaints)
	resolved := 0
	for _, c := range complaints {
		if c.CurrentStatus == models.StatusBlack {
			resolved++
		}
	}

	for _, c := range complaints {
		if !checkAll && c.ComplaintID != complaintID {
			continue
		}
		if c.CurrentStatus == models.StatusBlack {
			continue
		}
		report.TotalTracked++

		s.checkDeadlines(c, now, report)
		s.checkDueReminders(c, now, report)
		s.checkEscalations(c, now, report)
	}

	s.summarize(report, totalInStore, resolved)
	s.logAlerts(report)
	return report, nil
}

// checkDeadlines classifies the acknowledgment and resolution deadlines of one
// complaint. Acknowledgment only applies before the department has engaged,
// i.e. in RED or ORANGE.
func (s *TrackerService) checkDeadlines(c *models.Complaint, now time.Time, report *models.TrackingReport) {
	if c.Deadlines == nil {
		return
	}

	if c.CurrentStatus == models.StatusRed || c.CurrentStatus == models.StatusOrange {
		s.classifyDeadline(c, now, report, "acknowledgment", c.Deadlines.AcknowledgmentDeadline,
			ackApproachingWindow, models.AlertOverdueAck, models.AlertApproachingAck, 24)
	}
	s.classifyDeadline(c, now, report, "resolution", c.Deadlines.ResolutionDeadline,
		resApproachingWindow, models.AlertOverdueRes, models.AlertApproachingRes, 72)
}

// classifyDeadline files one deadline as overdue or approaching.
// criticalAfter is the overdue-hours threshold above which severity becomes
// CRITICAL instead of HIGH.
func (s *TrackerService) classifyDeadline(c *models.Complaint, now time.Time, report *models.TrackingReport,
	kind string, deadline time.Time, approachingHours int,
	overdueType, approachingType models.AlertType, criticalAfter float64) {

	finding := models.DeadlineFinding{
		ComplaintID:   c.ComplaintID,
		Urgency:       c.Urgency,
		Category:      c.Category,
		Department:    c.Department,
		CurrentStatus: c.CurrentStatus,
		DeadlineType:  kind,
		Deadline:      deadline,
	}

	switch {
	case now.After(deadline):
		hoursOverdue := now.Sub(deadline).Hours()
		finding.HoursOverdue = round1(hoursOverdue)
		finding.Severity = models.SeverityHigh
		if hoursOverdue > criticalAfter {
			finding.Severity = models.SeverityCritical
		}
		report.OverdueDeadlines = append(report.OverdueDeadlines, finding)

		report.Alerts = append(report.Alerts, models.Alert{
			Type:        overdueType,
			ComplaintID: c.ComplaintID,
			Severity:    finding.Severity,
			Message:     fmt.Sprintf("Complaint %s %s deadline passed %.1f hours ago", c.ComplaintID, kind, hoursOverdue),
			Action:      "escalation_required",
			Department:  c.Department,
		})
		report.ActionsRequired = append(report.ActionsRequired, models.ActionItem{
			ActionType:   "schedule_reminder",
			ComplaintID:  c.ComplaintID,
			ReminderType: "overdue_" + kind,
			Urgency:      c.Urgency,
			Priority:     finding.Severity,
		})

	case deadline.After(now) && now.Add(time.Duration(approachingHours)*time.Hour).After(deadline):
		hoursRemaining := deadline.Sub(now).Hours()
		finding.HoursRemaining = round1(hoursRemaining)
		finding.Severity = models.SeverityMedium
		if hoursRemaining < float64(approachingHours)/2 {
			finding.Severity = models.SeverityHigh
		}
		report.ApproachingDeadlines = append(report.ApproachingDeadlines, finding)

		report.Alerts = append(report.Alerts, models.Alert{
			Type:        approachingType,
			ComplaintID: c.ComplaintID,
			Severity:    finding.Severity,
			Message:     fmt.Sprintf("Complaint %s %s deadline in %.1f hours", c.ComplaintID, kind, hoursRemaining),
			Action:      "reminder_recommended",
			Department:  c.Department,
		})
	}
}

// checkDueReminders marks due reminder-schedule entries as sent and emits the
// corresponding action items. Marking goes through the store's atomic Update
// so a concurrent pass cannot double-send; entries already flagged are skipped.
func (s *TrackerService) checkDueReminders(c *models.Complaint, now time.Time, report *models.TrackingReport) {
	var due []models.ScheduledReminder
	for _, r := range c.ReminderSchedule {
		if !r.Sent && !r.ScheduledAt.After(now) {
			due = append(due, r)
		}
	}
	if len(due) == 0 {
		return
	}

	_, err := s.store.Update(c.ComplaintID, func(stored *models.Complaint) error {
		for i := range stored.ReminderSchedule {
			r := &stored.ReminderSchedule[i]
			if !r.Sent && !r.ScheduledAt.After(now) {
				r.Sent = true
				t := now
				r.SentAt = &t
			}
		}
		return nil
	})
	if err != nil {
		log.Printf("[TRACKER] failed to mark reminders sent for %s: %v", c.ComplaintID, err)
		return
	}

	for _, r := range due {
		report.ActionsRequired = append(report.ActionsRequired, models.ActionItem{
			ActionType:   "send_reminder",
			ComplaintID:  c.ComplaintID,
			ReminderType: r.Type,
			Message:      r.Description,
			Urgency:      c.Urgency,
		})
	}
}

// checkEscalations evaluates the precomputed escalation checkpoints.
func (s *TrackerService) checkEscalations(c *models.Complaint, now time.Time, report *models.TrackingReport) {
	for _, trig := range c.EscalationSchedule {
		if now.Before(trig.TriggerAt) {
			continue
		}
		// Level 1 and 2 are acknowledgment escalations; once the department
		// has engaged they no longer apply.
		if trig.Level <= 2 && c.CurrentStatus != models.StatusRed && c.CurrentStatus != models.StatusOrange {
			continue
		}
		report.ActionsRequired = append(report.ActionsRequired, models.ActionItem{
			ActionType:  "escalate",
			ComplaintID: c.ComplaintID,
			Message:     fmt.Sprintf("Level %d: %s (%s)", trig.Level, trig.Action, trig.Condition),
			Urgency:     c.Urgency,
			Priority:    models.SeverityHigh,
		})
	}
}

// summarize fills the department summary and the performance snapshot.
func (s *TrackerService) summarize(report *models.TrackingReport, totalInStore, resolved int) {
	for _, f := range report.OverdueDeadlines {
		sum := report.DepartmentSummary[f.Department]
		sum.Overdue++
		sum.Total++
		report.DepartmentSummary[f.Department] = sum
	}
	for _, f := range report.ApproachingDeadlines {
		sum := report.DepartmentSummary[f.Department]
		sum.Approaching++
		sum.Total++
		report.DepartmentSummary[f.Department] = sum
	}

	deptsAtRisk := 0
	for _, sum := range report.DepartmentSummary {
		if sum.Overdue > 0 {
			deptsAtRisk++
		}
	}
	if deptsAtRisk > 0 {
		var depts []string
		for d, sum := range report.DepartmentSummary {
			if sum.Overdue > 0 {
				depts = append(depts, d)
			}
		}
		report.ActionsRequired = append(report.ActionsRequired, models.ActionItem{
			ActionType: "department_review",
			Message:    fmt.Sprintf("%d departments have overdue complaints", deptsAtRisk),
			Priority:   models.SeverityHigh,
			Complaints: depts,
		})
	}

	if report.TotalTracked > 0 {
		overduePct := float64(len(report.OverdueDeadlines)) / float64(report.TotalTracked) * 100
		resolutionRate := 0.0
		if totalInStore > 0 {
			resolutionRate = float64(resolved) / float64(totalInStore) * 100
		}
		report.Performance = &models.PerformanceMetrics{
			OverduePercentage: round1(overduePct),
			OnTimePercentage:  round1(100 - overduePct),
			ResolutionRate:    round1(resolutionRate),
			ActiveComplaints:  report.TotalTracked,
			DepartmentsAtRisk: deptsAtRisk,
			HealthStatus:      healthLabel(overduePct),
		}
	}
}

// logAlerts appends the pass's alerts to the journal.
func (s *TrackerService) logAlerts(report *models.TrackingReport) {
	if s.jrnl == nil || len(report.Alerts) == 0 {
		return
	}
	for _, a := range report.Alerts {
		entry := map[string]interface{}{
			"timestamp":    report.Timestamp.Format(time.RFC3339),
			"type":         a.Type,
			"complaint_id": a.ComplaintID,
			"severity":     a.Severity,
			"message":      a.Message,
		}
		if err := s.jrnl.Append(entry); err != nil {
			log.Printf("[TRACKER] failed to log alert: %v", err)
			return
		}
	}
}

// CheckEscalation runs the escalation policy on one complaint.
func (s *TrackerService) CheckEscalation(complaintID string) (*models.EscalationCheckResult, error) {
	c, err := s.store.Get(complaintID)
	if err != nil {
		return nil, err
	}
	result := s.escalation.CheckEscalation(c)
	return &result, nil
}
