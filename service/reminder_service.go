package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"jansunwai/journal"
	"jansunwai/models"
	"jansunwai/notification"
	"jansunwai/repository"
)

// maxReminderRetries is how many render failures a reminder survives before
// it is marked failed.
const maxReminderRetries = 3

// reminderTemplate is one fixed reminder template.
type reminderTemplate struct {
	subject string
	body    string
	level   models.EscalationLevel
}

// reminderTemplates maps each reminder type to its template. Placeholders use
// {key} syntax and resolve from the reminder's complaint and department data.
var reminderTemplates = map[models.ReminderType]reminderTemplate{
	models.ReminderAck50: {
		subject: "Reminder: Complaint {complaint_number} awaiting acknowledgment",
		body: "Dear {department_head},\n\n" +
			"This is a gentle reminder that complaint {complaint_number} ({category}) " +
			"submitted on {submitted_at} is still awaiting acknowledgment.\n\n" +
			"Half of the acknowledgment window has passed. Please acknowledge the " +
			"complaint at the earliest.\n\n" +
			"Complaint summary: {description}\n\n" +
			"Regards,\nComplaint Monitoring Cell",
		level: models.LevelGentle,
	},
	models.ReminderAck90: {
		subject: "URGENT: Complaint {complaint_number} acknowledgment deadline imminent",
		body: "Dear {department_head},\n\n" +
			"Complaint {complaint_number} ({category}) has NOT been acknowledged and " +
			"90% of the acknowledgment window has elapsed. The deadline is imminent.\n\n" +
			"Immediate acknowledgment is required to avoid escalation.\n\n" +
			"Complaint summary: {description}\n\n" +
			"Regards,\nComplaint Monitoring Cell",
		level: models.LevelUrgent,
	},
	models.ReminderRes25: {
		subject: "Progress check: Complaint {complaint_number}",
		body: "Dear {department_head},\n\n" +
			"A quarter of the resolution window for complaint {complaint_number} " +
			"({category}) has passed. Please share a progress update for the record.\n\n" +
			"Regards,\nComplaint Monitoring Cell",
		level: models.LevelProgressCheck,
	},
	models.ReminderRes75: {
		subject: "FINAL WARNING: Complaint {complaint_number} resolution deadline approaching",
		body: "Dear {department_head},\n\n" +
			"75% of the resolution window for complaint {complaint_number} ({category}) " +
			"has elapsed without closure. This is the final warning before the deadline.\n\n" +
			"Failure to resolve in time will trigger escalation to higher authorities.\n\n" +
			"Regards,\nComplaint Monitoring Cell",
		level: models.LevelFinalWarning,
	},
	models.ReminderOverdueAck: {
		subject: "OVERDUE: Complaint {complaint_number} acknowledgment deadline passed",
		body: "Dear {department_head},\n\n" +
			"The acknowledgment deadline for complaint {complaint_number} ({category}) " +
			"has PASSED. This breach has been recorded and copied to the district " +
			"administration.\n\n" +
			"Acknowledge immediately and report the reason for the delay.\n\n" +
			"Regards,\nComplaint Monitoring Cell",
		level: models.LevelOverdue,
	},
	models.ReminderOverdueRes: {
		subject: "CRITICAL OVERDUE: Complaint {complaint_number} unresolved past deadline",
		body: "Dear {department_head},\n\n" +
			"Complaint {complaint_number} ({category}) remains UNRESOLVED past its " +
			"resolution deadline. This breach has been escalated to the highest level " +
			"and copied to the Chief Secretary and the Chief Minister's Office.\n\n" +
			"Resolve immediately and submit an explanation for the delay.\n\n" +
			"Regards,\nComplaint Monitoring Cell",
		level: models.LevelCriticalOverdue,
	},
}

// ReminderService schedules reminders and processes the pending queue into
// rendered messages with escalation-aware CC lists.
type ReminderService struct {
	reminders repository.ReminderStore
	email     notification.Sender
	sms       notification.Sender
	jrnl      *journal.Journal // optional processing log
	now       func() time.Time
}

// NewReminderService creates a reminder service. jrnl may be nil.
func NewReminderService(reminders repository.ReminderStore, email, sms notification.Sender, jrnl *journal.Journal) *ReminderService {
	return &ReminderService{
		reminders: reminders,
		email:     email,
		sms:       sms,
		jrnl:      jrnl,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Schedule queues a reminder of the given type. Reminders whose time has
// already arrived go straight to the pending queue; future ones wait in the
// scheduled queue until promoted.
func (s *ReminderService) Schedule(complaintID string, rType models.ReminderType, scheduledTime time.Time,
	complaintData, departmentData map[string]string, recipientEmail, recipientPhone string) (*models.ScheduleReminderResult, error) {

	tmpl, ok := reminderTemplates[rType]
	if !ok {
		return nil, fmt.Errorf("unknown reminder type %q", rType)
	}

	now := s.now()
	status := models.ReminderScheduled
	queue := "scheduled"
	if !scheduledTime.After(now) {
		status = models.ReminderPending
		queue = "pending"
	}

	r := &models.Reminder{
		ReminderID:      uuid.NewString(),
		ComplaintID:     complaintID,
		Type:            rType,
		ScheduledTime:   scheduledTime,
		CreatedAt:       now,
		Status:          status,
		EscalationLevel: tmpl.level,
		ComplaintData:   complaintData,
		DepartmentData:  departmentData,
		RecipientEmail:  recipientEmail,
		RecipientPhone:  recipientPhone,
		MaxRetries:      maxReminderRetries,
	}
	if err := s.reminders.Save(r); err != nil {
		return nil, fmt.Errorf("failed to save reminder: %w", err)
	}

	log.Printf("[REMINDER] scheduled %s for complaint %s at %s (queue=%s)", rType, complaintID, scheduledTime.Format(time.RFC3339), queue)
	return &models.ScheduleReminderResult{
		Success:         true,
		ReminderID:      r.ReminderID,
		ComplaintID:     complaintID,
		Type:            rType,
		ScheduledFor:    scheduledTime,
		EscalationLevel: tmpl.level,
		Queue:           queue,
	}, nil
}

// ProcessPending promotes due scheduled reminders and renders up to max
// pending reminders into messages. A reminder that fails to render is retried
// up to its retry budget and then marked failed.
func (s *ReminderService) ProcessPending(max int) (*models.BatchResult, error) {
	now := s.now()
	promoted, err := s.reminders.PromoteDue(now)
	if err != nil {
		return nil, fmt.Errorf("failed to promote due reminders: %w", err)
	}
	if promoted > 0 {
		log.Printf("[REMINDER] promoted %d due reminders to pending", promoted)
	}

	batch, err := s.reminders.PendingBatch(max)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch pending batch: %w", err)
	}

	result := &models.BatchResult{
		ProcessedAt:     now,
		LevelsProcessed: make(map[models.EscalationLevel]int),
	}

	for _, r := range batch {
		msg, renderErr := s.render(r, now)
		if renderErr != nil {
			r.RetryCount++
			r.LastError = renderErr.Error()
			if r.RetryCount >= r.MaxRetries {
				if err := s.reminders.MarkFailed(r); err != nil {
					log.Printf("[REMINDER] failed to mark reminder %s failed: %v", r.ReminderID, err)
				}
				result.FailedCount++
				log.Printf("[REMINDER] reminder %s failed permanently after %d attempts: %v", r.ReminderID, r.RetryCount, renderErr)
			} else {
				if err := s.reminders.Requeue(r); err != nil {
					log.Printf("[REMINDER] failed to requeue reminder %s: %v", r.ReminderID, err)
				}
				result.RetryCount++
				log.Printf("[REMINDER] reminder %s render failed (attempt %d), requeued: %v", r.ReminderID, r.RetryCount, renderErr)
			}
			continue
		}

		s.deliver(msg)

		t := now
		r.ProcessedAt = &t
		if err := s.reminders.MarkProcessed(r); err != nil {
			log.Printf("[REMINDER] failed to archive reminder %s: %v", r.ReminderID, err)
		}
		if err := s.reminders.LogSent(&models.ReminderLogEntry{
			Timestamp:       now,
			ComplaintID:     r.ComplaintID,
			Type:            r.Type,
			Recipient:       r.RecipientEmail,
			Status:          models.ReminderProcessed,
			EscalationLevel: r.EscalationLevel,
		}); err != nil {
			log.Printf("[REMINDER] failed to log sent reminder %s: %v", r.ReminderID, err)
		}

		result.ProcessedCount++
		result.LevelsProcessed[r.EscalationLevel]++
		result.Messages = append(result.Messages, *msg)
	}

	scheduled, pending, _, err := s.reminders.QueueCounts()
	if err != nil {
		log.Printf("[REMINDER] failed to read queue counts: %v", err)
	} else {
		result.RemainingPending = pending
		result.ScheduledCount = scheduled
	}

	if s.jrnl != nil && (result.ProcessedCount > 0 || result.FailedCount > 0) {
		entry := map[string]interface{}{
			"timestamp": now.Format(time.RFC3339),
			"processed": result.ProcessedCount,
			"failed":    result.FailedCount,
			"retried":   result.RetryCount,
		}
		if err := s.jrnl.Append(entry); err != nil {
			log.Printf("[REMINDER] failed to log batch: %v", err)
		}
	}

	return result, nil
}

// render produces the outbound message for one reminder.
func (s *ReminderService) render(r *models.Reminder, now time.Time) (*models.ReminderMessage, error) {
	tmpl, ok := reminderTemplates[r.Type]
	if !ok {
		return nil, fmt.Errorf("no template for reminder type %q", r.Type)
	}
	if r.RecipientEmail == "" {
		return nil, fmt.Errorf("reminder %s has no recipient email", r.ReminderID)
	}

	data := make(map[string]string, len(r.ComplaintData)+len(r.DepartmentData))
	for k, v := range r.ComplaintData {
		data[k] = v
	}
	for k, v := range r.DepartmentData {
		data[k] = v
	}

	msg := &models.ReminderMessage{
		ReminderID:      r.ReminderID,
		ComplaintID:     r.ComplaintID,
		Subject:         expand(tmpl.subject, data),
		Body:            expand(tmpl.body, data),
		RecipientEmail:  r.RecipientEmail,
		RecipientName:   data["department_head"],
		CCEmails:        ccList(r.EscalationLevel, r.CCEmails),
		EscalationLevel: r.EscalationLevel,
		Priority:        priorityFor(r.EscalationLevel),
		Department:      data["department_name"],
		GeneratedAt:     now,
	}

	if r.EscalationLevel.IsUrgentOrAbove() && r.RecipientPhone != "" {
		msg.SMS = &models.SMSMessage{
			Phone:   r.RecipientPhone,
			Content: fmt.Sprintf("Govt complaint %s requires attention. Level: %s. Check email for details.", data["complaint_number"], r.EscalationLevel),
		}
	}

	return msg, nil
}

// deliver sends the rendered message over the configured channels.
func (s *ReminderService) deliver(msg *models.ReminderMessage) {
	if err := s.email.Send(&notification.Message{
		ComplaintID: msg.ComplaintID,
		Subject:     msg.Subject,
		Body:        msg.Body,
		Recipient:   msg.RecipientEmail,
		CC:          msg.CCEmails,
	}); err != nil {
		log.Printf("[REMINDER] email delivery for %s failed: %v", msg.ReminderID, err)
	}
	if msg.SMS != nil {
		if err := s.sms.Send(&notification.Message{
			ComplaintID: msg.ComplaintID,
			Body:        msg.SMS.Content,
			Recipient:   msg.SMS.Phone,
		}); err != nil {
			log.Printf("[REMINDER] sms delivery for %s failed: %v", msg.ReminderID, err)
		}
	}
}

// ccList builds the CC ladder for an escalation level: urgent and above copy
// the district collector, critical overdue additionally copies the Chief
// Secretary and the Chief Minister's Office.
func ccList(level models.EscalationLevel, base []string) []string {
	cc := append([]string(nil), base...)
	if level.IsUrgentOrAbove() {
		cc = appendUnique(cc, DistrictCollectorEmail)
	}
	if level == models.LevelCriticalOverdue {
		cc = appendUnique(cc, ChiefSecretaryEmail)
		cc = appendUnique(cc, ChiefMinisterOfficeEmail)
	}
	return cc
}

func appendUnique(list []string, addr string) []string {
	for _, v := range list {
		if v == addr {
			return list
		}
	}
	return append(list, addr)
}

func priorityFor(level models.EscalationLevel) string {
	switch level {
	case models.LevelCriticalOverdue:
		return "highest"
	case models.LevelOverdue, models.LevelFinalWarning:
		return "high"
	case models.LevelUrgent:
		return "elevated"
	default:
		return "normal"
	}
}

// expand substitutes {key} placeholders with values from data. Unknown keys
// are left in place so a missing field is visible in the output.
func expand(tmpl string, data map[string]string) string {
	pairs := make([]string, 0, len(data)*2)
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}

// Statistics summarizes reminder activity over the last daysBack days.
func (s *ReminderService) Statistics(daysBack int) (*models.ReminderStatistics, error) {
	now := s.now()
	cutoff := now.AddDate(0, 0, -daysBack)

	entries, err := s.reminders.SentSince(cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to read sent log: %w", err)
	}
	scheduled, pending, processed, err := s.reminders.QueueCounts()
	if err != nil {
		return nil, fmt.Errorf("failed to read queue counts: %w", err)
	}

	stats := &models.ReminderStatistics{
		PeriodStart:       cutoff,
		PeriodEnd:         now,
		QueuePending:      pending,
		QueueScheduled:    scheduled,
		ProcessedArchive:  processed,
		TypeDistribution:  make(map[models.ReminderType]int),
		LevelDistribution: make(map[models.EscalationLevel]int),
		RecipientCounts:   make(map[string]int),
	}

	succeeded := 0
	for _, e := range entries {
		stats.TotalSent++
		stats.TypeDistribution[e.Type]++
		stats.LevelDistribution[e.EscalationLevel]++
		stats.RecipientCounts[e.Recipient]++
		if e.Status == models.ReminderProcessed {
			succeeded++
		}
	}
	if stats.TotalSent > 0 {
		stats.SuccessRate = round1(float64(succeeded) / float64(stats.TotalSent) * 100)
	}

	return stats, nil
}
