package service

import (
	"log"
	"time"

	"jansunwai/calendar"
	"jansunwai/journal"
	"jansunwai/models"
)

// slaWindow is the base SLA in hours for one urgency level.
type slaWindow struct {
	ack int
	res int
}

// urgencySLAs is the canonical base SLA table.
var urgencySLAs = map[models.Urgency]slaWindow{
	models.UrgencyCritical: {ack: 2, res: 24},
	models.UrgencyHigh:     {ack: 24, res: 72},
	models.UrgencyMedium:   {ack: 48, res: 168},
	models.UrgencyLow:      {ack: 72, res: 336},
}

// categoryAdjustment scales the SLA windows per category.
type categoryAdjustment struct {
	ack float64
	res float64
}

var categoryAdjustments = map[models.Category]categoryAdjustment{
	models.CategoryHealth:      {ack: 0.5, res: 0.5},
	models.CategoryElectricity: {ack: 0.8, res: 0.9},
	models.CategoryWater:       {ack: 0.7, res: 0.8},
	models.CategorySanitation:  {ack: 1.0, res: 1.0},
	models.CategoryRoad:        {ack: 1.2, res: 1.3},
	models.CategoryGeneral:     {ack: 1.0, res: 1.0},
}

// monsoonMonths get extended resolution windows for weather-bound categories.
var monsoonMonths = map[time.Month]bool{
	time.June:      true,
	time.July:      true,
	time.August:    true,
	time.September: true,
}

var monsoonCategories = map[models.Category]bool{
	models.CategoryRoad:       true,
	models.CategorySanitation: true,
	models.CategoryWater:      true,
}

// Context factors recorded on a deadline calculation.
const (
	FactorWeekendHoliday = "weekend_holiday_submission"
	FactorAfterHours     = "after_hours_submission"
	FactorMonsoon        = "monsoon_season_adjustment"
)

// DeadlineService computes acknowledgment/resolution deadlines, the reminder
// schedule and the escalation schedule for a complaint at routing time.
type DeadlineService struct {
	calendar *calendar.BusinessCalendar
	journal  *journal.Journal // optional calculation log
	now      func() time.Time
}

// NewDeadlineService creates a deadline service. jrnl may be nil.
func NewDeadlineService(cal *calendar.BusinessCalendar, jrnl *journal.Journal) *DeadlineService {
	return &DeadlineService{
		calendar: cal,
		journal:  jrnl,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CalculateDeadlines parses submissionTime (ISO 8601; malformed or empty
// falls back to the current time) and computes the full deadline calculation.
func (s *DeadlineService) CalculateDeadlines(urgency models.Urgency, category models.Category, submissionTime string) *models.DeadlineCalculation {
	start := s.now()
	if submissionTime != "" {
		parsed, err := time.Parse(time.RFC3339, submissionTime)
		if err != nil {
			log.Printf("[DEADLINE] malformed submission time %q, using current time: %v", submissionTime, err)
		} else {
			start = parsed
		}
	}
	return s.CalculateDeadlinesAt(urgency, category, start)
}

// CalculateDeadlinesAt computes deadlines for a known submission instant.
func (s *DeadlineService) CalculateDeadlinesAt(urgency models.Urgency, category models.Category, start time.Time) *models.DeadlineCalculation {
	base, ok := urgencySLAs[urgency]
	if !ok {
		base = urgencySLAs[models.UrgencyMedium]
	}
	adj, ok := categoryAdjustments[category]
	if !ok {
		adj = categoryAdjustment{ack: 1.0, res: 1.0}
	}

	ackHours := int(float64(base.ack) * adj.ack)
	if ackHours < 1 {
		ackHours = 1
	}
	resHours := int(float64(base.res) * adj.res)
	if resHours < 4 {
		resHours = 4
	}

	var factors []string
	if !s.calendar.IsWorkingDay(start) {
		ackHours = int(float64(ackHours) * 1.2)
		resHours = int(float64(resHours) * 1.1)
		factors = append(factors, FactorWeekendHoliday)
	}
	if start.Hour() < s.calendar.StartHour || start.Hour() >= s.calendar.EndHour {
		if urgency != models.UrgencyCritical {
			factors = append(factors, FactorAfterHours)
		}
	}
	if monsoonMonths[start.Month()] && monsoonCategories[category] {
		resHours = int(float64(resHours) * 1.3)
		factors = append(factors, FactorMonsoon)
	}

	var ackDeadline, resDeadline time.Time
	var method models.CalculationMethod
	if urgency == models.UrgencyCritical {
		// Critical complaints are handled around the clock.
		ackDeadline = start.Add(time.Duration(ackHours) * time.Hour)
		resDeadline = start.Add(time.Duration(resHours) * time.Hour)
		method = models.Calculation247
	} else {
		ackDeadline = s.calendar.AddBusinessHours(start, ackHours)
		resDeadline = s.calendar.AddBusinessHours(start, resHours)
		method = models.CalculationBusinessHours
	}

	calc := &models.DeadlineCalculation{
		SubmissionTime: start,
		Urgency:        urgency,
		Category:       category,
		Deadlines: models.DeadlineRecord{
			AcknowledgmentDeadline: ackDeadline,
			ResolutionDeadline:     resDeadline,
			AckHours:               ackHours,
			ResHours:               resHours,
			CalculationMethod:      method,
			ContextFactors:         factors,
		},
		ReminderSchedule:   buildReminderSchedule(start, ackDeadline, resDeadline),
		EscalationSchedule: buildEscalationSchedule(ackDeadline, resDeadline),
		SLACompliance: models.SLACompliance{
			BaseAckHours:     base.ack,
			BaseResHours:     base.res,
			AdjustedAckHours: ackHours,
			AdjustedResHours: resHours,
			CategoryAdjusted: category != models.CategoryGeneral,
		},
	}

	if s.journal != nil {
		entry := map[string]interface{}{
			"timestamp":               s.now().Format(time.RFC3339),
			"urgency_level":           urgency,
			"category":                category,
			"acknowledgment_deadline": ackDeadline.Format(time.RFC3339),
			"resolution_deadline":     resDeadline.Format(time.RFC3339),
		}
		if err := s.journal.Append(entry); err != nil {
			log.Printf("[DEADLINE] failed to log calculation: %v", err)
		}
	}

	return calc
}

// buildReminderSchedule derives checkpoints from the actual deadline windows:
// 50% and 90% of the acknowledgment window, plus 25% and 75% of the
// resolution window when it spans more than 48 hours.
func buildReminderSchedule(start, ackDeadline, resDeadline time.Time) []models.ScheduledReminder {
	ackWindow := ackDeadline.Sub(start)
	resWindow := resDeadline.Sub(start)

	schedule := []models.ScheduledReminder{
		{
			Type:        string(models.ReminderAck50),
			ScheduledAt: start.Add(fraction(ackWindow, 0.5)),
			Description: "Gentle reminder - 50% of acknowledgment deadline passed",
		},
		{
			Type:        string(models.ReminderAck90),
			ScheduledAt: start.Add(fraction(ackWindow, 0.9)),
			Description: "Urgent reminder - 90% of acknowledgment deadline passed",
		},
	}

	if resWindow > 48*time.Hour {
		schedule = append(schedule,
			models.ScheduledReminder{
				Type:        string(models.ReminderRes25),
				ScheduledAt: start.Add(fraction(resWindow, 0.25)),
				Description: "Progress check - 25% of resolution deadline passed",
			},
			models.ScheduledReminder{
				Type:        string(models.ReminderRes75),
				ScheduledAt: start.Add(fraction(resWindow, 0.75)),
				Description: "Final warning - 75% of resolution deadline passed",
			},
		)
	}
	return schedule
}

// buildEscalationSchedule derives the three escalation checkpoints from the
// computed deadlines.
func buildEscalationSchedule(ackDeadline, resDeadline time.Time) []models.EscalationTrigger {
	return []models.EscalationTrigger{
		{
			Level:     1,
			TriggerAt: ackDeadline.Add(24 * time.Hour),
			Condition: "No acknowledgment 24 hours past deadline",
			Action:    "Escalate to Department Head",
		},
		{
			Level:     2,
			TriggerAt: ackDeadline.Add(72 * time.Hour),
			Condition: "No response 72 hours past acknowledgment deadline",
			Action:    "Escalate to District Authority",
		},
		{
			Level:     3,
			TriggerAt: resDeadline.Add(48 * time.Hour),
			Condition: "No resolution 48 hours past deadline",
			Action:    "Escalate to State Secretariat",
		},
	}
}

func fraction(d time.Duration, f float64) time.Duration {
	return time.Duration(float64(d) * f)
}
