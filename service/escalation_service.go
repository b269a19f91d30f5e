package service

import (
	"strings"
	"time"

	"jansunwai/models"
)

// Keyword triggers scanned in the complaint text. Matching is case-insensitive
// substring search, the same heuristic the intake classifier uses.
var (
	emergencyKeywords = []string{"emergency"}
	dangerKeywords    = []string{"dangerous"}
)

// Escalation levels returned by the policy.
const (
	EscalationLevelImmediate = "IMMEDIATE"
	EscalationLevelHigh      = "HIGH"
	EscalationLevelStandard  = "STANDARD"
)

// EscalationService decides whether and how far a complaint escalates.
type EscalationService struct {
	now func() time.Time
}

// NewEscalationService creates the escalation policy.
func NewEscalationService() *EscalationService {
	return &EscalationService{now: func() time.Time { return time.Now().UTC() }}
}

// CheckEscalation evaluates the escalation rules in precedence order:
// critical urgency first, then emergency keywords, then danger keywords.
func (s *EscalationService) CheckEscalation(c *models.Complaint) models.EscalationCheckResult {
	text := strings.ToLower(c.Description)
	hasEmergency := containsAny(text, emergencyKeywords)
	hasDanger := containsAny(text, dangerKeywords)

	result := models.EscalationCheckResult{
		ComplaintID: c.ComplaintID,
		CheckedAt:   s.now(),
		Level:       EscalationLevelStandard,
		Reason:      "Normal processing",
		Path:        escalationPath(c.Urgency),
	}

	switch {
	case c.Urgency == models.UrgencyCritical:
		result.Escalated = true
		result.Reason = "Critical urgency detected"
	case hasEmergency:
		result.Escalated = true
		result.Reason = "Emergency situation identified"
	case hasDanger:
		result.Escalated = true
		result.Reason = "Safety concern identified"
	}

	if hasEmergency {
		result.Level = EscalationLevelImmediate
	} else if c.Urgency == models.UrgencyCritical {
		result.Level = EscalationLevelHigh
	}

	return result
}

// escalationPath is the fixed escalation ladder.
func escalationPath(urgency models.Urgency) []string {
	if urgency == models.UrgencyCritical {
		return []string{"Department Head", "District Magistrate", "State Authority"}
	}
	return []string{"Department Officer", "Department Head"}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
