package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jansunwai/models"
)

func TestCheckEscalationPrecedence(t *testing.T) {
	svc := NewEscalationService()

	cases := []struct {
		name        string
		description string
		urgency     models.Urgency
		escalated   bool
		reason      string
		level       string
	}{
		{
			name:        "critical urgency wins over keywords",
			description: "emergency: transformer on fire, dangerous",
			urgency:     models.UrgencyCritical,
			escalated:   true,
			reason:      "Critical urgency detected",
			level:       EscalationLevelImmediate, // emergency keyword still lifts the level
		},
		{
			name:        "critical urgency alone",
			description: "main line burst",
			urgency:     models.UrgencyCritical,
			escalated:   true,
			reason:      "Critical urgency detected",
			level:       EscalationLevelHigh,
		},
		{
			name:        "emergency keyword",
			description: "This is an EMERGENCY, sewage entering homes",
			urgency:     models.UrgencyMedium,
			escalated:   true,
			reason:      "Emergency situation identified",
			level:       EscalationLevelImmediate,
		},
		{
			name:        "danger keyword",
			description: "Open manhole, very dangerous at night",
			urgency:     models.UrgencyLow,
			escalated:   true,
			reason:      "Safety concern identified",
			level:       EscalationLevelStandard,
		},
		{
			name:        "nothing special",
			description: "Streetlight flickers sometimes",
			urgency:     models.UrgencyLow,
			escalated:   false,
			reason:      "Normal processing",
			level:       EscalationLevelStandard,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := svc.CheckEscalation(&models.Complaint{
				ComplaintID: "c-1",
				Description: tc.description,
				Urgency:     tc.urgency,
			})
			assert.Equal(t, tc.escalated, result.Escalated)
			assert.Equal(t, tc.reason, result.Reason)
			assert.Equal(t, tc.level, result.Level)
		})
	}
}

func TestEscalationPathByUrgency(t *testing.T) {
	svc := NewEscalationService()

	critical := svc.CheckEscalation(&models.Complaint{Urgency: models.UrgencyCritical})
	assert.Equal(t, []string{"Department Head", "District Magistrate", "State Authority"}, critical.Path)

	routine := svc.CheckEscalation(&models.Complaint{Urgency: models.UrgencyMedium})
	assert.Equal(t, []string{"Department Officer", "Department Head"}, routine.Path)
}
