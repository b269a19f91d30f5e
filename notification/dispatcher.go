package notification

import (
	"log"

	"jansunwai/models"
)

// ActionDispatcher receives the symbolic auto actions declared on each status
// and forwards them to the notification transport. The rule core never talks
// to a transport directly.
type ActionDispatcher interface {
	DispatchStatusActions(complaintID string, status models.Status, actions []string)
}

// LogDispatcher forwards auto actions to the configured senders and logs each
// dispatch. Actions that require citizen or department contact produce a
// simulated notification.
type LogDispatcher struct {
	email Sender
	sms   Sender
}

// NewLogDispatcher creates a dispatcher over the given senders.
func NewLogDispatcher(email, sms Sender) *LogDispatcher {
	return &LogDispatcher{email: email, sms: sms}
}

// DispatchStatusActions dispatches each declared action.
func (d *LogDispatcher) DispatchStatusActions(complaintID string, status models.Status, actions []string) {
	def := models.StatusDefinitions[status]
	for _, action := range actions {
		log.Printf("[DISPATCH] complaint %s entered %s (%s): action=%s", complaintID, status, def.Name, action)
		switch action {
		case "send_notification", "notify_citizen", "satisfaction_survey":
			msg := &Message{
				ComplaintID: complaintID,
				Subject:     def.Name,
				Body:        def.Description,
			}
			if err := d.email.Send(msg); err != nil {
				log.Printf("[DISPATCH] notification for complaint %s failed: %v", complaintID, err)
			}
		}
	}
}
