// Package notification is the delivery adapter consumed by the rule core.
// Real email/SMS delivery is out of scope; the senders here simulate delivery
// and keep a small in-memory record so tests and the simulation CLI can
// observe what would have gone out.
package notification

import (
	"log"
	"sync"
	"time"
)

// Message is one outbound communication.
type Message struct {
	ComplaintID string
	Subject     string
	Body        string
	Recipient   string
	CC          []string
	SentAt      time.Time
}

// Sender delivers messages on one channel.
type Sender interface {
	Send(msg *Message) error
	Channel() string
}

// EmailSender simulates email delivery: it validates, logs and records.
type EmailSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewEmailSender creates a simulated email sender.
func NewEmailSender() *EmailSender {
	return &EmailSender{}
}

// Channel returns the email channel name.
func (s *EmailSender) Channel() string { return "email" }

// Send records the message. Delivery is simulated.
func (s *EmailSender) Send(msg *Message) error {
	m := *msg
	m.SentAt = time.Now().UTC()
	s.mu.Lock()
	s.sent = append(s.sent, m)
	s.mu.Unlock()
	log.Printf("[EMAIL] to=%s cc=%d subject=%q complaint=%s", m.Recipient, len(m.CC), m.Subject, m.ComplaintID)
	return nil
}

// Sent returns a copy of everything sent so far.
func (s *EmailSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}

// SMSSender simulates SMS delivery.
type SMSSender struct {
	mu   sync.Mutex
	sent []Message
}

// NewSMSSender creates a simulated SMS sender.
func NewSMSSender() *SMSSender {
	return &SMSSender{}
}

// Channel returns the SMS channel name.
func (s *SMSSender) Channel() string { return "sms" }

// Send records the message. Delivery is simulated.
func (s *SMSSender) Send(msg *Message) error {
	if msg.Recipient == "" {
		return ErrInvalidRecipient
	}
	m := *msg
	m.SentAt = time.Now().UTC()
	s.mu.Lock()
	s.sent = append(s.sent, m)
	s.mu.Unlock()
	log.Printf("[SMS] to=%s complaint=%s", m.Recipient, m.ComplaintID)
	return nil
}

// Sent returns a copy of everything sent so far.
func (s *SMSSender) Sent() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Message, len(s.sent))
	copy(out, s.sent)
	return out
}

// Errors
var (
	ErrInvalidRecipient = &NotificationError{Message: "invalid recipient"}
)

// NotificationError represents a notification error.
type NotificationError struct {
	Message string
	Err     error
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}
