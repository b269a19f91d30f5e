package service

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"jansunwai/models"
	"jansunwai/repository"
)

// ComplaintService is the intake orchestrator: it files a complaint, computes
// its deadlines, routes it to a department and enqueues its reminders.
type ComplaintService struct {
	store       repository.ComplaintStore
	deadlines   *DeadlineService
	departments *DepartmentService
	reminders   *ReminderService
	now         func() time.Time
}

// NewComplaintService creates a complaint service. reminders may be nil, in
// which case filing skips queueing.
func NewComplaintService(store repository.ComplaintStore, deadlines *DeadlineService, departments *DepartmentService, reminders *ReminderService) *ComplaintService {
	return &ComplaintService{
		store:       store,
		deadlines:   deadlines,
		departments: departments,
		reminders:   reminders,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// File registers a new complaint: validates the classification, computes the
// deadline calculation, assigns the department and stores the record in RED.
func (s *ComplaintService) File(req *models.CreateComplaintRequest) (*models.CreateComplaintResponse, error) {
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("description is required")
	}
	if !models.IsValidUrgency(req.Urgency) {
		log.Printf("[COMPLAINT] unknown urgency %q, defaulting to MEDIUM", req.Urgency)
		req.Urgency = models.UrgencyMedium
	}
	if req.Category == "" {
		req.Category = models.CategoryGeneral
	}

	calc := s.deadlines.CalculateDeadlines(req.Urgency, req.Category, req.SubmittedAt)
	dept := s.departments.ForCategory(req.Category)
	now := s.now()

	c := &models.Complaint{
		ComplaintID:     uuid.NewString(),
		ComplaintNumber: newComplaintNumber(calc.SubmissionTime),
		Description:     req.Description,
		Category:        req.Category,
		Urgency:         req.Urgency,
		Department:      dept.Name,

		SubmittedAt: calc.SubmissionTime,

		CurrentStatus:    models.StatusRed,
		StatusStartTime:  now,
		LastStatusChange: now,
		LastUpdate:       now,

		Deadlines:          &calc.Deadlines,
		ReminderSchedule:   calc.ReminderSchedule,
		EscalationSchedule: calc.EscalationSchedule,
		StatusHistory: []models.StatusHistoryEntry{
			{
				From:      models.StatusRed,
				To:        models.StatusRed,
				Timestamp: now,
				Reason:    "Complaint registered",
			},
		},

		CreatedAt: now,
	}
	calc.ComplaintID = c.ComplaintID

	if err := s.store.Create(c); err != nil {
		return nil, fmt.Errorf("failed to store complaint: %w", err)
	}
	log.Printf("[COMPLAINT] filed %s (%s) category=%s urgency=%s dept=%s", c.ComplaintID, c.ComplaintNumber, c.Category, c.Urgency, dept.Code)

	s.enqueueReminders(c, dept.Email, dept.Phone, dept)

	return &models.CreateComplaintResponse{
		ComplaintID:     c.ComplaintID,
		ComplaintNumber: c.ComplaintNumber,
		CurrentStatus:   c.CurrentStatus,
		Department:      c.Department,
		Deadlines:       c.Deadlines,
		Message:         fmt.Sprintf("Complaint registered and routed to %s", dept.Name),
	}, nil
}

// enqueueReminders mirrors the complaint's reminder schedule into the
// reminder queue so the processor can render them when due.
func (s *ComplaintService) enqueueReminders(c *models.Complaint, email, phone string, dept *models.Department) {
	if s.reminders == nil {
		return
	}
	complaintData := map[string]string{
		"complaint_id":     c.ComplaintID,
		"complaint_number": c.ComplaintNumber,
		"category":         string(c.Category),
		"urgency":          string(c.Urgency),
		"description":      c.Description,
		"submitted_at":     c.SubmittedAt.Format("02 Jan 2006 15:04"),
	}
	for _, r := range c.ReminderSchedule {
		_, err := s.reminders.Schedule(c.ComplaintID, models.ReminderType(r.Type), r.ScheduledAt,
			complaintData, dept.TemplateData(), email, phone)
		if err != nil {
			log.Printf("[COMPLAINT] failed to queue %s reminder for %s: %v", r.Type, c.ComplaintID, err)
		}
	}
}

// Get returns one complaint.
func (s *ComplaintService) Get(complaintID string) (*models.Complaint, error) {
	return s.store.Get(complaintID)
}

// List returns complaints, optionally filtered by department name.
func (s *ComplaintService) List(department string) ([]*models.Complaint, error) {
	all, err := s.store.List()
	if err != nil {
		return nil, err
	}
	if department == "" {
		return all, nil
	}
	var out []*models.Complaint
	for _, c := range all {
		if c.Department == department {
			out = append(out, c)
		}
	}
	return out, nil
}

// Timeline returns the status history of one complaint.
func (s *ComplaintService) Timeline(complaintID string) ([]models.StatusHistoryEntry, error) {
	c, err := s.store.Get(complaintID)
	if err != nil {
		return nil, err
	}
	return c.StatusHistory, nil
}

// newComplaintNumber builds a citizen-facing reference like CMP-20250203-4f2a9c1b.
func newComplaintNumber(submitted time.Time) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("CMP-%s-%s", submitted.Format("20060102"), suffix)
}
