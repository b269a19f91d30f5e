package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"jansunwai/models"
	"jansunwai/service"
)

// ReminderHandler exposes the reminder queue.
type ReminderHandler struct {
	reminders *service.ReminderService
}

// NewReminderHandler creates a new reminder handler
func NewReminderHandler(reminders *service.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminders: reminders}
}

// ScheduleReminder handles POST /api/v1/reminders
func (h *ReminderHandler) ScheduleReminder(w http.ResponseWriter, r *http.Request) {
	var req models.ScheduleReminderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if req.ComplaintID == "" {
		respondWithError(w, http.StatusBadRequest, "Validation error", "complaint_id is required")
		return
	}
	if !models.IsValidReminderType(req.Type) {
		respondWithError(w, http.StatusBadRequest, "Validation error", "unknown reminder_type")
		return
	}
	if req.ScheduledTime.IsZero() {
		respondWithError(w, http.StatusBadRequest, "Validation error", "scheduled_time is required")
		return
	}
	if req.RecipientEmail == "" {
		respondWithError(w, http.StatusBadRequest, "Validation error", "recipient_email is required")
		return
	}

	result, err := h.reminders.Schedule(req.ComplaintID, req.Type, req.ScheduledTime,
		req.ComplaintData, req.DepartmentData, req.RecipientEmail, req.RecipientPhone)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Scheduling failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, result)
}

// ProcessPending handles POST /api/v1/reminders/process?max=50
func (h *ReminderHandler) ProcessPending(w http.ResponseWriter, r *http.Request) {
	max := 50
	if v := r.URL.Query().Get("max"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Validation error", "max must be a positive integer")
			return
		}
		max = parsed
	}

	result, err := h.reminders.ProcessPending(max)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Processing failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Statistics handles GET /api/v1/reminders/statistics?days=7
func (h *ReminderHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "Validation error", "days must be a positive integer")
			return
		}
		days = parsed
	}

	stats, err := h.reminders.Statistics(days)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Statistics failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, stats)
}
