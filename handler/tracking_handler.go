package handler

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"jansunwai/models"
	"jansunwai/repository"
	"jansunwai/service"
)

// TrackingHandler exposes the deadline tracker and the status monitor.
type TrackingHandler struct {
	tracker  *service.TrackerService
	statuses *service.StatusService
}

// NewTrackingHandler creates a new tracking handler
func NewTrackingHandler(tracker *service.TrackerService, statuses *service.StatusService) *TrackingHandler {
	return &TrackingHandler{tracker: tracker, statuses: statuses}
}

// RunTracking handles POST /api/v1/tracking/run
// Runs one tracking pass over the full store, or a single complaint when
// ?complaint_id= is given.
func (h *TrackingHandler) RunTracking(w http.ResponseWriter, r *http.Request) {
	complaintID := r.URL.Query().Get("complaint_id")
	report, err := h.tracker.Track(complaintID, complaintID == "")
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Tracking failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// Monitor handles GET /api/v1/tracking/monitor
// Query params: complaint_id, status, check_overdue (default true).
func (h *TrackingHandler) Monitor(w http.ResponseWriter, r *http.Request) {
	complaintID := r.URL.Query().Get("complaint_id")
	statusFilter := models.Status(r.URL.Query().Get("status"))
	if statusFilter != "" && !models.IsValidStatus(statusFilter) {
		respondWithError(w, http.StatusBadRequest, "Validation error", "Unknown status filter")
		return
	}
	checkOverdue := r.URL.Query().Get("check_overdue") != "false"

	report, err := h.statuses.Monitor(complaintID, statusFilter, checkOverdue)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Monitoring failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, report)
}

// CheckEscalation handles GET /api/v1/complaints/{id}/escalation
func (h *TrackingHandler) CheckEscalation(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	result, err := h.tracker.CheckEscalation(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Not found", "Complaint not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Escalation check failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
