package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"jansunwai/models"
	"jansunwai/repository"
	"jansunwai/service"
)

// ComplaintHandler handles HTTP requests for complaints
type ComplaintHandler struct {
	complaints *service.ComplaintService
	statuses   *service.StatusService
	deadlines  *service.DeadlineService
}

// NewComplaintHandler creates a new complaint handler
func NewComplaintHandler(complaints *service.ComplaintService, statuses *service.StatusService, deadlines *service.DeadlineService) *ComplaintHandler {
	return &ComplaintHandler{
		complaints: complaints,
		statuses:   statuses,
		deadlines:  deadlines,
	}
}

// CreateComplaint handles POST /api/v1/complaints
func (h *ComplaintHandler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	var req models.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if req.Description == "" {
		respondWithError(w, http.StatusBadRequest, "Validation error", "Description is required")
		return
	}

	resp, err := h.complaints.File(&req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Filing failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusCreated, resp)
}

// GetComplaint handles GET /api/v1/complaints/{id}
func (h *ComplaintHandler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	c, err := h.complaints.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Not found", "Complaint not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, c)
}

// ListComplaints handles GET /api/v1/complaints?department=...
func (h *ComplaintHandler) ListComplaints(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")
	list, err := h.complaints.List(department)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"complaints": list,
		"count":      len(list),
	})
}

// GetTimeline handles GET /api/v1/complaints/{id}/timeline
func (h *ComplaintHandler) GetTimeline(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	history, err := h.complaints.Timeline(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Not found", "Complaint not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Lookup failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"complaint_id":   id,
		"status_history": history,
	})
}

// UpdateStatus handles POST /api/v1/complaints/{id}/status
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}
	if req.NewStatus == "" {
		respondWithError(w, http.StatusBadRequest, "Validation error", "new_status is required")
		return
	}

	result, err := h.statuses.UpdateStatus(id, req.NewStatus, req.Reason, req.Metadata)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Not found", "Complaint not found")
			return
		}
		var invalid *models.InvalidTransitionError
		if errors.As(err, &invalid) {
			respondWithError(w, http.StatusConflict, "Invalid transition", invalid.Error())
			return
		}
		respondWithError(w, http.StatusInternalServerError, "Update failed", err.Error())
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// PreviewDeadlines handles POST /api/v1/deadlines/preview: deadline math
// without filing a complaint.
func (h *ComplaintHandler) PreviewDeadlines(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Urgency     models.Urgency  `json:"urgency"`
		Category    models.Category `json:"category"`
		SubmittedAt string          `json:"submitted_at,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request", "Failed to parse request body")
		return
	}

	calc := h.deadlines.CalculateDeadlines(req.Urgency, req.Category, req.SubmittedAt)
	respondWithJSON(w, http.StatusOK, calc)
}

// respondWithJSON sends a JSON response
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError sends an error response
func respondWithError(w http.ResponseWriter, statusCode int, errorType, message string) {
	response := models.ErrorResponse{
		Error:   errorType,
		Message: message,
		Code:    statusCode,
	}
	respondWithJSON(w, statusCode, response)
}
