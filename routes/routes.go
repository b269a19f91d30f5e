package routes

import (
	"net/http"

	"github.com/gorilla/mux"

	"jansunwai/config"
	"jansunwai/handler"
	"jansunwai/middleware"
	"jansunwai/service"
)

// SetupRoutes configures all API routes
func SetupRoutes(
	cfg *config.Config,
	complaintService *service.ComplaintService,
	statusService *service.StatusService,
	deadlineService *service.DeadlineService,
	trackerService *service.TrackerService,
	reminderService *service.ReminderService,
	departmentService *service.DepartmentService,
) *mux.Router {
	router := mux.NewRouter()

	// Initialize handlers
	complaintHandler := handler.NewComplaintHandler(complaintService, statusService, deadlineService)
	trackingHandler := handler.NewTrackingHandler(trackerService, statusService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	authHandler := handler.NewAuthHandler(departmentService, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLHours)

	// Initialize auth middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.JWTSecret)

	// API v1 routes
	apiV1 := router.PathPrefix("/api/v1").Subrouter()

	// Officer login
	apiV1.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Complaint routes
	complaints := apiV1.PathPrefix("/complaints").Subrouter()

	// POST /api/v1/complaints - File a new complaint (public intake)
	complaints.HandleFunc("", complaintHandler.CreateComplaint).Methods("POST")

	// GET /api/v1/complaints - List complaints (officers only)
	complaints.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.ListComplaints))).Methods("GET")

	// GET /api/v1/complaints/{id} - Get complaint by ID
	complaints.HandleFunc("/{id}", complaintHandler.GetComplaint).Methods("GET")

	// GET /api/v1/complaints/{id}/timeline - Get complaint status timeline
	complaints.HandleFunc("/{id}/timeline", complaintHandler.GetTimeline).Methods("GET")

	// POST /api/v1/complaints/{id}/status - Update complaint status (officers only)
	complaints.Handle("/{id}/status", authMiddleware.RequireAuth(http.HandlerFunc(complaintHandler.UpdateStatus))).Methods("POST")

	// GET /api/v1/complaints/{id}/escalation - Run the escalation policy
	complaints.Handle("/{id}/escalation", authMiddleware.RequireAuth(http.HandlerFunc(trackingHandler.CheckEscalation))).Methods("GET")

	// POST /api/v1/deadlines/preview - Deadline math without filing
	apiV1.HandleFunc("/deadlines/preview", complaintHandler.PreviewDeadlines).Methods("POST")

	// Tracking routes (officers only; the worker runs the same passes internally)
	tracking := apiV1.PathPrefix("/tracking").Subrouter()
	tracking.Handle("/run", authMiddleware.RequireAuth(http.HandlerFunc(trackingHandler.RunTracking))).Methods("POST")
	tracking.Handle("/monitor", authMiddleware.RequireAuth(http.HandlerFunc(trackingHandler.Monitor))).Methods("GET")

	// Reminder routes (officers only)
	reminders := apiV1.PathPrefix("/reminders").Subrouter()
	reminders.Handle("", authMiddleware.RequireAuth(http.HandlerFunc(reminderHandler.ScheduleReminder))).Methods("POST")
	reminders.Handle("/process", authMiddleware.RequireAuth(http.HandlerFunc(reminderHandler.ProcessPending))).Methods("POST")
	reminders.Handle("/statistics", authMiddleware.RequireAuth(http.HandlerFunc(reminderHandler.Statistics))).Methods("GET")

	// Health check endpoint
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	return router
}
