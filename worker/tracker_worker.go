package worker

import (
	"log"
	"sync"
	"time"

	"jansunwai/models"
	"jansunwai/service"
)

// TrackerWorker is a background worker that periodically runs the deadline
// tracker and the status-budget monitor over the full store.
type TrackerWorker struct {
	trackerService *service.TrackerService
	statusService  *service.StatusService
	interval       time.Duration
	stopChan       chan struct{}
	mu             sync.Mutex
	running        bool
}

// NewTrackerWorker creates a new tracker worker
func NewTrackerWorker(trackerService *service.TrackerService, statusService *service.StatusService, interval time.Duration) *TrackerWorker {
	return &TrackerWorker{
		trackerService: trackerService,
		statusService:  statusService,
		interval:       interval,
		stopChan:       make(chan struct{}),
		running:        false,
	}
}

// Start starts the tracker worker in a separate goroutine
func (w *TrackerWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		log.Println("Tracker worker is already running")
		return
	}

	w.running = true
	log.Printf("Tracker worker started (interval: %v)", w.interval)

	go w.run()
}

// Stop stops the tracker worker
func (w *TrackerWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	log.Println("Stopping tracker worker...")
	close(w.stopChan)
	w.running = false
	log.Println("Tracker worker stopped")
}

// run is the main worker loop
func (w *TrackerWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Run immediately on start
	w.runTrackingPass()

	for {
		select {
		case <-ticker.C:
			w.runTrackingPass()
		case <-w.stopChan:
			return
		}
	}
}

// runTrackingPass runs one tracking sweep followed by the status-budget
// monitor. Safe to call repeatedly; reminder marking is idempotent.
func (w *TrackerWorker) runTrackingPass() {
	startTime := time.Now()
	log.Println("Starting deadline tracking pass...")

	report, err := w.trackerService.Track("", true)
	if err != nil {
		log.Printf("Error running tracking pass: %v", err)
		return
	}

	duration := time.Since(startTime)
	log.Printf("Tracking pass completed in %v: %d tracked, %d overdue, %d approaching, %d actions",
		duration, report.TotalTracked, len(report.OverdueDeadlines),
		len(report.ApproachingDeadlines), len(report.ActionsRequired))

	for _, alert := range report.Alerts {
		if alert.Severity == "CRITICAL" {
			log.Printf("CRITICAL alert for complaint %s: %s", alert.ComplaintID, alert.Message)
		}
	}

	w.runMonitorPass()
}

// runMonitorPass sweeps status budgets and surfaces the monitor's findings.
func (w *TrackerWorker) runMonitorPass() *models.MonitoringReport {
	report, err := w.statusService.Monitor("", "", true)
	if err != nil {
		log.Printf("Error running status monitor pass: %v", err)
		return nil
	}

	if len(report.OverdueComplaints) > 0 || len(report.AtRiskComplaints) > 0 {
		log.Printf("Status monitor: %d overdue, %d at risk, %d underperforming departments",
			len(report.OverdueComplaints), len(report.AtRiskComplaints),
			len(report.UnderperformingDepartments))
	}
	for _, alert := range report.Alerts {
		if alert.Severity == models.SeverityHigh || alert.Severity == models.SeverityCritical {
			log.Printf("%s alert for complaint %s: %s", alert.Severity, alert.ComplaintID, alert.Message)
		}
	}
	return report
}
