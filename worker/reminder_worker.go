package worker

import (
	"log"
	"sync"
	"time"

	"jansunwai/service"
)

// defaultBatchSize caps how many pending reminders one pass processes.
const defaultBatchSize = 50

// ReminderWorker is a background worker that periodically promotes and
// processes the reminder queue.
type ReminderWorker struct {
	reminderService *service.ReminderService
	interval        time.Duration
	batchSize       int
	stopChan        chan struct{}
	mu              sync.Mutex
	running         bool
}

// NewReminderWorker creates a new reminder worker
func NewReminderWorker(reminderService *service.ReminderService, interval time.Duration) *ReminderWorker {
	return &ReminderWorker{
		reminderService: reminderService,
		interval:        interval,
		batchSize:       defaultBatchSize,
		stopChan:        make(chan struct{}),
		running:         false,
	}
}

// Start starts the reminder worker in a separate goroutine
func (w *ReminderWorker) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		log.Println("Reminder worker is already running")
		return
	}

	w.running = true
	log.Printf("Reminder worker started (interval: %v)", w.interval)

	go w.run()
}

// Stop stops the reminder worker
func (w *ReminderWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	log.Println("Stopping reminder worker...")
	close(w.stopChan)
	w.running = false
	log.Println("Reminder worker stopped")
}

// run is the main worker loop
func (w *ReminderWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Process immediately on start
	w.processReminders()

	for {
		select {
		case <-ticker.C:
			w.processReminders()
		case <-w.stopChan:
			return
		}
	}
}

// processReminders processes one batch of pending reminders
func (w *ReminderWorker) processReminders() {
	startTime := time.Now()

	result, err := w.reminderService.ProcessPending(w.batchSize)
	if err != nil {
		log.Printf("Error processing reminders: %v", err)
		return
	}

	if result.ProcessedCount == 0 && result.FailedCount == 0 && result.RetryCount == 0 {
		return
	}

	duration := time.Since(startTime)
	log.Printf("Reminder processing completed in %v: %d processed, %d retried, %d failed, %d still pending",
		duration, result.ProcessedCount, result.RetryCount, result.FailedCount, result.RemainingPending)
}
