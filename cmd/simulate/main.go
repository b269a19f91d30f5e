// Command simulate runs the complaint pipeline end to end against the
// in-memory stores: files sample complaints, advances statuses, runs a
// tracking pass and processes the reminder queue, printing each stage as JSON.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"jansunwai/calendar"
	"jansunwai/models"
	"jansunwai/notification"
	"jansunwai/repository"
	"jansunwai/service"
)

func main() {
	log.SetOutput(os.Stderr)

	complaintStore := repository.NewMemoryComplaintStore()
	reminderStore := repository.NewMemoryReminderStore()
	emailSender := notification.NewEmailSender()
	smsSender := notification.NewSMSSender()
	dispatcher := notification.NewLogDispatcher(emailSender, smsSender)

	cal := calendar.New(nil)
	departments := service.NewDepartmentService()
	deadlines := service.NewDeadlineService(cal, nil)
	escalation := service.NewEscalationService()
	statuses := service.NewStatusService(complaintStore, nil, dispatcher)
	tracker := service.NewTrackerService(complaintStore, escalation, nil)
	reminders := service.NewReminderService(reminderStore, emailSender, smsSender, nil)
	complaints := service.NewComplaintService(complaintStore, deadlines, departments, reminders)

	samples := []models.CreateComplaintRequest{
		{
			Description: "Water pipeline burst flooding the main market road, emergency situation",
			Category:    models.CategoryWater,
			Urgency:     models.UrgencyCritical,
		},
		{
			Description: "Street light not working near the school crossing, dangerous for children",
			Category:    models.CategoryElectricity,
			Urgency:     models.UrgencyHigh,
		},
		{
			Description: "Potholes on the service lane after the rains",
			Category:    models.CategoryRoad,
			Urgency:     models.UrgencyMedium,
		},
		{
			Description: "Garbage not collected for three days in sector 12",
			Category:    models.CategorySanitation,
			Urgency:     models.UrgencyLow,
		},
	}

	var ids []string
	for _, req := range samples {
		r := req
		resp, err := complaints.File(&r)
		if err != nil {
			log.Fatalf("filing failed: %v", err)
		}
		ids = append(ids, resp.ComplaintID)
		printJSON("filed", resp)
	}

	// Walk the first complaint through the lifecycle
	for _, next := range []models.Status{models.StatusOrange, models.StatusBlue, models.StatusGreen, models.StatusBlack} {
		result, err := statuses.UpdateStatus(ids[0], next, "simulation step", nil)
		if err != nil {
			log.Fatalf("status update failed: %v", err)
		}
		printJSON("status", result)
	}

	// An illegal jump is rejected without touching the record
	if _, err := statuses.UpdateStatus(ids[1], models.StatusBlack, "attempted shortcut", nil); err != nil {
		fmt.Fprintf(os.Stderr, "rejected as expected: %v\n", err)
	}

	// Escalation verdicts
	for _, id := range ids {
		verdict, err := tracker.CheckEscalation(id)
		if err != nil {
			log.Fatalf("escalation check failed: %v", err)
		}
		printJSON("escalation", verdict)
	}

	// One tracking pass over everything
	report, err := tracker.Track("", true)
	if err != nil {
		log.Fatalf("tracking failed: %v", err)
	}
	printJSON("tracking", report)

	// Drain whatever reminders are already due
	batch, err := reminders.ProcessPending(50)
	if err != nil {
		log.Fatalf("reminder processing failed: %v", err)
	}
	printJSON("reminders", batch)

	stats, err := reminders.Statistics(7)
	if err != nil {
		log.Fatalf("statistics failed: %v", err)
	}
	printJSON("statistics", stats)

	monitor, err := statuses.Monitor("", "", true)
	if err != nil {
		log.Fatalf("monitoring failed: %v", err)
	}
	printJSON("monitor", monitor)
}

func printJSON(stage string, v interface{}) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("encoding %s output: %v", stage, err)
	}
	fmt.Printf("=== %s ===\n%s\n", stage, b)
}
