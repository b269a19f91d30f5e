package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"

	"jansunwai/calendar"
	"jansunwai/config"
	"jansunwai/journal"
	"jansunwai/notification"
	"jansunwai/repository"
	"jansunwai/routes"
	"jansunwai/schema"
	"jansunwai/service"
	"jansunwai/utils"
	"jansunwai/worker"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	// Load configuration
	cfg := config.LoadConfig()

	// Business calendar with configured hours and extra holidays
	holidays := append([]string(nil), calendar.DefaultHolidays...)
	for _, h := range cfg.Calendar.ExtraHolidays {
		if _, err := time.Parse("2006-01-02", h); err != nil {
			log.Printf("Warning: ignoring malformed holiday %q", h)
			continue
		}
		holidays = append(holidays, h)
	}
	cal := calendar.New(holidays)
	cal.StartHour = cfg.Calendar.StartHour
	cal.EndHour = cfg.Calendar.EndHour

	// Stores: MySQL when configured, in-memory otherwise
	var complaintStore repository.ComplaintStore
	var reminderStore repository.ReminderStore
	if cfg.UseDatabase() {
		dsn := cfg.Database.DatabaseURL
		if dsn == "" {
			// UTC for consistent timestamps
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
				cfg.Database.User,
				cfg.Database.Password,
				cfg.Database.Host,
				cfg.Database.Port,
				cfg.Database.DBName,
			)
		}
		db, err := sql.Open("mysql", dsn)
		if err != nil {
			log.Fatalf("Failed to open database connection: %v", err)
		}
		defer db.Close()

		if err := db.Ping(); err != nil {
			log.Fatalf("Failed to ping database: %v", err)
		}
		log.Println("Database connection established")

		schema.InitializeDatabase(db)
		complaintStore = repository.NewMySQLComplaintStore(db)
		reminderStore = repository.NewMySQLReminderStore(db)
	} else {
		log.Println("No database configured, using in-memory stores")
		complaintStore = repository.NewMemoryComplaintStore()
		reminderStore = repository.NewMemoryReminderStore()
	}

	// Optional append-only journals
	var deadlineJournal, statusJournal, alertJournal, reminderJournal *journal.Journal
	if cfg.Journal.Dir != "" {
		if err := os.MkdirAll(cfg.Journal.Dir, 0o755); err != nil {
			log.Fatalf("Failed to create journal directory: %v", err)
		}
		deadlineJournal = journal.New(filepath.Join(cfg.Journal.Dir, "deadline_calculations.json"), 1000)
		statusJournal = journal.New(filepath.Join(cfg.Journal.Dir, "status_changes.json"), 5000)
		alertJournal = journal.New(filepath.Join(cfg.Journal.Dir, "tracking_alerts.json"), 2000)
		reminderJournal = journal.New(filepath.Join(cfg.Journal.Dir, "reminder_batches.json"), 1000)
		log.Printf("Journals enabled under %s", cfg.Journal.Dir)
	}

	// Notification transport (simulated delivery)
	emailSender := notification.NewEmailSender()
	smsSender := notification.NewSMSSender()
	dispatcher := notification.NewLogDispatcher(emailSender, smsSender)

	// Initialize services
	departmentService := service.NewDepartmentService()
	seedOfficerPasswords(departmentService)
	deadlineService := service.NewDeadlineService(cal, deadlineJournal)
	escalationService := service.NewEscalationService()
	statusService := service.NewStatusService(complaintStore, statusJournal, dispatcher)
	trackerService := service.NewTrackerService(complaintStore, escalationService, alertJournal)
	reminderService := service.NewReminderService(reminderStore, emailSender, smsSender, reminderJournal)
	complaintService := service.NewComplaintService(complaintStore, deadlineService, departmentService, reminderService)

	// Background workers
	trackerWorker := worker.NewTrackerWorker(trackerService, statusService, time.Duration(cfg.Worker.TrackerIntervalSeconds)*time.Second)
	trackerWorker.Start()
	reminderWorker := worker.NewReminderWorker(reminderService, time.Duration(cfg.Worker.ReminderIntervalSeconds)*time.Second)
	reminderWorker.Start()

	// Setup routes
	router := routes.SetupRoutes(
		cfg,
		complaintService,
		statusService,
		deadlineService,
		trackerService,
		reminderService,
		departmentService,
	)

	// Add CORS middleware
	corsHandler := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", "*")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")

			if r.Method == "OPTIONS" {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
	handler := corsHandler(router)

	// Start server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	log.Printf("Server starting on %s", addr)
	log.Fatal(http.ListenAndServe(addr, handler))
}

// seedOfficerPasswords enables officer login per department from
// OFFICER_PASSWORD_<CODE> environment variables, e.g. OFFICER_PASSWORD_DJB.
func seedOfficerPasswords(departments *service.DepartmentService) {
	for _, code := range []string{"DERC", "DJB", "PWD", "MCD", "DHFW", "DCO"} {
		plain := os.Getenv("OFFICER_PASSWORD_" + code)
		if plain == "" {
			continue
		}
		hash, err := utils.HashOfficerPassword(plain)
		if err != nil {
			log.Fatalf("Failed to hash officer password for %s: %v", code, err)
		}
		departments.SetPasswordHash(code, hash)
		log.Printf("Officer login enabled for department %s", code)
	}
}
