package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Calendar CalendarConfig
	Worker   WorkerConfig
	Auth     AuthConfig
	Journal  JournalConfig
}

// DatabaseConfig holds database configuration. An empty Host selects the
// in-memory store.
type DatabaseConfig struct {
	DatabaseURL string // DATABASE_URL - takes precedence over individual vars
	Host        string
	Port        string
	User        string
	Password    string
	DBName      string
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Host string
}

// CalendarConfig holds business calendar configuration
type CalendarConfig struct {
	StartHour     int      // CALENDAR_START_HOUR: start of the working day
	EndHour       int      // CALENDAR_END_HOUR: end of the working day
	ExtraHolidays []string // CALENDAR_EXTRA_HOLIDAYS: comma-separated YYYY-MM-DD
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	TrackerIntervalSeconds  int // TRACKER_WORKER_INTERVAL_SECONDS (default 900)
	ReminderIntervalSeconds int // REMINDER_WORKER_INTERVAL_SECONDS (default 300)
}

// AuthConfig holds officer authentication configuration
type AuthConfig struct {
	JWTSecret      string // JWT_SECRET
	TokenTTLHours  int    // JWT_TTL_HOURS (default 8)
}

// JournalConfig holds audit journal configuration
type JournalConfig struct {
	Dir string // JOURNAL_DIR: directory for append-only JSON logs (empty = disabled)
}

// LoadConfig loads configuration from environment variables.
// Supports DATABASE_URL or individual DB_* variables; both absent means the
// in-memory store.
func LoadConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        os.Getenv("DB_HOST"),
			Port:        os.Getenv("DB_PORT"),
			User:        os.Getenv("DB_USER"),
			Password:    os.Getenv("DB_PASSWORD"),
			DBName:      os.Getenv("DB_NAME"),
		},
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("PORT", getEnv("SERVER_PORT", "8080")),
		},
		Calendar: CalendarConfig{
			StartHour:     getEnvInt("CALENDAR_START_HOUR", 9),
			EndHour:       getEnvInt("CALENDAR_END_HOUR", 18),
			ExtraHolidays: getEnvList("CALENDAR_EXTRA_HOLIDAYS"),
		},
		Worker: WorkerConfig{
			TrackerIntervalSeconds:  getEnvInt("TRACKER_WORKER_INTERVAL_SECONDS", 900),
			ReminderIntervalSeconds: getEnvInt("REMINDER_WORKER_INTERVAL_SECONDS", 300),
		},
		Auth: AuthConfig{
			JWTSecret:     getEnv("JWT_SECRET", ""),
			TokenTTLHours: getEnvInt("JWT_TTL_HOURS", 8),
		},
		Journal: JournalConfig{
			Dir: os.Getenv("JOURNAL_DIR"),
		},
	}
}

// UseDatabase reports whether a MySQL store is configured.
func (c *Config) UseDatabase() bool {
	return c.Database.DatabaseURL != "" || c.Database.Host != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable or returns a default value
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvList gets a comma-separated environment variable as a slice
func getEnvList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
