// Package config loads application settings from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application settings. It is constructed once at process
// start and passed explicitly into every component that needs it.
type Config struct {
	DBPath string

	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	FromEmail    string

	// DefaultAlertThreshold is the remaining-budget percentage used for
	// the global alert created at registration.
	DefaultAlertThreshold int

	// MetricsAddr enables the Prometheus listener when non-empty,
	// e.g. ":9090".
	MetricsAddr string

	LogLevel string
}

// DefaultCategories are seeded at startup if missing.
var DefaultCategories = []string{
	"Food",
	"Transport",
	"Entertainment",
	"Shopping",
	"Bills",
	"Healthcare",
	"Education",
	"Other",
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first if present; missing files are not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DBPath:                getEnv("DB_PATH", "./data/expenses.db"),
		SMTPHost:              getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:              getEnv("SMTP_PORT", "587"),
		SMTPUsername:          os.Getenv("SMTP_USERNAME"),
		SMTPPassword:          os.Getenv("SMTP_PASSWORD"),
		FromEmail:             os.Getenv("EMAIL_FROM"),
		MetricsAddr:           os.Getenv("METRICS_ADDR"),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		DefaultAlertThreshold: 10,
	}

	if raw := os.Getenv("DEFAULT_ALERT_THRESHOLD"); raw != "" {
		threshold, err := strconv.Atoi(raw)
		if err != nil || threshold < 0 || threshold > 100 {
			return nil, fmt.Errorf("invalid DEFAULT_ALERT_THRESHOLD %q", raw)
		}
		cfg.DefaultAlertThreshold = threshold
	}

	return cfg, nil
}

// EmailConfigured reports whether SMTP delivery can be attempted.
func (c *Config) EmailConfigured() bool {
	return c.SMTPUsername != "" && c.SMTPPassword != "" && c.FromEmail != ""
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
