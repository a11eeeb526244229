package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Backend   BackendConfig
	Reporting ReportingConfig
	Sheets    SheetsConfig
	MongoDB   MongoDBConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port          string
	Env           string
	SessionSecret string
}

// BackendConfig describes the dealership REST backend the pages are built from.
type BackendConfig struct {
	BaseURL       string
	Timeout       time.Duration
	SessionCookie string
}

// ReportingConfig holds snapshot scheduler settings. The scheduler logs in
// with the given manager account.
type ReportingConfig struct {
	CronSchedule string
	Username     string
	Password     string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// MongoDBConfig holds settings for MongoDB.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether snapshots can be written to a spreadsheet.
func (s SheetsConfig) Enabled() bool {
	return s.CredentialsPath != "" && s.SpreadsheetID != ""
}

// Enabled reports whether a MongoDB connection string was provided.
func (m MongoDBConfig) Enabled() bool {
	return m.URI != ""
}

// Enabled reports whether the snapshot job has credentials to log in with.
func (r ReportingConfig) Enabled() bool {
	return r.Username != "" && r.Password != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is set directly.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("BACKEND_TIMEOUT", "15s"))
	if err != nil {
		return nil, fmt.Errorf("parse BACKEND_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getenvWithDefault("APP_PORT", "8080"),
			Env:           getenvWithDefault("APP_ENV", "production"),
			SessionSecret: os.Getenv("SESSION_SECRET"),
		},
		Backend: BackendConfig{
			BaseURL:       strings.TrimSuffix(getenvWithDefault("BACKEND_URL", "http://127.0.0.1:5000"), "/"),
			Timeout:       timeout,
			SessionCookie: getenvWithDefault("BACKEND_SESSION_COOKIE", "session"),
		},
		Reporting: ReportingConfig{
			CronSchedule: getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Username:     os.Getenv("REPORT_USERNAME"),
			Password:     os.Getenv("REPORT_PASSWORD"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "autobase"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Server.SessionSecret == "" {
		if c.Server.Env == "production" {
			return errors.New("SESSION_SECRET must be provided in production")
		}
		c.Server.SessionSecret = "autobase-dev-secret-change-me"
	}

	if c.Backend.BaseURL == "" {
		return errors.New("BACKEND_URL must not be empty")
	}
	if !strings.HasPrefix(c.Backend.BaseURL, "http://") && !strings.HasPrefix(c.Backend.BaseURL, "https://") {
		return fmt.Errorf("BACKEND_URL must be an http(s) URL, got %q", c.Backend.BaseURL)
	}

	if c.Backend.Timeout <= 0 {
		return errors.New("BACKEND_TIMEOUT must be positive")
	}

	if c.Backend.SessionCookie == "" {
		return errors.New("BACKEND_SESSION_COOKIE must not be empty")
	}

	if c.Reporting.Enabled() && c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided when REPORT_USERNAME is set")
	}

	if (c.Sheets.CredentialsPath == "") != (c.Sheets.SpreadsheetID == "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and GOOGLE_SHEET_DATABASE_ID must be set together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
