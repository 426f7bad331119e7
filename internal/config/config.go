// Package config provides application configuration loading from environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8000/api"

// Config holds all client configuration.
type Config struct {
	API    APIConfig
	CalDAV CalDAVConfig
	// LogLevel is one of debug, info, warn, error.
	LogLevel string
}

// APIConfig contains settings for the deadline service API.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CalDAVConfig contains settings for publishing deadlines to a CalDAV server.
// Only required by the "calendar publish" command.
type CalDAVConfig struct {
	Endpoint string
	Username string
	Password string
	Calendar string
}

// Load reads configuration from environment variables.
// A .env file is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		API: APIConfig{
			BaseURL: getEnv("DUETRACK_API_URL", defaultBaseURL),
			Timeout: 30 * time.Second,
		},
		CalDAV: CalDAVConfig{
			Endpoint: os.Getenv("CALDAV_ENDPOINT"),
			Username: os.Getenv("CALDAV_USERNAME"),
			Password: os.Getenv("CALDAV_PASSWORD"),
			Calendar: os.Getenv("CALDAV_CALENDAR_NAME"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if raw := os.Getenv("DUETRACK_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DUETRACK_HTTP_TIMEOUT %q: %w", raw, err)
		}
		cfg.API.Timeout = d
	}

	return cfg, nil
}

// RequireCalDAV validates that all CalDAV settings are present.
func (c *Config) RequireCalDAV() error {
	required := map[string]string{
		"CALDAV_ENDPOINT":      c.CalDAV.Endpoint,
		"CALDAV_USERNAME":      c.CalDAV.Username,
		"CALDAV_PASSWORD":      c.CalDAV.Password,
		"CALDAV_CALENDAR_NAME": c.CalDAV.Calendar,
	}
	for key, value := range required {
		if value == "" {
			return fmt.Errorf("required environment variable %s is not set", key)
		}
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
