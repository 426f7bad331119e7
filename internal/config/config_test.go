package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DUETRACK_API_URL", "")
	t.Setenv("DUETRACK_HTTP_TIMEOUT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, defaultBaseURL, cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DUETRACK_API_URL", "https://api.example.com/v1")
	t.Setenv("DUETRACK_HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com/v1", cfg.API.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_BadTimeout(t *testing.T) {
	t.Setenv("DUETRACK_HTTP_TIMEOUT", "not-a-duration")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DUETRACK_HTTP_TIMEOUT")
}

func TestRequireCalDAV(t *testing.T) {
	cfg := &Config{}
	require.Error(t, cfg.RequireCalDAV())

	cfg.CalDAV = CalDAVConfig{
		Endpoint: "https://caldav.example.com/",
		Username: "me",
		Password: "pw",
		Calendar: "Deadlines",
	}
	assert.NoError(t, cfg.RequireCalDAV())

	cfg.CalDAV.Password = ""
	err := cfg.RequireCalDAV()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CALDAV_PASSWORD")
}
