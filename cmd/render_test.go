package main

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
		ok    bool
	}{
		{"rfc3339", "2026-10-01T12:00:00Z", time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC), true},
		{"date and time", "2026-10-01 09:30", time.Date(2026, 10, 1, 9, 30, 0, 0, time.Local), true},
		{"date only lands end of day", "2026-10-01", time.Date(2026, 10, 1, 23, 59, 0, 0, time.Local), true},
		{"garbage", "next tuesday", time.Time{}, false},
		{"empty", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDue(tt.input)
			if !tt.ok {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "deadline")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		_, err := parseID(bad, "deadline")
		assert.Error(t, err, bad)
	}
}
