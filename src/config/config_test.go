package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("APP_URI", "9999")
	t.Setenv("SMTP_PORT", "2525")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 21, cfg.Server.BodyLimitMB)
	assert.Equal(t, "formgen.db", cfg.Storage.SQLitePath)
	assert.Equal(t, 60*time.Second, cfg.Gemini.Timeout)
	assert.Equal(t, 2525, cfg.SMTP.Port)
	assert.Equal(t, 10, cfg.Limits.GeneratePerMinute)
	assert.Equal(t, "Asia/Bangkok", cfg.Location().String())
}

func TestLoadRejectsIncompleteStorage(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	_, err := Load()
	assert.ErrorContains(t, err, "DATABASE_URL")

	t.Setenv("STORAGE_DRIVER", "cassandra")
	_, err = Load()
	assert.ErrorContains(t, err, "unknown storage driver")
}

func TestLocationFallsBackToUTC(t *testing.T) {
	cfg := &Config{Analytics: AnalyticsConfig{TimeZone: "Mars/Olympus"}}
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestSMTPMissing(t *testing.T) {
	assert.Equal(t,
		[]string{"SMTP_HOST", "SMTP_PORT", "SMTP_USER", "SMTP_PASS", "SMTP_FROM", "CONTACT_INBOX"},
		SMTPConfig{}.Missing())
	assert.Empty(t, SMTPConfig{Host: "h", Port: 1, User: "u", Pass: "p", From: "f", ContactInbox: "i"}.Missing())
}
