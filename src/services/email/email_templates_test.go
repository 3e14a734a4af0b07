package email

import (
	"testing"
	"time"

	"Backend-FormGen/src/config"
	"Backend-FormGen/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderContactEmail(t *testing.T) {
	subject, body, err := RenderContactEmail(models.ContactMessage{
		Name:       "Ann ",
		Email:      "ann@example.com",
		Subject:    "Pricing",
		Message:    "Hi <team>\nHow much?",
		ReceivedAt: time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, "[Contact] Ann: Pricing", subject)
	assert.Contains(t, body, "mailto:ann@example.com")
	assert.Contains(t, body, "Hi &lt;team&gt;")
	assert.Contains(t, body, "02/04/2024 09:30 UTC")
}

func TestRenderContactEmailWithoutSubject(t *testing.T) {
	subject, body, err := RenderContactEmail(models.ContactMessage{Name: "Bo", Email: "b@x.io", Message: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "[Contact] Bo", subject)
	assert.NotContains(t, body, "<strong>Subject</strong>")
}

func TestNewSMTPSenderReportsMissing(t *testing.T) {
	_, err := NewSMTPSender(config.SMTPConfig{Host: "smtp.example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SMTP_USER")
	assert.NotContains(t, err.Error(), "SMTP_HOST")

	s, err := NewSMTPSender(config.SMTPConfig{Host: "h", Port: 587, User: "u", Pass: "p", From: "f@x.io"})
	require.NoError(t, err)
	assert.Equal(t, 587, s.Port)
}
