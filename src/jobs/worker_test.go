package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"Backend-FormGen/src/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type sentMail struct {
	to, subject, html, replyTo string
}

type fakeSender struct {
	sent []sentMail
	err  error
}

func (f *fakeSender) Send(to, subject, html, replyTo string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{to, subject, html, replyTo})
	return nil
}

func contactMessage() models.ContactMessage {
	return models.ContactMessage{
		Name:       "Ann",
		Email:      "ann@example.com",
		Subject:    "Demo",
		Message:    "Can I get a demo?",
		ReceivedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestNewContactDeliverTask(t *testing.T) {
	task, err := NewContactDeliverTask(contactMessage())
	require.NoError(t, err)
	assert.Equal(t, TypeContactDeliver, task.Type())

	var p ContactDeliverPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	assert.Equal(t, "ann@example.com", p.Message.Email)
	assert.True(t, p.Message.ReceivedAt.Equal(contactMessage().ReceivedAt))
}

func TestHandleContactDeliver(t *testing.T) {
	sender := &fakeSender{}
	task, err := NewContactDeliverTask(contactMessage())
	require.NoError(t, err)

	err = HandleContactDeliver(sender, "inbox@formgen.dev", zap.NewNop())(context.Background(), task)
	require.NoError(t, err)

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "inbox@formgen.dev", sender.sent[0].to)
	assert.Equal(t, "ann@example.com", sender.sent[0].replyTo)
	assert.Equal(t, "[Contact] Ann: Demo", sender.sent[0].subject)
	assert.Contains(t, sender.sent[0].html, "Can I get a demo?")
}

func TestHandleContactDeliverSendFailureRetries(t *testing.T) {
	sender := &fakeSender{err: errors.New("smtp down")}
	task, err := NewContactDeliverTask(contactMessage())
	require.NoError(t, err)

	err = HandleContactDeliver(sender, "inbox@formgen.dev", zap.NewNop())(context.Background(), task)
	require.Error(t, err)
	assert.False(t, errors.Is(err, asynq.SkipRetry))
}

func TestHandleContactDeliverBadPayloadSkipsRetry(t *testing.T) {
	task := asynq.NewTask(TypeContactDeliver, []byte("{not json"))
	err := HandleContactDeliver(&fakeSender{}, "inbox@formgen.dev", zap.NewNop())(context.Background(), task)
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
