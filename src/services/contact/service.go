// Package contact accepts messages from the marketing contact page.
package contact

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Backend-FormGen/src/jobs"
	"Backend-FormGen/src/models"
	"Backend-FormGen/src/services/email"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Delivery บอกว่าข้อความถูกส่งต่อไปทางไหน
type Delivery string

const (
	DeliveryQueued Delivery = "queued"
	DeliverySent   Delivery = "sent"
	DeliveryLogged Delivery = "logged"
)

var ErrEmptyMessage = errors.New("message is empty")

// Enqueuer is the part of *asynq.Client used here.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Service struct {
	queue  Enqueuer
	sender email.MailSender
	inbox  string
	log    *zap.Logger
	now    func() time.Time
}

// NewService builds the contact service. queue and sender may be nil: without a queue the
// message is mailed inline, without either it is only logged.
func NewService(queue Enqueuer, sender email.MailSender, inbox string, log *zap.Logger) *Service {
	return &Service{queue: queue, sender: sender, inbox: inbox, log: log, now: time.Now}
}

func (s *Service) Send(ctx context.Context, msg models.ContactMessage) (Delivery, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	if strings.TrimSpace(msg.Message) == "" {
		return "", ErrEmptyMessage
	}
	msg.ReceivedAt = s.now().UTC()

	if s.queue != nil {
		task, err := jobs.NewContactDeliverTask(msg)
		if err != nil {
			return "", err
		}
		if _, err := s.queue.EnqueueContext(ctx, task); err != nil {
			return "", fmt.Errorf("enqueue contact message: %w", err)
		}
		return DeliveryQueued, nil
	}

	if s.sender != nil && s.inbox != "" {
		subject, body, err := email.RenderContactEmail(msg)
		if err != nil {
			return "", err
		}
		if err := s.sender.Send(s.inbox, subject, body, msg.Email); err != nil {
			return "", fmt.Errorf("send contact message: %w", err)
		}
		return DeliverySent, nil
	}

	s.log.Warn("⚠️ No queue or SMTP configured, contact message only logged",
		zap.String("from", msg.Email), zap.String("subject", msg.Subject))
	return DeliveryLogged, nil
}
