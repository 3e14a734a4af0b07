package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"Backend-FormGen/src/services/email"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// HandleContactDeliver sends a queued contact message to inbox.
func HandleContactDeliver(sender email.MailSender, inbox string, log *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var p ContactDeliverPayload
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			log.Error("❌ Payload decode error", zap.Error(err))
			// payload เสีย retry ไปก็ไม่หาย
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		subject, body, err := email.RenderContactEmail(p.Message)
		if err != nil {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		if err := sender.Send(inbox, subject, body, p.Message.Email); err != nil {
			log.Warn("⚠️ send contact mail failed", zap.String("from", p.Message.Email), zap.Error(err))
			return err
		}

		log.Info("✅ Contact message delivered", zap.String("from", p.Message.Email))
		return nil
	}
}

// NewServeMux ลงทะเบียน handler ทั้งหมดของ worker
func NewServeMux(sender email.MailSender, inbox string, log *zap.Logger) *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeContactDeliver, HandleContactDeliver(sender, inbox, log))
	return mux
}
