package jobs

import (
	"encoding/json"

	"Backend-FormGen/src/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeContactDeliver = "contact:deliver"

// ContactDeliverPayload carries one contact message to the worker.
type ContactDeliverPayload struct {
	Message models.ContactMessage `json:"message"`
}

func NewContactDeliverTask(msg models.ContactMessage) (*asynq.Task, error) {
	payload, err := json.Marshal(ContactDeliverPayload{Message: msg})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeContactDeliver, payload,
		asynq.MaxRetry(5),
		asynq.TaskID("contact-"+uuid.NewString()),
	), nil
}
