package tasks

import (
	"fmt"
	"time"

	"mentorhub/config"
	"mentorhub/models"

	"github.com/hibiken/asynq"
)

// Enqueuer wraps the asynq client for the fire-and-forget producers.
type Enqueuer struct {
	Client *asynq.Client
}

// NewEnqueuer builds an asynq client against the task-queue redis database.
func NewEnqueuer() *Enqueuer {
	return &Enqueuer{
		Client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     config.AppConfig.RedisAddr,
			Password: config.AppConfig.RedisPassword,
			DB:       config.AppConfig.RedisTaskQueueDB,
		}),
	}
}

func (e *Enqueuer) EnqueueAudit(record models.AuditRecord) error {
	task, opts, err := NewAuditTask(record)
	if err != nil {
		return fmt.Errorf("failed to build audit task: %w", err)
	}
	_, err = e.Client.Enqueue(task, opts...)
	return err
}

func (e *Enqueuer) EnqueuePush(payload models.PushPayload) error {
	task, opts, err := NewPushTask(payload)
	if err != nil {
		return fmt.Errorf("failed to build push task: %w", err)
	}
	_, err = e.Client.Enqueue(task, opts...)
	return err
}

func (e *Enqueuer) EnqueuePayoutFinalize(payoutID string, delay time.Duration) error {
	task, opts, err := NewPayoutFinalizeTask(payoutID, delay)
	if err != nil {
		return fmt.Errorf("failed to build payout finalize task: %w", err)
	}
	_, err = e.Client.Enqueue(task, opts...)
	return err
}
