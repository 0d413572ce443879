package tasks

import (
	"encoding/json"
	"time"

	"mentorhub/models"

	"github.com/hibiken/asynq"
)

// Task type tags handled by the async worker.
const (
	TypeAuditRecord    = "audit:record"
	TypeNotifyPush     = "notify:push"
	TypePayoutFinalize = "payout:finalize"
)

func NewAuditTask(record models.AuditRecord) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.MaxRetry(3)}
	return asynq.NewTask(TypeAuditRecord, b), opts, nil
}

func NewPushTask(payload models.PushPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.MaxRetry(5)}
	return asynq.NewTask(TypeNotifyPush, b), opts, nil
}

func NewPayoutFinalizeTask(payoutID string, delay time.Duration) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(models.PayoutFinalizePayload{PayoutID: payoutID})
	if err != nil {
		return nil, nil, err
	}
	opts := []asynq.Option{asynq.ProcessIn(delay), asynq.MaxRetry(10)}
	return asynq.NewTask(TypePayoutFinalize, b), opts, nil
}
