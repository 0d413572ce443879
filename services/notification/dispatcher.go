package notification

import (
	"context"

	"mentorhub/models"

	"go.uber.org/zap"
)

// TaskEnqueuer hands push payloads to the async queue.
type TaskEnqueuer interface {
	EnqueuePush(payload models.PushPayload) error
}

// AsyncDispatcher queues pushes for background delivery so request handling
// never waits on FCM. Queue failures are logged and dropped.
type AsyncDispatcher struct {
	Queue  TaskEnqueuer
	Logger *zap.Logger
}

func (d *AsyncDispatcher) Notify(ctx context.Context, accountID string, payload models.PushPayload) {
	payload.ID = accountID
	if err := d.Queue.EnqueuePush(payload); err != nil {
		d.Logger.Warn("failed to enqueue push notification",
			zap.String("accountId", accountID),
			zap.String("title", payload.Title),
			zap.Error(err))
	}
}
