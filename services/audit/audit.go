package audit

import (
	"context"

	auditRepo "mentorhub/database/repository/audit"
	"mentorhub/models"

	"go.uber.org/zap"
)

// TaskEnqueuer hands audit records to the async queue.
type TaskEnqueuer interface {
	EnqueueAudit(record models.AuditRecord) error
}

// AsyncSink enqueues audit records for background persistence. Recording is
// fire-and-forget: a queue failure is logged, never surfaced to the caller.
type AsyncSink struct {
	Queue  TaskEnqueuer
	Logger *zap.Logger
}

func (s *AsyncSink) Record(ctx context.Context, record models.AuditRecord) {
	if err := s.Queue.EnqueueAudit(record); err != nil {
		s.Logger.Warn("failed to enqueue audit record",
			zap.String("action", record.Action),
			zap.String("resource", record.Resource),
			zap.Error(err))
	}
}

// Writer persists audit records; the worker side of the async sink.
type Writer struct {
	Repo   auditRepo.AuditRepository
	Logger *zap.Logger
}

func (w *Writer) Write(ctx context.Context, record models.AuditRecord) error {
	if err := w.Repo.Insert(ctx, &record); err != nil {
		w.Logger.Error("failed to persist audit record",
			zap.String("action", record.Action), zap.Error(err))
		return err
	}
	return nil
}
