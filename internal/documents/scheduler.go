package documents

import (
	"context"
	"errors"

	"backstage/pkg/logger"

	"github.com/hibiken/asynq"
)

type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Scheduler queues one render task per approval document. Task IDs are
// derived from booking and document type, so a retried approval does not
// render twice. Enqueue failures are logged and never surface to callers.
type Scheduler struct {
	enqueuer Enqueuer
	queue    string
	maxRetry int
	log      *logger.Logger
}

func NewScheduler(enqueuer Enqueuer, queue string, maxRetry int, log *logger.Logger) *Scheduler {
	return &Scheduler{
		enqueuer: enqueuer,
		queue:    queue,
		maxRetry: maxRetry,
		log:      log,
	}
}

// ScheduleAttachments returns how many tasks were newly queued.
func (s *Scheduler) ScheduleAttachments(ctx context.Context, bookingID string) int {
	queued := 0
	for _, docType := range ApprovalDocuments {
		payload := RenderPayload{BookingID: bookingID, DocType: docType}
		task, err := NewRenderTask(payload)
		if err != nil {
			s.log.Warn("Failed to build render task", "booking_id", bookingID, "doc_type", docType, "error", err)
			continue
		}

		_, err = s.enqueuer.EnqueueContext(ctx, task,
			asynq.Queue(s.queue),
			asynq.MaxRetry(s.maxRetry),
			asynq.TaskID(taskID(payload)),
		)
		switch {
		case err == nil:
			queued++
		case errors.Is(err, asynq.ErrTaskIDConflict), errors.Is(err, asynq.ErrDuplicateTask):
			s.log.Debug("Render task already queued", "booking_id", bookingID, "doc_type", docType)
		default:
			s.log.Warn("Failed to queue render task", "booking_id", bookingID, "doc_type", docType, "error", err)
		}
	}

	s.log.Info("Attachments scheduled", "booking_id", bookingID, "queued", queued)
	return queued
}
