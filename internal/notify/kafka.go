package notify

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"backstage/pkg/kafka"
	"backstage/pkg/logger"
	"backstage/pkg/middleware"
)

type Publisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

// Envelope is the JSON value published for every event.
type Envelope struct {
	Event       string         `json:"event"`
	RecipientID string         `json:"recipient_id"`
	Payload     map[string]any `json:"payload,omitempty"`
	OccurredAt  time.Time      `json:"occurred_at"`
}

// KafkaSink publishes events keyed by recipient on a detached goroutine.
// Failures are logged and counted; nothing is retried inline.
type KafkaSink struct {
	publisher Publisher
	source    string
	timeout   time.Duration
	log       *logger.Logger
	wg        sync.WaitGroup
	failures  atomic.Int64
}

func NewKafkaSink(publisher Publisher, source string, timeout time.Duration, log *logger.Logger) *KafkaSink {
	return &KafkaSink{
		publisher: publisher,
		source:    source,
		timeout:   timeout,
		log:       log,
	}
}

func (s *KafkaSink) Notify(ctx context.Context, recipientID, event string, payload map[string]any) {
	now := time.Now().UTC()
	msg, err := kafka.NewMessage().
		WithKey(recipientID).
		WithValue(Envelope{Event: event, RecipientID: recipientID, Payload: payload, OccurredAt: now}).
		WithEventType(event).
		WithRecipient(recipientID).
		WithSource(s.source).
		WithCorrelationID(middleware.RequestID(ctx)).
		WithTimestamp(now).
		Build()
	if err != nil {
		s.failures.Add(1)
		s.log.Warn("Failed to build notification", "event", event, "recipient_id", recipientID, "error", err)
		return
	}

	detached := context.WithoutCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		pubCtx, cancel := context.WithTimeout(detached, s.timeout)
		defer cancel()

		if err := s.publisher.Publish(pubCtx, msg); err != nil {
			s.failures.Add(1)
			s.log.Warn("Notification delivery failed",
				"event", event,
				"recipient_id", recipientID,
				"event_id", msg.GetEventID(),
				"error", err,
			)
		}
	}()
}

// Failures returns the number of notifications dropped so far.
func (s *KafkaSink) Failures() int64 {
	return s.failures.Load()
}

// Wait blocks until in-flight publishes finish.
func (s *KafkaSink) Wait() {
	s.wg.Wait()
}
