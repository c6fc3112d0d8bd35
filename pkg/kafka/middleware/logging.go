package kafka_middleware

import (
	"context"
	"time"

	"backstage/pkg/kafka"
	"backstage/pkg/logger"
)

// LoggingProducerMiddleware logs each publish with its outcome and latency.
func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			log.Warn("Kafka publish failed", append(attrs, "error", err, "error_type", kafka.ClassifyError(err).String())...)
			return err
		}
		log.Debug("Kafka message published", attrs...)
		return nil
	}
}
