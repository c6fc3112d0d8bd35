package notify

import (
	"context"
	"sync"

	"backstage/pkg/logger"
)

// LogSink records events in the service log only.
type LogSink struct {
	log *logger.Logger
}

func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Notify(ctx context.Context, recipientID, event string, payload map[string]any) {
	s.log.Info("Notification", "event", event, "recipient_id", recipientID, "payload", payload)
}

type Notification struct {
	RecipientID string
	Event       string
	Payload     map[string]any
}

// Recorder keeps every notification in memory. Safe for concurrent use.
type Recorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *Recorder) Notify(ctx context.Context, recipientID, event string, payload map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{RecipientID: recipientID, Event: event, Payload: payload})
}

func (r *Recorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.sent...)
}

// Count returns how many notifications of event were sent.
func (r *Recorder) Count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, s := range r.sent {
		if s.Event == event {
			n++
		}
	}
	return n
}
