package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	documentsrepo "backstage/internal/documents/repository"
	workflowerrors "backstage/internal/workflow/errors"
	"backstage/pkg/logger"
	"backstage/pkg/model"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

type BookingReader interface {
	FindByID(ctx context.Context, id string) (*model.Booking, error)
}

// Processor handles render tasks: it loads the booking, renders the
// document and stores it as an attachment.
type Processor struct {
	bookings  BookingReader
	renderer  Renderer
	repo      documentsrepo.AttachmentRepository
	urlPrefix string
	log       *logger.Logger
}

func NewProcessor(bookings BookingReader, renderer Renderer, repo documentsrepo.AttachmentRepository, urlPrefix string, log *logger.Logger) *Processor {
	return &Processor{
		bookings:  bookings,
		renderer:  renderer,
		repo:      repo,
		urlPrefix: urlPrefix,
		log:       log,
	}
}

func (p *Processor) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeRenderDocument, p.ProcessTask)
}

// AttachmentURL is where the HTTP handler serves a stored attachment.
func AttachmentURL(prefix, bookingID, docType string) string {
	return fmt.Sprintf("%s/%s/attachments/%s", prefix, bookingID, docType)
}

// ProcessTask returns an error wrapping asynq.SkipRetry for tasks that can
// never succeed, so they are archived instead of retried.
func (p *Processor) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload RenderPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		p.log.Error("Invalid render task payload", "error", err)
		return fmt.Errorf("decode payload: %v: %w", err, asynq.SkipRetry)
	}

	category, ok := Category(payload.DocType)
	if !ok {
		p.log.Error("Unknown document type", "booking_id", payload.BookingID, "doc_type", payload.DocType)
		return fmt.Errorf("unknown document type %q: %w", payload.DocType, asynq.SkipRetry)
	}

	booking, err := p.bookings.FindByID(ctx, payload.BookingID)
	if err != nil {
		if errors.Is(err, workflowerrors.ErrNotFound) || errors.Is(err, workflowerrors.ErrInvalidID) {
			p.log.Error("Booking for render task not found", "booking_id", payload.BookingID)
			return fmt.Errorf("booking %s: %v: %w", payload.BookingID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("load booking: %w", err)
	}

	doc, err := p.renderer.Render(ctx, booking, payload.DocType)
	if err != nil {
		p.log.Warn("Render failed", "booking_id", booking.ID, "doc_type", payload.DocType, "error", err)
		return fmt.Errorf("render %s: %w", payload.DocType, err)
	}

	attachment := &model.Attachment{
		ID:          uuid.NewString(),
		BookingID:   booking.ID,
		DocType:     payload.DocType,
		Category:    category,
		FileName:    doc.FileName,
		ContentType: doc.ContentType,
		Size:        len(doc.Content),
		URL:         AttachmentURL(p.urlPrefix, booking.ID, payload.DocType),
		Content:     doc.Content,
		CreatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}
	if err := p.repo.Save(ctx, attachment); err != nil {
		return fmt.Errorf("save attachment: %w", err)
	}

	p.log.Info("Attachment rendered",
		"booking_id", booking.ID,
		"doc_type", payload.DocType,
		"size", attachment.Size,
	)
	return nil
}
