// Package documents schedules and renders the attachments produced when a
// booking is approved. Rendering runs out of band on an asynq worker.
package documents

import (
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
)

const TypeRenderDocument = "document:render"

const (
	DocPerformanceContract = "performance_contract"
	DocTechnicalRider      = "technical_rider"
	DocBookingConfirmation = "booking_confirmation"
)

// ApprovalDocuments are generated for every approved booking.
var ApprovalDocuments = []string{DocPerformanceContract, DocTechnicalRider, DocBookingConfirmation}

func Category(docType string) (string, bool) {
	switch docType {
	case DocPerformanceContract:
		return "contract", true
	case DocTechnicalRider:
		return "technical", true
	case DocBookingConfirmation:
		return "confirmation", true
	}
	return "", false
}

type RenderPayload struct {
	BookingID string `json:"booking_id"`
	DocType   string `json:"doc_type"`
}

func NewRenderTask(p RenderPayload) (*asynq.Task, error) {
	b, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeRenderDocument, b), nil
}

func taskID(p RenderPayload) string {
	return fmt.Sprintf("%s:%s", p.BookingID, p.DocType)
}
