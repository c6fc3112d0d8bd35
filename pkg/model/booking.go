package model

import (
	"time"
)

type BookingStatus string

const (
	BookingPending     BookingStatus = "pending"
	BookingUnderReview BookingStatus = "under_review"
	BookingConfirmed   BookingStatus = "confirmed"
	BookingRejected    BookingStatus = "rejected"
	BookingCancelled   BookingStatus = "cancelled"
)

func (s BookingStatus) IsTerminal() bool {
	return s == BookingConfirmed || s == BookingRejected || s == BookingCancelled
}

// Booking is the aggregate root. Status and Workflow are written only by the
// approval engine; Production is written only by the production orchestrator.
type Booking struct {
	ID               string          `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	TalentID         string          `json:"talent_id" bson:"talent_id" validate:"required,mongodb"`
	BookerID         string          `json:"booker_id" bson:"booker_id" validate:"required,min=1,max=64"`
	EventTitle       string          `json:"event_title" bson:"event_title" validate:"required,min=2,max=200"`
	Venue            string          `json:"venue" bson:"venue" validate:"omitempty,max=200"`
	Region           string          `json:"region" bson:"region" validate:"omitempty,max=100"`
	EventStart       time.Time       `json:"event_start" bson:"event_start" validate:"required"`
	EventEnd         time.Time       `json:"event_end" bson:"event_end" validate:"required,gtfield=EventStart"`
	TalentFee        float64         `json:"talent_fee" bson:"talent_fee" validate:"gte=0"`
	Status           BookingStatus   `json:"status" bson:"status"`
	TechnicalRider   *TechnicalRider `json:"technical_rider,omitempty" bson:"technical_rider,omitempty"`
	Workflow         *WorkflowState  `json:"workflow,omitempty" bson:"workflow,omitempty"`
	Production       *ProductionPlan `json:"production,omitempty" bson:"production,omitempty"`
	ConfirmedAgentID string          `json:"confirmed_agent_id,omitempty" bson:"confirmed_agent_id,omitempty"`
	CancelReason     string          `json:"cancel_reason,omitempty" bson:"cancel_reason,omitempty"`
	CreatedAt        time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at" bson:"updated_at"`
}

// TechnicalRider is the performer's requirement sheet. Submitting it opens
// the approval workflow.
type TechnicalRider struct {
	Performance map[string]string `json:"performance" bson:"performance" validate:"required,min=1"`
	Hospitality map[string]string `json:"hospitality,omitempty" bson:"hospitality,omitempty"`
	Technical   map[string]string `json:"technical" bson:"technical" validate:"required,min=1"`
	Contacts    []RiderContact    `json:"contacts,omitempty" bson:"contacts,omitempty" validate:"omitempty,max=20,dive"`
	Notes       string            `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=2000"`
	SubmittedBy string            `json:"submitted_by" bson:"submitted_by" validate:"required"`
	SubmittedAt time.Time         `json:"submitted_at" bson:"submitted_at"`
}

type RiderContact struct {
	Role  string `json:"role" bson:"role" validate:"required,max=50"`
	Name  string `json:"name" bson:"name" validate:"required,max=100"`
	Email string `json:"email,omitempty" bson:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
}

// BookingSummary is the triage row returned by the pending approvals listing.
type BookingSummary struct {
	BookingID    string        `json:"booking_id"`
	EventTitle   string        `json:"event_title"`
	EventStart   time.Time     `json:"event_start"`
	Status       BookingStatus `json:"status"`
	CurrentStage Stage         `json:"current_stage"`
	StageDueAt   *time.Time    `json:"stage_due_at,omitempty"`
	Expedited    bool          `json:"expedited"`
	TalentID     string        `json:"talent_id"`
	TalentName   string        `json:"talent_name,omitempty"`
	TalentEmail  string        `json:"talent_email,omitempty"`
	BookerID     string        `json:"booker_id"`
	BookerName   string        `json:"booker_name,omitempty"`
	BookerEmail  string        `json:"booker_email,omitempty"`
}

// Attachment records a generated document stored against a booking.
type Attachment struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty"`
	BookingID   string    `json:"booking_id" bson:"booking_id"`
	DocType     string    `json:"doc_type" bson:"doc_type"`
	Category    string    `json:"category" bson:"category"`
	FileName    string    `json:"file_name" bson:"file_name"`
	ContentType string    `json:"content_type" bson:"content_type"`
	Size        int       `json:"size" bson:"size"`
	URL         string    `json:"url" bson:"url"`
	Content     []byte    `json:"-" bson:"content"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
}
