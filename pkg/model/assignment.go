package model

import "time"

type AssignmentStatus string

const (
	AssignmentPending        AssignmentStatus = "pending"
	AssignmentAssigned       AssignmentStatus = "assigned"
	AssignmentCounterOffered AssignmentStatus = "counter_offered"
	AssignmentConfirmed      AssignmentStatus = "confirmed"
	AssignmentCancelled      AssignmentStatus = "cancelled"
)

func (s AssignmentStatus) IsTerminal() bool {
	return s == AssignmentConfirmed || s == AssignmentCancelled
}

type OfferResponse string

const (
	OfferAccepted OfferResponse = "accepted"
	OfferDeclined OfferResponse = "declined"
)

func (r OfferResponse) IsValid() bool {
	return r == OfferAccepted || r == OfferDeclined
}

// AgentAssignment links a booking to the agent representing its talent.
type AgentAssignment struct {
	ID              string           `json:"id" bson:"_id"`
	BookingID       string           `json:"booking_id" bson:"booking_id"`
	AgentID         string           `json:"agent_id" bson:"agent_id"`
	TalentID        string           `json:"talent_id" bson:"talent_id"`
	Status          AssignmentStatus `json:"status" bson:"status"`
	CommissionRate  float64          `json:"commission_rate" bson:"commission_rate"`
	TalentFee       float64          `json:"talent_fee" bson:"talent_fee"`
	SystemGenerated bool             `json:"system_generated" bson:"system_generated"`
	CounterOffer    *CounterOffer    `json:"counter_offer,omitempty" bson:"counter_offer,omitempty"`
	RespondedBy     string           `json:"responded_by,omitempty" bson:"responded_by,omitempty"`
	RespondedAt     *time.Time       `json:"responded_at,omitempty" bson:"responded_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time        `json:"updated_at" bson:"updated_at"`
}

// CounterOffer is immutable once attached; only Response is filled in, once.
type CounterOffer struct {
	ProposedPrice float64       `json:"proposed_price" bson:"proposed_price" validate:"gt=0"`
	OriginalPrice float64       `json:"original_price" bson:"original_price" validate:"gte=0"`
	Terms         string        `json:"terms,omitempty" bson:"terms,omitempty" validate:"omitempty,max=2000"`
	ValidUntil    time.Time     `json:"valid_until" bson:"valid_until" validate:"required"`
	Reason        string        `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=500"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	Response      OfferResponse `json:"response,omitempty" bson:"response,omitempty"`
}

type AgentMetrics struct {
	AgentID              string  `json:"agent_id"`
	TotalAssignments     int     `json:"total_assignments"`
	ConfirmedAssignments int     `json:"confirmed_assignments"`
	PendingAssignments   int     `json:"pending_assignments"`
	SuccessRate          float64 `json:"success_rate"`
	CommissionEarned     float64 `json:"commission_earned"`
}
