// Package notify delivers domain events to parties of a booking. Delivery is
// at-most-once and never blocks or fails the caller.
package notify

import "context"

const (
	EventWorkflowOpened       = "workflow.opened"
	EventStepApproved         = "workflow.step_approved"
	EventBookingConfirmed     = "booking.confirmed"
	EventBookingRejected      = "booking.rejected"
	EventBookingCancelled     = "booking.cancelled"
	EventAgentAssigned        = "agent.assigned"
	EventCounterOfferCreated  = "agent.counter_offer_created"
	EventCounterOfferAccepted = "agent.counter_offer_accepted"
	EventCounterOfferDeclined = "agent.counter_offer_declined"
	EventManualIntervention   = "agent.manual_intervention_required"
	EventAgentReleased        = "agent.released"
	EventProfessionalBooked   = "production.professional_booked"
	EventTeamAssembled        = "production.team_assembled"
)

// OperationsRecipient addresses the operator queue rather than a person.
const OperationsRecipient = "operations"

type Sink interface {
	Notify(ctx context.Context, recipientID, event string, payload map[string]any)
}
