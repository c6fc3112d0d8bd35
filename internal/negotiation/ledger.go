// Package negotiation holds the counter-offer state transitions of an agent
// assignment. It has no side effects beyond mutating the assignment passed
// in; persisting and notifying are the caller's job.
package negotiation

import (
	"errors"
	"time"

	"backstage/pkg/model"
)

var (
	ErrNotNegotiable = errors.New("assignment does not accept a counter offer")

	ErrNoOpenOffer = errors.New("assignment has no open counter offer")

	ErrOfferExpired = errors.New("counter offer has expired")

	ErrInvalidOffer = errors.New("invalid counter offer")

	ErrInvalidResponse = errors.New("response must be accepted or declined")

	ErrNotWithdrawable = errors.New("assignment is not open")
)

// Propose attaches offer to a and moves it to counter_offered. Only an
// assigned agent may propose, and only once.
func Propose(a *model.AgentAssignment, offer model.CounterOffer, now time.Time) error {
	if a.Status != model.AssignmentAssigned || a.CounterOffer != nil {
		return ErrNotNegotiable
	}
	if offer.ProposedPrice <= 0 || !offer.ValidUntil.After(now) {
		return ErrInvalidOffer
	}
	if offer.OriginalPrice == 0 {
		offer.OriginalPrice = a.TalentFee
	}

	offer.CreatedAt = now
	offer.Response = ""
	a.CounterOffer = &offer
	a.Status = model.AssignmentCounterOffered
	a.UpdatedAt = now
	return nil
}

// Respond finalizes the open offer. Accepting confirms the assignment at the
// proposed price; declining cancels it. An expired offer may still be
// declined but not accepted.
func Respond(a *model.AgentAssignment, response model.OfferResponse, responderID string, now time.Time) error {
	if !response.IsValid() {
		return ErrInvalidResponse
	}
	if a.Status != model.AssignmentCounterOffered || a.CounterOffer == nil || a.CounterOffer.Response != "" {
		return ErrNoOpenOffer
	}
	if response == model.OfferAccepted && now.After(a.CounterOffer.ValidUntil) {
		return ErrOfferExpired
	}

	a.CounterOffer.Response = response
	switch response {
	case model.OfferAccepted:
		a.Status = model.AssignmentConfirmed
		a.TalentFee = a.CounterOffer.ProposedPrice
	case model.OfferDeclined:
		a.Status = model.AssignmentCancelled
	}
	a.RespondedBy = responderID
	a.RespondedAt = &now
	a.UpdatedAt = now
	return nil
}

// Withdraw cancels an assignment whose booking closed before the agent was
// confirmed. An open counter offer is left unanswered.
func Withdraw(a *model.AgentAssignment, now time.Time) error {
	if a.Status != model.AssignmentAssigned && a.Status != model.AssignmentCounterOffered {
		return ErrNotWithdrawable
	}
	a.Status = model.AssignmentCancelled
	a.UpdatedAt = now
	return nil
}
