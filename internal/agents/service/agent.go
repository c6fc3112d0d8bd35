package service

import (
	"context"
	"errors"

	agentserrors "backstage/internal/agents/errors"
	"backstage/internal/agents/repository"
	"backstage/internal/agents/validator"
	directoryerrors "backstage/internal/directory/errors"
	"backstage/internal/matcher"
	"backstage/internal/negotiation"
	"backstage/internal/notify"
	"backstage/pkg/clock"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	apperrors "backstage/pkg/errors"
	"backstage/pkg/model"
	"backstage/pkg/validation"

	"github.com/google/uuid"
)

type AgentService interface {
	AutoAssign(ctx context.Context, bookingID string) (bool, error)
	CreateCounterOffer(ctx context.Context, bookingID, agentID string, offer *model.CounterOffer) (*model.AgentAssignment, error)
	RespondToCounterOffer(ctx context.Context, bookingID, agentID string, response model.OfferResponse, responderID string) (*model.AgentAssignment, error)
	GetAssignments(ctx context.Context, bookingID string) ([]*model.AgentAssignment, error)
	Metrics(ctx context.Context, agentID string) (*model.AgentMetrics, error)
	ReleaseBooking(ctx context.Context, bookingID string) error
}

type BookingReader interface {
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
}

// WorkflowCallback lets the approval engine record an accepted agent. The
// engine stays the only writer of booking status.
type WorkflowCallback interface {
	AcknowledgeAgentAcceptance(ctx context.Context, bookingID, agentID string) error
}

type Directory interface {
	FindByID(ctx context.Context, id string) (*model.TalentProfile, error)
	ReserveCapacity(ctx context.Context, agentID string) (bool, error)
	ReleaseCapacity(ctx context.Context, agentID string) error
}

type AgentRanker interface {
	RankAgents(ctx context.Context, relevance []string) ([]*model.TalentProfile, error)
}

var errCapacityTaken = errors.New("agent capacity taken")

type agentService struct {
	repo      repository.AssignmentRepository
	txManager mongotx.TransactionManager
	bookings  BookingReader
	workflow  WorkflowCallback
	directory Directory
	ranker    AgentRanker
	validator *validator.OfferValidator
	sink      notify.Sink
	clock     clock.Clock
	cfg       *config.Config
}

func NewAgentService(
	repo repository.AssignmentRepository,
	txManager mongotx.TransactionManager,
	bookings BookingReader,
	workflow WorkflowCallback,
	directory Directory,
	ranker AgentRanker,
	validator *validator.OfferValidator,
	sink notify.Sink,
	clk clock.Clock,
	cfg *config.Config,
) AgentService {
	return &agentService{
		repo:      repo,
		txManager: txManager,
		bookings:  bookings,
		workflow:  workflow,
		directory: directory,
		ranker:    ranker,
		validator: validator,
		sink:      sink,
		clock:     clk,
		cfg:       cfg,
	}
}

// AutoAssign gives a fully managed talent's booking the first eligible agent
// in directory order. It reports false without error when the booking is
// closed, the talent is not fully managed or no agent qualifies.
func (s *agentService) AutoAssign(ctx context.Context, bookingID string) (bool, error) {
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if booking.Status.IsTerminal() {
		s.cfg.Log.Debug("Booking closed, skipping agent assignment", "booking_id", bookingID, "status", booking.Status)
		return false, nil
	}

	talent, err := s.directory.FindByID(ctx, booking.TalentID)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.Internal("Failed to look up talent", err)
	}
	if !talent.IsFullyManaged() {
		return false, nil
	}

	if existing, err := s.repo.FindActiveByBooking(ctx, bookingID); err == nil {
		s.cfg.Log.Debug("Booking already has an agent", "booking_id", bookingID, "agent_id", existing.AgentID)
		return true, nil
	} else if !errors.Is(err, agentserrors.ErrNotFound) {
		return false, apperrors.Internal("Failed to look up agent assignments", err)
	}

	candidates, err := s.ranker.RankAgents(ctx, matcher.AgentRelevance)
	if err != nil {
		return false, apperrors.Internal("Failed to rank agents", err)
	}

	for _, agent := range candidates {
		assignment := s.newAssignment(booking, agent.ID)

		err := s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
			reserved, err := s.directory.ReserveCapacity(txCtx, agent.ID)
			if err != nil {
				return err
			}
			if !reserved {
				return errCapacityTaken
			}
			return s.repo.Create(txCtx, assignment)
		})

		switch {
		case err == nil:
			s.cfg.Log.Info("Agent auto-assigned",
				"booking_id", bookingID,
				"agent_id", agent.ID,
				"assignment_id", assignment.ID,
			)
			s.sink.Notify(ctx, agent.ID, notify.EventAgentAssigned, map[string]any{
				"booking_id":      bookingID,
				"assignment_id":   assignment.ID,
				"commission_rate": assignment.CommissionRate,
			})
			return true, nil
		case errors.Is(err, errCapacityTaken):
			s.cfg.Log.Debug("Agent filled up before reservation", "booking_id", bookingID, "agent_id", agent.ID)
			continue
		case errors.Is(err, agentserrors.ErrDuplicate):
			return true, nil
		default:
			s.cfg.Log.Error("Failed to auto-assign agent", "booking_id", bookingID, "agent_id", agent.ID, "error", err)
			return false, apperrors.Internal("Failed to auto-assign agent", err)
		}
	}

	s.cfg.Log.Info("No eligible agent available", "booking_id", bookingID, "candidates", len(candidates))
	return false, nil
}

func (s *agentService) newAssignment(booking *model.Booking, agentID string) *model.AgentAssignment {
	now := s.clock.Now()
	return &model.AgentAssignment{
		ID:              uuid.New().String(),
		BookingID:       booking.ID,
		AgentID:         agentID,
		TalentID:        booking.TalentID,
		Status:          model.AssignmentAssigned,
		CommissionRate:  s.cfg.AgentCommissionRate,
		TalentFee:       booking.TalentFee,
		SystemGenerated: true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func (s *agentService) CreateCounterOffer(ctx context.Context, bookingID, agentID string, offer *model.CounterOffer) (*model.AgentAssignment, error) {
	now := s.clock.Now()
	if err := s.validator.ValidateCounterOffer(offer, now); err != nil {
		var verrs validation.ValidationErrors
		if errors.As(err, &verrs) {
			return nil, apperrors.Validation("Invalid counter offer", verrs.Details())
		}
		return nil, apperrors.InvalidInput(err.Error())
	}

	a, err := s.find(ctx, bookingID, agentID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingRejected || booking.Status == model.BookingCancelled {
		return nil, apperrors.InvalidState("Booking", string(booking.Status))
	}

	if err := negotiation.Propose(a, *offer, now); err != nil {
		return nil, s.negotiationError(err, a)
	}
	if err := s.repo.Update(ctx, a, model.AssignmentAssigned); err != nil {
		return nil, s.writeError(err, "Failed to store counter offer")
	}

	s.cfg.Log.Info("Counter offer created",
		"booking_id", bookingID,
		"agent_id", agentID,
		"proposed_price", a.CounterOffer.ProposedPrice,
		"valid_until", a.CounterOffer.ValidUntil,
	)
	s.sink.Notify(ctx, booking.BookerID, notify.EventCounterOfferCreated, map[string]any{
		"booking_id":     bookingID,
		"agent_id":       agentID,
		"proposed_price": a.CounterOffer.ProposedPrice,
		"original_price": a.CounterOffer.OriginalPrice,
		"valid_until":    a.CounterOffer.ValidUntil,
	})
	return a, nil
}

func (s *agentService) RespondToCounterOffer(ctx context.Context, bookingID, agentID string, response model.OfferResponse, responderID string) (*model.AgentAssignment, error) {
	if !response.IsValid() {
		return nil, apperrors.InvalidInput("response must be accepted or declined")
	}

	a, err := s.find(ctx, bookingID, agentID)
	if err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if responderID == "" || responderID != booking.BookerID {
		return nil, apperrors.Unauthorized("Only the booker may respond to a counter offer")
	}
	if response == model.OfferAccepted && (booking.Status == model.BookingRejected || booking.Status == model.BookingCancelled) {
		return nil, apperrors.InvalidState("Booking", string(booking.Status))
	}

	if err := negotiation.Respond(a, response, responderID, s.clock.Now()); err != nil {
		return nil, s.negotiationError(err, a)
	}

	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, a, model.AssignmentCounterOffered); err != nil {
			return err
		}
		if response == model.OfferDeclined {
			return s.directory.ReleaseCapacity(txCtx, agentID)
		}
		return nil
	})
	if err != nil {
		return nil, s.writeError(err, "Failed to record counter offer response")
	}

	s.cfg.Log.Info("Counter offer answered",
		"booking_id", bookingID,
		"agent_id", agentID,
		"response", response,
		"responder_id", responderID,
	)

	payload := map[string]any{"booking_id": bookingID, "agent_id": agentID, "response": response}
	if response == model.OfferAccepted {
		if err := s.workflow.AcknowledgeAgentAcceptance(ctx, bookingID, agentID); err != nil {
			s.cfg.Log.Warn("Failed to record accepted agent on booking", "booking_id", bookingID, "agent_id", agentID, "error", err)
		}
		s.sink.Notify(ctx, agentID, notify.EventCounterOfferAccepted, payload)
		return a, nil
	}

	// A declined offer leaves the booking without an agent. Nothing retries
	// assignment; operators decide what happens next.
	s.sink.Notify(ctx, agentID, notify.EventCounterOfferDeclined, payload)
	s.sink.Notify(ctx, notify.OperationsRecipient, notify.EventManualIntervention, map[string]any{
		"booking_id": bookingID,
		"agent_id":   agentID,
		"reason":     "counter offer declined",
	})
	return a, nil
}

// ReleaseBooking cancels the booking's open assignment and gives the agent
// its capacity back. A confirmed assignment is kept. A booking without an
// open assignment is a no-op.
func (s *agentService) ReleaseBooking(ctx context.Context, bookingID string) error {
	if bookingID == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	a, err := s.repo.FindActiveByBooking(ctx, bookingID)
	if err != nil {
		if errors.Is(err, agentserrors.ErrNotFound) {
			return nil
		}
		return apperrors.Internal("Failed to look up agent assignments", err)
	}

	previous := a.Status
	if err := negotiation.Withdraw(a, s.clock.Now()); err != nil {
		s.cfg.Log.Debug("Assignment kept on closed booking", "booking_id", bookingID, "agent_id", a.AgentID, "status", previous)
		return nil
	}

	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, a, previous); err != nil {
			return err
		}
		return s.directory.ReleaseCapacity(txCtx, a.AgentID)
	})
	if err != nil {
		return s.writeError(err, "Failed to release agent assignment")
	}

	s.cfg.Log.Info("Agent assignment released",
		"booking_id", bookingID,
		"agent_id", a.AgentID,
		"assignment_id", a.ID,
		"previous_status", previous,
	)
	s.sink.Notify(ctx, a.AgentID, notify.EventAgentReleased, map[string]any{
		"booking_id":    bookingID,
		"assignment_id": a.ID,
	})
	return nil
}

func (s *agentService) GetAssignments(ctx context.Context, bookingID string) ([]*model.AgentAssignment, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	assignments, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list agent assignments", err)
	}
	return assignments, nil
}

func (s *agentService) Metrics(ctx context.Context, agentID string) (*model.AgentMetrics, error) {
	if agentID == "" {
		return nil, apperrors.InvalidInput("Agent ID cannot be empty")
	}
	assignments, err := s.repo.FindByAgent(ctx, agentID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load agent assignments", err)
	}
	return computeMetrics(agentID, assignments), nil
}

func computeMetrics(agentID string, assignments []*model.AgentAssignment) *model.AgentMetrics {
	m := &model.AgentMetrics{AgentID: agentID, TotalAssignments: len(assignments)}
	for _, a := range assignments {
		switch {
		case a.Status == model.AssignmentConfirmed:
			m.ConfirmedAssignments++
			m.CommissionEarned += a.TalentFee * a.CommissionRate
		case !a.Status.IsTerminal():
			m.PendingAssignments++
		}
	}
	if m.TotalAssignments > 0 {
		m.SuccessRate = float64(m.ConfirmedAssignments) / float64(m.TotalAssignments)
	}
	return m
}

func (s *agentService) find(ctx context.Context, bookingID, agentID string) (*model.AgentAssignment, error) {
	if bookingID == "" || agentID == "" {
		return nil, apperrors.InvalidInput("booking_id and agent_id are required")
	}
	a, err := s.repo.FindByBookingAndAgent(ctx, bookingID, agentID)
	if err != nil {
		if errors.Is(err, agentserrors.ErrNotFound) {
			return nil, apperrors.NotFound("Agent assignment").WithDetails(map[string]any{
				"booking_id": bookingID,
				"agent_id":   agentID,
			})
		}
		return nil, apperrors.Internal("Failed to look up agent assignment", err)
	}
	return a, nil
}

func (s *agentService) negotiationError(err error, a *model.AgentAssignment) error {
	switch {
	case errors.Is(err, negotiation.ErrNotNegotiable), errors.Is(err, negotiation.ErrNoOpenOffer):
		return apperrors.InvalidState("Agent assignment", string(a.Status))
	case errors.Is(err, negotiation.ErrOfferExpired):
		return apperrors.InvalidState("Counter offer", "expired")
	case errors.Is(err, negotiation.ErrInvalidOffer), errors.Is(err, negotiation.ErrInvalidResponse):
		return apperrors.InvalidInput(err.Error())
	}
	return apperrors.Internal("Negotiation failed", err)
}

func (s *agentService) writeError(err error, message string) error {
	switch {
	case errors.Is(err, agentserrors.ErrStaleWrite):
		return apperrors.Conflict("Agent assignment was modified concurrently; re-read and retry")
	case errors.Is(err, agentserrors.ErrNotFound):
		return apperrors.NotFound("Agent assignment")
	}
	return apperrors.Internal(message, err)
}
