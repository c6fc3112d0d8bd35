package service

import (
	"context"
	"errors"
	"fmt"

	directoryerrors "backstage/internal/directory/errors"
	"backstage/internal/matcher"
	"backstage/internal/notify"
	productionerrors "backstage/internal/production/errors"
	"backstage/internal/production/repository"
	"backstage/internal/production/validator"
	"backstage/pkg/clock"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	apperrors "backstage/pkg/errors"
	"backstage/pkg/model"
	"backstage/pkg/sanitizer"
	"backstage/pkg/validation"

	"github.com/google/uuid"
)

type ProductionService interface {
	Assemble(ctx context.Context, bookingID string, requirements model.ProductionRequirements) (bool, error)
	GetTeam(ctx context.Context, bookingID string) ([]*model.TeamMember, error)
	RegisterProfessionalService(ctx context.Context, userID string, svc *model.ProfessionalService) (*model.TalentProfile, error)
	FindProfessionals(ctx context.Context, criteria matcher.Criteria) ([]*model.TalentProfile, error)
	BookProfessional(ctx context.Context, bookingID, professionalID string, details *model.ServiceDetails) (*model.ServiceAssignment, error)
}

type WorkflowReader interface {
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
}

type Directory interface {
	FindByID(ctx context.Context, id string) (*model.TalentProfile, error)
	UpsertService(ctx context.Context, userID string, svc *model.ProfessionalService, categories []string) error
}

type Ranker interface {
	Rank(ctx context.Context, c matcher.Criteria) ([]*model.TalentProfile, error)
	Best(ctx context.Context, c matcher.Criteria) (*model.TalentProfile, error)
}

type productionService struct {
	repo      repository.ProductionRepository
	txManager mongotx.TransactionManager
	bookings  WorkflowReader
	directory Directory
	ranker    Ranker
	validator *validator.ProductionValidator
	sink      notify.Sink
	clock     clock.Clock
	cfg       *config.Config
}

func NewProductionService(
	repo repository.ProductionRepository,
	txManager mongotx.TransactionManager,
	bookings WorkflowReader,
	directory Directory,
	ranker Ranker,
	validator *validator.ProductionValidator,
	sink notify.Sink,
	clk clock.Clock,
	cfg *config.Config,
) ProductionService {
	return &productionService{
		repo:      repo,
		txManager: txManager,
		bookings:  bookings,
		directory: directory,
		ranker:    ranker,
		validator: validator,
		sink:      sink,
		clock:     clk,
		cfg:       cfg,
	}
}

// Assemble staffs the requested services for an approved booking and stores
// the production plan. It reports false when the plan already exists,
// including when a concurrent call stored it first.
func (s *productionService) Assemble(ctx context.Context, bookingID string, req model.ProductionRequirements) (bool, error) {
	req.SpecialRequests = sanitizer.TrimAndNormalize(req.SpecialRequests)
	if err := s.validator.ValidateRequirements(&req); err != nil {
		return false, validationError(err)
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return false, err
	}
	if booking.Workflow == nil || booking.Workflow.CurrentStage != model.StageApproved {
		stage := "none"
		if booking.Workflow != nil {
			stage = string(booking.Workflow.CurrentStage)
		}
		return false, apperrors.InvalidState("Booking workflow", stage)
	}
	if booking.Production != nil {
		return false, nil
	}

	now := s.clock.Now()
	window := &matcher.DateWindow{Start: booking.EventStart, End: booking.EventEnd}
	assignments := make([]*model.ServiceAssignment, 0, len(serviceOrder))

	for _, serviceType := range serviceOrder {
		if !requested(req, serviceType) {
			continue
		}
		best, err := s.ranker.Best(ctx, matcher.Criteria{
			ServiceType: serviceType,
			Region:      booking.Region,
			Window:      window,
		})
		if err != nil {
			return false, apperrors.Internal("Failed to match professionals", err)
		}
		if best == nil {
			s.cfg.Log.Info("No professional available, slot omitted", "booking_id", bookingID, "service_type", serviceType)
			continue
		}
		assignments = append(assignments, &model.ServiceAssignment{
			ID:             uuid.New().String(),
			BookingID:      bookingID,
			ProfessionalID: best.ID,
			ServiceType:    serviceType,
			Status:         model.ServiceAssigned,
			CommissionRate: s.cfg.ProfessionalCommissionRate,
			Details:        templateDetails(serviceType, req.SpecialRequests),
			AssignedAt:     now,
		})
	}

	plan := &model.ProductionPlan{
		Assignments:  make([]model.ServiceAssignment, 0, len(assignments)),
		Timeline:     buildTimeline(booking.EventStart, booking.EventEnd),
		Coordination: buildCoordination(assignments, booking.EventEnd, s.cfg.CoordinationChannel),
		Requirements: req,
		CreatedAt:    now,
	}
	for _, a := range assignments {
		plan.Assignments = append(plan.Assignments, *a)
	}

	err = s.txManager.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.CreateAssignments(txCtx, assignments); err != nil {
			return err
		}
		saved, err := s.repo.SavePlan(txCtx, bookingID, plan)
		if err != nil {
			return err
		}
		if !saved {
			return productionerrors.ErrPlanExists
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, productionerrors.ErrPlanExists) {
			s.cfg.Log.Info("Production plan stored by another writer", "booking_id", bookingID)
			return false, nil
		}
		s.cfg.Log.Error("Failed to assemble production team", "booking_id", bookingID, "error", err)
		return false, apperrors.Internal("Failed to assemble production team", err)
	}

	s.cfg.Log.Info("Production team assembled",
		"booking_id", bookingID,
		"staffed", len(assignments),
		"lead_coordinator", plan.Coordination.LeadCoordinator,
	)

	for _, a := range assignments {
		s.sink.Notify(ctx, a.ProfessionalID, notify.EventProfessionalBooked, map[string]any{
			"booking_id":   bookingID,
			"service_type": a.ServiceType,
			"setup_start":  plan.Timeline.EventDay.SetupStart,
		})
	}
	s.sink.Notify(ctx, booking.BookerID, notify.EventTeamAssembled, map[string]any{
		"booking_id": bookingID,
		"staffed":    len(assignments),
	})
	return true, nil
}

func (s *productionService) GetTeam(ctx context.Context, bookingID string) ([]*model.TeamMember, error) {
	if _, err := s.bookings.GetBooking(ctx, bookingID); err != nil {
		return nil, err
	}

	assignments, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load production team", err)
	}

	team := make([]*model.TeamMember, 0, len(assignments))
	for _, a := range assignments {
		member := &model.TeamMember{ServiceAssignment: *a, Specializations: []string{}}
		p, err := s.directory.FindByID(ctx, a.ProfessionalID)
		switch {
		case err == nil:
			member.Name = p.Name
			member.Email = p.Email
			member.Specializations = p.Specializations
			member.Portfolio = p.Portfolio
			member.Rates = p.Rates
		case errors.Is(err, directoryerrors.ErrNotFound):
			s.cfg.Log.Warn("Team member missing from directory", "booking_id", bookingID, "professional_id", a.ProfessionalID)
		default:
			return nil, apperrors.Internal("Failed to load professional profile", err)
		}
		team = append(team, member)
	}
	return team, nil
}

func (s *productionService) RegisterProfessionalService(ctx context.Context, userID string, svc *model.ProfessionalService) (*model.TalentProfile, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	svc.Name = sanitizer.NormalizeName(svc.Name)
	svc.Email = sanitizer.TrimAndNormalize(svc.Email)
	svc.Region = sanitizer.NormalizeRegion(svc.Region)
	svc.Specializations = sanitizer.NormalizeSpecializations(svc.Specializations)
	svc.Portfolio = sanitizer.NormalizePortfolio(svc.Portfolio)
	for i, d := range svc.BlockedDates {
		svc.BlockedDates[i] = d.UTC()
	}

	if err := s.validator.ValidateService(svc); err != nil {
		return nil, validationError(err)
	}

	categories := make([]string, 0, len(svc.Specializations))
	for _, specialization := range svc.Specializations {
		categories = append(categories, fmt.Sprintf("%s_%s", svc.ServiceType, specialization))
	}

	if err := s.directory.UpsertService(ctx, userID, svc, categories); err != nil {
		s.cfg.Log.Error("Failed to register professional service", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to register professional service", err)
	}

	profile, err := s.directory.FindByID(ctx, userID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load professional profile", err)
	}

	s.cfg.Log.Info("Professional service registered",
		"user_id", userID,
		"service_type", svc.ServiceType,
		"categories", len(categories),
	)
	return profile, nil
}

func (s *productionService) FindProfessionals(ctx context.Context, c matcher.Criteria) ([]*model.TalentProfile, error) {
	if !c.ServiceType.IsValid() {
		return nil, apperrors.InvalidInput(fmt.Sprintf("unknown service_type %q", c.ServiceType))
	}
	if c.Window != nil && c.Window.End.Before(c.Window.Start) {
		return nil, apperrors.InvalidInput("date window end is before its start")
	}
	c.Specialization = sanitizer.NormalizeSpecialization(c.Specialization)
	c.Region = sanitizer.NormalizeRegion(c.Region)

	professionals, err := s.ranker.Rank(ctx, c)
	if err != nil {
		return nil, apperrors.Internal("Failed to find professionals", err)
	}
	return professionals, nil
}

// BookProfessional adds one professional to a booking's team outside of
// automatic assembly.
func (s *productionService) BookProfessional(ctx context.Context, bookingID, professionalID string, details *model.ServiceDetails) (*model.ServiceAssignment, error) {
	if professionalID == "" {
		return nil, apperrors.InvalidInput("professional_id is required")
	}
	details.SpecialRequests = sanitizer.TrimAndNormalize(details.SpecialRequests)
	if err := s.validator.ValidateDetails(details); err != nil {
		return nil, validationError(err)
	}

	booking, err := s.bookings.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == model.BookingRejected || booking.Status == model.BookingCancelled {
		return nil, apperrors.InvalidState("Booking", string(booking.Status))
	}

	professional, err := s.directory.FindByID(ctx, professionalID)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Professional", professionalID)
		}
		return nil, apperrors.Internal("Failed to look up professional", err)
	}
	if professional.Kind != model.KindProfessional || !professional.ServiceType.IsValid() {
		return nil, apperrors.InvalidInput("profile does not offer a production service")
	}

	window := &matcher.DateWindow{Start: booking.EventStart, End: booking.EventEnd}
	if !matcher.Eligible(professional, matcher.Criteria{ServiceType: professional.ServiceType, Window: window}) {
		return nil, apperrors.Conflict("Professional is unavailable for the event dates")
	}

	existing, err := s.repo.FindByBooking(ctx, bookingID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load production team", err)
	}
	for _, a := range existing {
		if a.ProfessionalID == professionalID {
			return nil, apperrors.Conflict("Professional is already on this booking's team")
		}
	}

	assignment := &model.ServiceAssignment{
		ID:             uuid.New().String(),
		BookingID:      bookingID,
		ProfessionalID: professionalID,
		ServiceType:    professional.ServiceType,
		Status:         model.ServiceAssigned,
		CommissionRate: s.cfg.ProfessionalCommissionRate,
		Details:        *details,
		AssignedAt:     s.clock.Now(),
	}
	if err := s.repo.CreateAssignments(ctx, []*model.ServiceAssignment{assignment}); err != nil {
		s.cfg.Log.Error("Failed to book professional", "booking_id", bookingID, "professional_id", professionalID, "error", err)
		return nil, apperrors.Internal("Failed to book professional", err)
	}

	s.cfg.Log.Info("Professional booked",
		"booking_id", bookingID,
		"professional_id", professionalID,
		"service_type", assignment.ServiceType,
	)
	s.sink.Notify(ctx, professionalID, notify.EventProfessionalBooked, map[string]any{
		"booking_id":   bookingID,
		"service_type": assignment.ServiceType,
		"event_start":  booking.EventStart,
	})
	return assignment, nil
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Invalid input", verrs.Details())
	}
	return apperrors.InvalidInput(err.Error())
}
