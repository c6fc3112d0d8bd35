package service

import (
	"context"
	"errors"
	"time"

	directoryerrors "backstage/internal/directory/errors"
	"backstage/internal/notify"
	workflowerrors "backstage/internal/workflow/errors"
	"backstage/internal/workflow/repository"
	"backstage/internal/workflow/validator"
	"backstage/pkg/clock"
	"backstage/pkg/config"
	apperrors "backstage/pkg/errors"
	"backstage/pkg/model"
	"backstage/pkg/sanitizer"
	"backstage/pkg/validation"
)

// stageOrder is the fixed approval path. A stage's successor is the next
// element; the successor of the last is StageApproved.
var stageOrder = []model.Stage{
	model.StageTechnicalReview,
	model.StageAdminReview,
	model.StageFinalApproval,
}

var requiredDocuments = []string{"technical_rider", "performance_contract", "insurance_certificate"}

type WorkflowService interface {
	CreateBooking(ctx context.Context, booking *model.Booking) error
	GetBooking(ctx context.Context, id string) (*model.Booking, error)
	SubmitTechnicalRider(ctx context.Context, id string, rider *model.TechnicalRider) (*model.WorkflowState, error)
	OpenWorkflow(ctx context.Context, id string) (*model.WorkflowState, error)
	ProcessStep(ctx context.Context, id string, step model.Stage, decision model.Decision, approverID, notes string) (*model.WorkflowState, error)
	GetStatus(ctx context.Context, id string) (*model.WorkflowState, error)
	ListPending(ctx context.Context, approverID string) ([]*model.BookingSummary, error)
	CancelBooking(ctx context.Context, id, actorID, reason string) error
	AcknowledgeAgentAcceptance(ctx context.Context, bookingID, agentID string) error
}

// AgentAssigner is called when a fully managed talent's workflow opens, and
// again when the booking closes without confirming so the agent's capacity
// is freed.
type AgentAssigner interface {
	AutoAssign(ctx context.Context, bookingID string) (bool, error)
	ReleaseBooking(ctx context.Context, bookingID string) error
}

// ProductionAssembler is called once a booking is approved. It must be
// idempotent per booking.
type ProductionAssembler interface {
	Assemble(ctx context.Context, bookingID string, requirements model.ProductionRequirements) (bool, error)
}

type DocumentScheduler interface {
	ScheduleAttachments(ctx context.Context, bookingID string) int
}

type ProfileLookup interface {
	FindByID(ctx context.Context, id string) (*model.TalentProfile, error)
}

// Engine owns booking status and the approval state machine. No other
// component writes either.
type Engine struct {
	repo      repository.BookingRepository
	profiles  ProfileLookup
	validator *validator.WorkflowValidator
	sink      notify.Sink
	documents DocumentScheduler
	clock     clock.Clock
	cfg       *config.Config

	agents     AgentAssigner
	production ProductionAssembler
}

func NewWorkflowService(
	repo repository.BookingRepository,
	profiles ProfileLookup,
	validator *validator.WorkflowValidator,
	sink notify.Sink,
	documents DocumentScheduler,
	clk clock.Clock,
	cfg *config.Config,
) *Engine {
	return &Engine{
		repo:      repo,
		profiles:  profiles,
		validator: validator,
		sink:      sink,
		documents: documents,
		clock:     clk,
		cfg:       cfg,
	}
}

// UseAgentAssigner and UseProductionAssembler close the dependency cycle
// between the engine and the services it drives. Both are optional.
func (e *Engine) UseAgentAssigner(a AgentAssigner) {
	e.agents = a
}

func (e *Engine) UseProductionAssembler(p ProductionAssembler) {
	e.production = p
}

func (e *Engine) CreateBooking(ctx context.Context, booking *model.Booking) error {
	now := e.clock.Now()
	e.sanitize(booking)
	booking.ID = ""
	booking.Status = model.BookingPending
	booking.Workflow = nil
	booking.Production = nil
	booking.ConfirmedAgentID = ""
	booking.CancelReason = ""
	booking.CreatedAt = now
	booking.UpdatedAt = now
	if booking.TechnicalRider != nil {
		return apperrors.InvalidInput("technical_rider must be submitted separately")
	}

	if err := e.validator.ValidateBooking(booking, now); err != nil {
		e.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError(err)
	}

	if _, err := e.profiles.FindByID(ctx, booking.TalentID); err != nil {
		if errors.Is(err, directoryerrors.ErrNotFound) {
			return apperrors.Validation("Invalid booking input", map[string]any{
				"fields": map[string]any{"TalentID": "talent_id does not reference a known talent"},
			})
		}
		return apperrors.Internal("Failed to look up talent", err)
	}

	if err := e.repo.Create(ctx, booking); err != nil {
		e.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	e.cfg.Log.Info("Booking created",
		"booking_id", booking.ID,
		"talent_id", booking.TalentID,
		"booker_id", booking.BookerID,
	)
	return nil
}

func (e *Engine) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := e.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, id)
	}
	return booking, nil
}

// SubmitTechnicalRider stores the rider on a pending booking and opens its
// workflow.
func (e *Engine) SubmitTechnicalRider(ctx context.Context, id string, rider *model.TechnicalRider) (*model.WorkflowState, error) {
	e.sanitizeRider(rider)
	if err := e.validator.ValidateRider(rider); err != nil {
		return nil, validationError(err)
	}

	booking, err := e.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != model.BookingPending {
		return nil, apperrors.Conflict("Booking is no longer accepting a technical rider")
	}

	now := e.clock.Now()
	rider.SubmittedAt = now
	if err := e.repo.SetTechnicalRider(ctx, id, rider, now); err != nil {
		return nil, writeError(err, id, "Failed to store technical rider")
	}

	e.cfg.Log.Info("Technical rider submitted", "booking_id", id, "submitted_by", rider.SubmittedBy)
	return e.OpenWorkflow(ctx, id)
}

func (e *Engine) OpenWorkflow(ctx context.Context, id string) (*model.WorkflowState, error) {
	booking, err := e.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Workflow != nil && !booking.Workflow.IsTerminal() {
		return nil, apperrors.Conflict("Booking already has an open workflow")
	}
	if booking.Status.IsTerminal() || booking.Workflow != nil {
		return nil, apperrors.Conflict("Booking is closed and cannot open a workflow")
	}

	managed, err := e.isFullyManaged(ctx, booking.TalentID)
	if err != nil {
		return nil, err
	}

	wf := newWorkflow(e.clock.Now(), e.slaPolicy(managed), managed)
	if err := e.repo.OpenWorkflow(ctx, id, wf); err != nil {
		return nil, writeError(err, id, "Failed to open workflow")
	}

	e.cfg.Log.Info("Workflow opened",
		"booking_id", id,
		"expedited", managed,
		"technical_review_due", wf.Deadlines[model.StageTechnicalReview],
	)

	if managed && e.agents != nil {
		assigned, err := e.agents.AutoAssign(ctx, id)
		if err != nil {
			e.cfg.Log.Warn("Agent auto-assignment failed", "booking_id", id, "error", err)
		} else if !assigned {
			e.cfg.Log.Info("No agent auto-assigned", "booking_id", id)
		}
	}

	payload := map[string]any{
		"booking_id": id,
		"expedited":  managed,
		"deadlines":  wf.Deadlines,
	}
	e.sink.Notify(ctx, booking.BookerID, notify.EventWorkflowOpened, payload)
	e.sink.Notify(ctx, booking.TalentID, notify.EventWorkflowOpened, payload)
	return wf, nil
}

func (e *Engine) ProcessStep(ctx context.Context, id string, step model.Stage, decision model.Decision, approverID, notes string) (*model.WorkflowState, error) {
	if !decision.IsValid() {
		return nil, apperrors.InvalidInput("decision must be approved or rejected")
	}
	if approverID == "" {
		return nil, apperrors.InvalidInput("approver_id is required")
	}
	if stageIndex(step) < 0 {
		return nil, apperrors.InvalidStage("", string(step))
	}

	booking, err := e.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	current := booking.Workflow
	if current == nil {
		return nil, apperrors.NotFoundWithID("Workflow", id)
	}
	if current.IsTerminal() || booking.Status.IsTerminal() {
		return nil, apperrors.Conflict("Workflow is closed")
	}
	if step != current.CurrentStage {
		// A step already behind the workflow lost a race with another approver.
		if stageIndex(step) < stageIndex(current.CurrentStage) {
			return nil, apperrors.Conflict("Step was already decided; re-read the workflow")
		}
		return nil, apperrors.InvalidStage(string(current.CurrentStage), string(step))
	}

	now := e.clock.Now()
	next, status := advance(current, booking.Status, decision, approverID, notes, now)

	err = e.repo.ApplyTransition(ctx, id, repository.Transition{
		ExpectedStage:   current.CurrentStage,
		ExpectedVersion: current.Version,
		ExpectedStatus:  booking.Status,
		Workflow:        next,
		Status:          status,
	})
	if err != nil {
		return nil, writeError(err, id, "Failed to record approval step")
	}

	e.cfg.Log.Info("Approval step processed",
		"booking_id", id,
		"step", step,
		"decision", decision,
		"approver_id", approverID,
		"stage", next.CurrentStage,
	)

	e.afterTransition(ctx, booking, step, next)
	return next, nil
}

// afterTransition runs the side effects of a committed step. None of them
// can fail the step.
func (e *Engine) afterTransition(ctx context.Context, booking *model.Booking, step model.Stage, wf *model.WorkflowState) {
	payload := map[string]any{"booking_id": booking.ID, "step": step, "stage": wf.CurrentStage}

	switch wf.CurrentStage {
	case model.StageRejected:
		e.releaseAgents(ctx, booking.ID)
		e.sink.Notify(ctx, booking.BookerID, notify.EventBookingRejected, payload)
		e.sink.Notify(ctx, booking.TalentID, notify.EventBookingRejected, payload)

	case model.StageApproved:
		e.sink.Notify(ctx, booking.BookerID, notify.EventBookingConfirmed, payload)
		e.sink.Notify(ctx, booking.TalentID, notify.EventBookingConfirmed, payload)
		if e.documents != nil {
			e.documents.ScheduleAttachments(ctx, booking.ID)
		}
		if e.production != nil {
			requirements := model.RequirementsFromServices(e.cfg.ProductionDefaultServices)
			if _, err := e.production.Assemble(ctx, booking.ID, requirements); err != nil {
				e.cfg.Log.Warn("Production assembly failed", "booking_id", booking.ID, "error", err)
			}
		}

	default:
		e.sink.Notify(ctx, booking.BookerID, notify.EventStepApproved, payload)
	}
}

func (e *Engine) releaseAgents(ctx context.Context, bookingID string) {
	if e.agents == nil {
		return
	}
	if err := e.agents.ReleaseBooking(ctx, bookingID); err != nil {
		e.cfg.Log.Warn("Failed to release agent assignment", "booking_id", bookingID, "error", err)
	}
}

// GetStatus returns the workflow with the booking status attached. A
// cancelled booking keeps the stage it was cancelled at; BookingStatus is
// what tells callers it is closed.
func (e *Engine) GetStatus(ctx context.Context, id string) (*model.WorkflowState, error) {
	booking, err := e.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Workflow == nil {
		return nil, apperrors.NotFoundWithID("Workflow", id)
	}
	wf := *booking.Workflow
	wf.BookingStatus = booking.Status
	return &wf, nil
}

func (e *Engine) ListPending(ctx context.Context, approverID string) ([]*model.BookingSummary, error) {
	bookings, err := e.repo.FindPending(ctx)
	if err != nil {
		e.cfg.Log.Error("Failed to list pending approvals", "approver_id", approverID, "error", err)
		return nil, apperrors.Internal("Failed to list pending approvals", err)
	}

	names := map[string]*model.TalentProfile{}
	lookup := func(id string) *model.TalentProfile {
		if p, ok := names[id]; ok {
			return p
		}
		p, err := e.profiles.FindByID(ctx, id)
		if err != nil && !errors.Is(err, directoryerrors.ErrNotFound) {
			e.cfg.Log.Warn("Profile lookup failed", "profile_id", id, "error", err)
		}
		names[id] = p
		return p
	}

	summaries := make([]*model.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		s := &model.BookingSummary{
			BookingID:    b.ID,
			EventTitle:   b.EventTitle,
			EventStart:   b.EventStart,
			Status:       b.Status,
			CurrentStage: b.Workflow.CurrentStage,
			Expedited:    b.Workflow.Expedited,
			TalentID:     b.TalentID,
			BookerID:     b.BookerID,
		}
		if due, ok := b.Workflow.Deadlines[b.Workflow.CurrentStage]; ok {
			s.StageDueAt = &due
		}
		if p := lookup(b.TalentID); p != nil {
			s.TalentName, s.TalentEmail = p.Name, p.Email
		}
		if p := lookup(b.BookerID); p != nil {
			s.BookerName, s.BookerEmail = p.Name, p.Email
		}
		summaries = append(summaries, s)
	}

	e.cfg.Log.Debug("Pending approvals listed", "approver_id", approverID, "count", len(summaries))
	return summaries, nil
}

func (e *Engine) CancelBooking(ctx context.Context, id, actorID, reason string) error {
	if actorID == "" {
		return apperrors.InvalidInput("actor_id is required")
	}

	booking, err := e.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	if booking.Status.IsTerminal() {
		return apperrors.Conflict("Booking is already closed")
	}

	reason = sanitizer.TrimAndNormalize(reason)
	if err := e.repo.Cancel(ctx, id, booking.Status, reason, e.clock.Now()); err != nil {
		return writeError(err, id, "Failed to cancel booking")
	}

	e.cfg.Log.Info("Booking cancelled", "booking_id", id, "actor_id", actorID, "reason", reason)
	e.releaseAgents(ctx, id)

	payload := map[string]any{"booking_id": id, "reason": reason, "cancelled_by": actorID}
	e.sink.Notify(ctx, booking.BookerID, notify.EventBookingCancelled, payload)
	e.sink.Notify(ctx, booking.TalentID, notify.EventBookingCancelled, payload)
	return nil
}

// AcknowledgeAgentAcceptance records the agent whose counter offer was
// accepted. Stage and status are left alone: the booking only confirms by
// passing final approval.
func (e *Engine) AcknowledgeAgentAcceptance(ctx context.Context, bookingID, agentID string) error {
	booking, err := e.GetBooking(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.Status == model.BookingRejected || booking.Status == model.BookingCancelled {
		return apperrors.Conflict("Booking is closed")
	}

	if err := e.repo.SetConfirmedAgent(ctx, bookingID, agentID, e.clock.Now()); err != nil {
		return writeError(err, bookingID, "Failed to record confirmed agent")
	}

	e.cfg.Log.Info("Agent acceptance recorded", "booking_id", bookingID, "agent_id", agentID)
	return nil
}

func (e *Engine) isFullyManaged(ctx context.Context, talentID string) (bool, error) {
	talent, err := e.profiles.FindByID(ctx, talentID)
	if err != nil {
		if errors.Is(err, directoryerrors.ErrNotFound) {
			e.cfg.Log.Warn("Talent missing from directory, using standard SLA", "talent_id", talentID)
			return false, nil
		}
		return false, apperrors.Internal("Failed to look up talent", err)
	}
	return talent.IsFullyManaged(), nil
}

func (e *Engine) slaPolicy(managed bool) config.SLAPolicy {
	if managed {
		return e.cfg.ManagedSLA
	}
	return e.cfg.StandardSLA
}

func (e *Engine) sanitize(b *model.Booking) {
	b.EventTitle = sanitizer.TrimAndNormalize(b.EventTitle)
	b.Venue = sanitizer.TrimAndNormalize(b.Venue)
	b.Region = sanitizer.NormalizeRegion(b.Region)
	b.EventStart = b.EventStart.UTC().Truncate(time.Millisecond)
	b.EventEnd = b.EventEnd.UTC().Truncate(time.Millisecond)
}

func (e *Engine) sanitizeRider(r *model.TechnicalRider) {
	r.Notes = sanitizer.TrimAndNormalize(r.Notes)
	for i := range r.Contacts {
		r.Contacts[i].Name = sanitizer.NormalizeName(r.Contacts[i].Name)
		if phone := r.Contacts[i].Phone; phone != "" {
			if normalized := sanitizer.NormalizePhone(phone); normalized != "" {
				r.Contacts[i].Phone = normalized
			}
		}
	}
}

func newWorkflow(now time.Time, sla config.SLAPolicy, expedited bool) *model.WorkflowState {
	steps := make([]model.ApprovalStep, 0, len(stageOrder))
	for _, stage := range stageOrder {
		steps = append(steps, model.ApprovalStep{Step: stage, Status: model.StepPending})
	}

	return &model.WorkflowState{
		CurrentStage: model.StageTechnicalReview,
		Steps:        steps,
		Deadlines: map[model.Stage]time.Time{
			model.StageTechnicalReview: now.Add(sla.TechnicalReview),
			model.StageAdminReview:     now.Add(sla.AdminReview),
			model.StageFinalApproval:   now.Add(sla.FinalApproval),
		},
		RequiredDocuments: append([]string(nil), requiredDocuments...),
		Expedited:         expedited,
		OpenedAt:          now,
		UpdatedAt:         now,
		Version:           0,
	}
}

// advance returns the workflow and booking status after decision on the
// current stage. current is not modified.
func advance(current *model.WorkflowState, status model.BookingStatus, decision model.Decision, approverID, notes string, now time.Time) (*model.WorkflowState, model.BookingStatus) {
	next := *current
	next.Steps = append([]model.ApprovalStep(nil), current.Steps...)
	next.UpdatedAt = now
	next.Version = current.Version + 1

	if s := next.Step(current.CurrentStage); s != nil {
		s.ApprovedBy = approverID
		s.ApprovedAt = &now
		s.Notes = sanitizer.TrimAndNormalize(notes)
		if decision == model.DecisionRejected {
			s.Status = model.StepRejected
		} else {
			s.Status = model.StepApproved
		}
	}

	if decision == model.DecisionRejected {
		next.CurrentStage = model.StageRejected
		return &next, model.BookingRejected
	}

	i := stageIndex(current.CurrentStage)
	if i == len(stageOrder)-1 {
		next.CurrentStage = model.StageApproved
		return &next, model.BookingConfirmed
	}
	next.CurrentStage = stageOrder[i+1]
	return &next, status
}

func stageIndex(stage model.Stage) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

func validationError(err error) error {
	var verrs validation.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.Validation("Invalid input", verrs.Details())
	}
	return apperrors.InvalidInput(err.Error())
}

func lookupError(err error, id string) error {
	switch {
	case errors.Is(err, workflowerrors.ErrNotFound):
		return apperrors.NotFoundWithID("Booking", id)
	case errors.Is(err, workflowerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

func writeError(err error, id, message string) error {
	switch {
	case errors.Is(err, workflowerrors.ErrStaleWrite):
		return apperrors.Conflict("Booking was modified concurrently; re-read and retry")
	case errors.Is(err, workflowerrors.ErrNotFound), errors.Is(err, workflowerrors.ErrInvalidID):
		return lookupError(err, id)
	}
	return apperrors.Internal(message, err)
}
