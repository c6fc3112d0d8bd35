package service

import (
	"context"
	"sync"
	"testing"
	"time"

	agentserrors "backstage/internal/agents/errors"
	"backstage/internal/agents/validator"
	directoryerrors "backstage/internal/directory/errors"
	"backstage/internal/matcher"
	"backstage/internal/notify"
	"backstage/pkg/clock"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	apperrors "backstage/pkg/errors"
	"backstage/pkg/logger"
	"backstage/pkg/model"
)

var now = time.Date(2026, 4, 10, 12, 0, 0, 0, time.UTC)

type fakeAssignmentRepository struct {
	mu          sync.Mutex
	assignments []*model.AgentAssignment
}

func copyAssignment(a *model.AgentAssignment) *model.AgentAssignment {
	c := *a
	if a.CounterOffer != nil {
		offer := *a.CounterOffer
		c.CounterOffer = &offer
	}
	return &c
}

func isActive(s model.AssignmentStatus) bool {
	return s != model.AssignmentCancelled
}

func (r *fakeAssignmentRepository) Create(ctx context.Context, a *model.AgentAssignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.assignments {
		if existing.BookingID == a.BookingID && isActive(existing.Status) {
			return agentserrors.ErrDuplicate
		}
	}
	r.assignments = append(r.assignments, copyAssignment(a))
	return nil
}

func (r *fakeAssignmentRepository) FindActiveByBooking(ctx context.Context, bookingID string) (*model.AgentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.assignments {
		if a.BookingID == bookingID && isActive(a.Status) {
			return copyAssignment(a), nil
		}
	}
	return nil, agentserrors.ErrNotFound
}

func (r *fakeAssignmentRepository) FindByBookingAndAgent(ctx context.Context, bookingID, agentID string) (*model.AgentAssignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.assignments) - 1; i >= 0; i-- {
		if a := r.assignments[i]; a.BookingID == bookingID && a.AgentID == agentID {
			return copyAssignment(a), nil
		}
	}
	return nil, agentserrors.ErrNotFound
}

func (r *fakeAssignmentRepository) FindByBooking(ctx context.Context, bookingID string) ([]*model.AgentAssignment, error) {
	return r.filter(func(a *model.AgentAssignment) bool { return a.BookingID == bookingID }), nil
}

func (r *fakeAssignmentRepository) FindByAgent(ctx context.Context, agentID string) ([]*model.AgentAssignment, error) {
	return r.filter(func(a *model.AgentAssignment) bool { return a.AgentID == agentID }), nil
}

func (r *fakeAssignmentRepository) filter(keep func(a *model.AgentAssignment) bool) []*model.AgentAssignment {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*model.AgentAssignment{}
	for _, a := range r.assignments {
		if keep(a) {
			out = append(out, copyAssignment(a))
		}
	}
	return out
}

func (r *fakeAssignmentRepository) Update(ctx context.Context, a *model.AgentAssignment, expected model.AssignmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, stored := range r.assignments {
		if stored.ID != a.ID {
			continue
		}
		if stored.Status != expected {
			return agentserrors.ErrStaleWrite
		}
		r.assignments[i] = copyAssignment(a)
		return nil
	}
	return agentserrors.ErrNotFound
}

type fakeDirectory struct {
	mu       sync.Mutex
	profiles []*model.TalentProfile
}

func (d *fakeDirectory) get(id string) *model.TalentProfile {
	for _, p := range d.profiles {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (d *fakeDirectory) FindByID(ctx context.Context, id string) (*model.TalentProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.get(id); p != nil {
		c := *p
		return &c, nil
	}
	return nil, directoryerrors.ErrNotFound
}

func (d *fakeDirectory) FindManagedAgents(ctx context.Context) ([]*model.TalentProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*model.TalentProfile
	for _, p := range d.profiles {
		if p.Kind == model.KindAgent {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (d *fakeDirectory) FindProfessionals(ctx context.Context, serviceType model.ServiceType) ([]*model.TalentProfile, error) {
	return nil, nil
}

func (d *fakeDirectory) ReserveCapacity(ctx context.Context, agentID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p := d.get(agentID)
	if p == nil || !p.Active || p.OpenAssignments >= p.MaxConcurrentAssignments {
		return false, nil
	}
	p.OpenAssignments++
	return true, nil
}

func (d *fakeDirectory) ReleaseCapacity(ctx context.Context, agentID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if p := d.get(agentID); p != nil && p.OpenAssignments > 0 {
		p.OpenAssignments--
	}
	return nil
}

func (d *fakeDirectory) open(id string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.get(id).OpenAssignments
}

type passthroughTx struct{}

func (passthroughTx) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

type fakeBookings struct {
	bookings map[string]*model.Booking
}

func (f *fakeBookings) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	if b, ok := f.bookings[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (f *fakeBookings) setStatus(id string, status model.BookingStatus) {
	f.bookings[id].Status = status
}

type mockWorkflowCallback struct {
	mu       sync.Mutex
	accepted map[string]string
}

func (m *mockWorkflowCallback) AcknowledgeAgentAcceptance(ctx context.Context, bookingID, agentID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.accepted == nil {
		m.accepted = map[string]string{}
	}
	m.accepted[bookingID] = agentID
	return nil
}

type fixture struct {
	svc       AgentService
	repo      *fakeAssignmentRepository
	directory *fakeDirectory
	bookings  *fakeBookings
	workflow  *mockWorkflowCallback
	sink      *notify.Recorder
	clock     *clock.Manual
}

func agent(id string, max, open int, specializations ...string) *model.TalentProfile {
	return &model.TalentProfile{
		ID: id, Name: id, Kind: model.KindAgent, ManagementTier: model.TierFull, Active: true,
		Specializations: specializations, MaxConcurrentAssignments: max, OpenAssignments: open,
	}
}

func newFixture(t *testing.T, agents ...*model.TalentProfile) *fixture {
	t.Helper()
	cfg := &config.Config{Log: logger.Discard(), AgentCommissionRate: 0.15}

	profiles := []*model.TalentProfile{
		{ID: "talent-managed", Kind: model.KindTalent, ManagementTier: model.TierFull},
		{ID: "talent-standard", Kind: model.KindTalent, ManagementTier: model.TierStandard},
	}
	f := &fixture{
		repo:      &fakeAssignmentRepository{},
		directory: &fakeDirectory{profiles: append(profiles, agents...)},
		bookings: &fakeBookings{bookings: map[string]*model.Booking{
			"B1": {ID: "B1", TalentID: "talent-managed", BookerID: "booker-1", TalentFee: 1000, Status: model.BookingUnderReview},
			"B2": {ID: "B2", TalentID: "talent-managed", BookerID: "booker-2", TalentFee: 2000, Status: model.BookingUnderReview},
			"B3": {ID: "B3", TalentID: "talent-standard", BookerID: "booker-1", TalentFee: 500, Status: model.BookingUnderReview},
		}},
		workflow: &mockWorkflowCallback{},
		sink:     &notify.Recorder{},
		clock:    clock.NewManual(now),
	}
	f.svc = NewAgentService(f.repo, passthroughTx{}, f.bookings, f.workflow, f.directory,
		matcher.New(f.directory), validator.NewOfferValidator(cfg.Log), f.sink, f.clock, cfg)
	return f
}

func TestAutoAssign_PicksFirstEligibleAgent(t *testing.T) {
	f := newFixture(t,
		agent("A0", 2, 2, "talent_representation"),
		agent("A-unrelated", 5, 0, "catering"),
		agent("A1", 3, 1, "Talent Representation"),
		agent("A2", 3, 0, "booking_management"),
	)

	assigned, err := f.svc.AutoAssign(context.Background(), "B1")
	if err != nil || !assigned {
		t.Fatalf("AutoAssign() = %v, %v; want true, nil", assigned, err)
	}

	assignments, _ := f.svc.GetAssignments(context.Background(), "B1")
	if len(assignments) != 1 {
		t.Fatalf("len(assignments) = %d, want 1", len(assignments))
	}
	a := assignments[0]
	if a.AgentID != "A1" || a.Status != model.AssignmentAssigned || a.CommissionRate != 0.15 || !a.SystemGenerated {
		t.Errorf("assignment = %+v", a)
	}
	if a.TalentFee != 1000 || a.ID == "" {
		t.Errorf("assignment fee/id = %v / %q", a.TalentFee, a.ID)
	}
	if got := f.directory.open("A1"); got != 2 {
		t.Errorf("A1 open assignments = %d, want 2", got)
	}
	if f.sink.Count(notify.EventAgentAssigned) != 1 {
		t.Error("agent should be notified")
	}

	again, err := f.svc.AutoAssign(context.Background(), "B1")
	if err != nil || !again {
		t.Fatalf("second AutoAssign() = %v, %v", again, err)
	}
	if assignments, _ := f.svc.GetAssignments(context.Background(), "B1"); len(assignments) != 1 {
		t.Errorf("second call created a duplicate: %d assignments", len(assignments))
	}
	if got := f.directory.open("A1"); got != 2 {
		t.Errorf("second call reserved capacity again: open = %d", got)
	}
}

func TestAutoAssign_NoOps(t *testing.T) {
	tests := []struct {
		name      string
		bookingID string
		agents    []*model.TalentProfile
	}{
		{"standard talent", "B3", []*model.TalentProfile{agent("A1", 3, 0, "talent_representation")}},
		{"no agent with capacity", "B1", []*model.TalentProfile{agent("A1", 1, 1, "talent_representation")}},
		{"no relevant specialization", "B1", []*model.TalentProfile{agent("A1", 3, 0, "catering")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, tt.agents...)
			assigned, err := f.svc.AutoAssign(context.Background(), tt.bookingID)
			if err != nil || assigned {
				t.Fatalf("AutoAssign() = %v, %v; want false, nil", assigned, err)
			}
			if got, _ := f.svc.GetAssignments(context.Background(), tt.bookingID); len(got) != 0 {
				t.Errorf("no-op created %d assignments", len(got))
			}
			if len(f.sink.Sent()) != 0 {
				t.Errorf("no-op sent notifications: %+v", f.sink.Sent())
			}
		})
	}
}

func TestAutoAssign_ClosedBookingKeepsCapacity(t *testing.T) {
	for _, status := range []model.BookingStatus{model.BookingRejected, model.BookingCancelled, model.BookingConfirmed} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t, agent("A1", 1, 0, "talent_representation"))
			ctx := context.Background()
			f.bookings.setStatus("B1", status)

			assigned, err := f.svc.AutoAssign(ctx, "B1")
			if err != nil || assigned {
				t.Fatalf("AutoAssign(B1) = %v, %v; want false, nil", assigned, err)
			}
			if got := f.directory.open("A1"); got != 0 {
				t.Errorf("open assignments = %d, want 0", got)
			}
			if assigned, err := f.svc.AutoAssign(ctx, "B2"); err != nil || !assigned {
				t.Errorf("AutoAssign(B2) = %v, %v; want true, nil", assigned, err)
			}
		})
	}
}

func TestAutoAssign_ConcurrentBookingsDoNotOverbook(t *testing.T) {
	f := newFixture(t,
		agent("A1", 1, 0, "event_coordination"),
		agent("A2", 1, 0, "event_coordination"),
	)

	var wg sync.WaitGroup
	for _, id := range []string{"B1", "B2"} {
		wg.Add(1)
		go func(bookingID string) {
			defer wg.Done()
			assigned, err := f.svc.AutoAssign(context.Background(), bookingID)
			if err != nil || !assigned {
				t.Errorf("AutoAssign(%s) = %v, %v", bookingID, assigned, err)
			}
		}(id)
	}
	wg.Wait()

	if f.directory.open("A1") != 1 || f.directory.open("A2") != 1 {
		t.Errorf("open assignments A1=%d A2=%d, want 1 each", f.directory.open("A1"), f.directory.open("A2"))
	}
	b1, _ := f.svc.GetAssignments(context.Background(), "B1")
	b2, _ := f.svc.GetAssignments(context.Background(), "B2")
	if len(b1) != 1 || len(b2) != 1 || b1[0].AgentID == b2[0].AgentID {
		t.Errorf("bookings share an agent: %+v %+v", b1, b2)
	}
}

func assign(t *testing.T, f *fixture) {
	t.Helper()
	if ok, err := f.svc.AutoAssign(context.Background(), "B1"); err != nil || !ok {
		t.Fatalf("AutoAssign() = %v, %v", ok, err)
	}
}

func offer() *model.CounterOffer {
	return &model.CounterOffer{
		ProposedPrice: 1200,
		OriginalPrice: 1000,
		Terms:         "50% deposit",
		ValidUntil:    now.Add(48 * time.Hour),
	}
}

func TestCounterOffer_Declined(t *testing.T) {
	f := newFixture(t, agent("A1", 3, 1, "talent_representation"))
	ctx := context.Background()
	assign(t, f)

	a, err := f.svc.CreateCounterOffer(ctx, "B1", "A1", offer())
	if err != nil {
		t.Fatalf("CreateCounterOffer() error = %v", err)
	}
	if a.Status != model.AssignmentCounterOffered || a.CounterOffer.ProposedPrice != 1200 {
		t.Errorf("assignment = %+v", a)
	}
	if f.sink.Count(notify.EventCounterOfferCreated) != 1 {
		t.Error("booker should be notified of the offer")
	}

	a, err = f.svc.RespondToCounterOffer(ctx, "B1", "A1", model.OfferDeclined, "booker-1")
	if err != nil {
		t.Fatalf("RespondToCounterOffer() error = %v", err)
	}
	if a.Status != model.AssignmentCancelled || a.CounterOffer.Response != model.OfferDeclined {
		t.Errorf("assignment = %+v", a)
	}
	if got := f.directory.open("A1"); got != 1 {
		t.Errorf("capacity not released: open = %d, want 1", got)
	}
	if len(f.workflow.accepted) != 0 {
		t.Error("decline must not touch the booking")
	}

	var intervention *notify.Notification
	for _, n := range f.sink.Sent() {
		if n.Event == notify.EventManualIntervention {
			intervention = &n
		}
	}
	if intervention == nil || intervention.RecipientID != notify.OperationsRecipient {
		t.Errorf("manual intervention notification = %+v", intervention)
	}

	_, err = f.svc.RespondToCounterOffer(ctx, "B1", "A1", model.OfferAccepted, "booker-1")
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Errorf("second response error = %v, want INVALID_STATE", err)
	}
}

func TestCounterOffer_Accepted(t *testing.T) {
	f := newFixture(t, agent("A1", 3, 0, "talent_representation"))
	ctx := context.Background()
	assign(t, f)

	if _, err := f.svc.CreateCounterOffer(ctx, "B1", "A1", offer()); err != nil {
		t.Fatalf("CreateCounterOffer() error = %v", err)
	}
	a, err := f.svc.RespondToCounterOffer(ctx, "B1", "A1", model.OfferAccepted, "booker-1")
	if err != nil {
		t.Fatalf("RespondToCounterOffer() error = %v", err)
	}
	if a.Status != model.AssignmentConfirmed || a.TalentFee != 1200 {
		t.Errorf("assignment = %+v", a)
	}
	if f.workflow.accepted["B1"] != "A1" {
		t.Errorf("engine callback = %v", f.workflow.accepted)
	}

	m, err := f.svc.Metrics(ctx, "A1")
	if err != nil {
		t.Fatalf("Metrics() error = %v", err)
	}
	if m.TotalAssignments != 1 || m.ConfirmedAssignments != 1 || m.SuccessRate != 1 {
		t.Errorf("metrics = %+v", m)
	}
	if m.CommissionEarned != 180 {
		t.Errorf("CommissionEarned = %v, want 180", m.CommissionEarned)
	}
}

func TestCounterOffer_Errors(t *testing.T) {
	f := newFixture(t, agent("A1", 3, 0, "talent_representation"))
	ctx := context.Background()
	assign(t, f)

	if _, err := f.svc.CreateCounterOffer(ctx, "B1", "A9", offer()); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("unknown agent error = %v, want NOT_FOUND", err)
	}

	expired := offer()
	expired.ValidUntil = now.Add(-time.Minute)
	if _, err := f.svc.CreateCounterOffer(ctx, "B1", "A1", expired); !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("past valid_until error = %v, want VALIDATION_ERROR", err)
	}

	if _, err := f.svc.RespondToCounterOffer(ctx, "B1", "A1", model.OfferAccepted, "booker-1"); !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Errorf("respond without offer error = %v, want INVALID_STATE", err)
	}

	if _, err := f.svc.CreateCounterOffer(ctx, "B1", "A1", offer()); err != nil {
		t.Fatalf("CreateCounterOffer() error = %v", err)
	}
	if _, err := f.svc.CreateCounterOffer(ctx, "B1", "A1", offer()); !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Errorf("second offer error = %v, want INVALID_STATE", err)
	}
	if _, err := f.svc.RespondToCounterOffer(ctx, "B1", "A1", model.OfferAccepted, "someone-else"); !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Errorf("foreign responder error = %v, want UNAUTHORIZED", err)
	}

	f.clock.Advance(49 * time.Hour)
	if _, err := f.svc.RespondToCounterOffer(ctx, "B1", "A1", model.OfferAccepted, "booker-1"); !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Errorf("accepting expired offer error = %v, want INVALID_STATE", err)
	}
	if _, err := f.svc.RespondToCounterOffer(ctx, "B1", "A1", model.OfferDeclined, "booker-1"); err != nil {
		t.Errorf("declining expired offer error = %v", err)
	}
}

func TestCreateCounterOffer_ClosedBooking(t *testing.T) {
	for _, status := range []model.BookingStatus{model.BookingRejected, model.BookingCancelled} {
		t.Run(string(status), func(t *testing.T) {
			f := newFixture(t, agent("A1", 3, 0, "talent_representation"))
			assign(t, f)
			f.bookings.setStatus("B1", status)

			_, err := f.svc.CreateCounterOffer(context.Background(), "B1", "A1", offer())
			if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
				t.Errorf("CreateCounterOffer() error = %v, want INVALID_STATE", err)
			}
			if f.sink.Count(notify.EventCounterOfferCreated) != 0 {
				t.Error("booker notified of an offer on a closed booking")
			}
			a, _ := f.repo.FindActiveByBooking(context.Background(), "B1")
			if a == nil || a.Status != model.AssignmentAssigned {
				t.Errorf("assignment = %+v, want still assigned", a)
			}
		})
	}
}

func TestReleaseBooking(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(t *testing.T, f *fixture)
		wantStatus model.AssignmentStatus
		wantOpen   int
	}{
		{"assigned", func(t *testing.T, f *fixture) { assign(t, f) }, model.AssignmentCancelled, 0},
		{"counter offered", func(t *testing.T, f *fixture) {
			assign(t, f)
			if _, err := f.svc.CreateCounterOffer(context.Background(), "B1", "A1", offer()); err != nil {
				t.Fatalf("CreateCounterOffer() error = %v", err)
			}
		}, model.AssignmentCancelled, 0},
		{"confirmed", func(t *testing.T, f *fixture) {
			assign(t, f)
			if _, err := f.svc.CreateCounterOffer(context.Background(), "B1", "A1", offer()); err != nil {
				t.Fatalf("CreateCounterOffer() error = %v", err)
			}
			if _, err := f.svc.RespondToCounterOffer(context.Background(), "B1", "A1", model.OfferAccepted, "booker-1"); err != nil {
				t.Fatalf("RespondToCounterOffer() error = %v", err)
			}
		}, model.AssignmentConfirmed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, agent("A1", 1, 0, "talent_representation"))
			ctx := context.Background()
			tt.setup(t, f)
			f.bookings.setStatus("B1", model.BookingCancelled)

			if err := f.svc.ReleaseBooking(ctx, "B1"); err != nil {
				t.Fatalf("ReleaseBooking() error = %v", err)
			}
			got, _ := f.svc.GetAssignments(ctx, "B1")
			if len(got) != 1 || got[0].Status != tt.wantStatus {
				t.Fatalf("assignments = %+v, want one %s", got, tt.wantStatus)
			}
			if open := f.directory.open("A1"); open != tt.wantOpen {
				t.Errorf("open assignments = %d, want %d", open, tt.wantOpen)
			}
		})
	}
}

func TestReleaseBooking_FreesAgentForLiveBooking(t *testing.T) {
	f := newFixture(t, agent("A1", 1, 0, "talent_representation"))
	ctx := context.Background()
	assign(t, f)

	if assigned, _ := f.svc.AutoAssign(ctx, "B2"); assigned {
		t.Fatal("A1 should be full before release")
	}
	f.bookings.setStatus("B1", model.BookingRejected)
	if err := f.svc.ReleaseBooking(ctx, "B1"); err != nil {
		t.Fatalf("ReleaseBooking() error = %v", err)
	}
	if f.sink.Count(notify.EventAgentReleased) != 1 {
		t.Error("agent should be notified of the release")
	}
	if assigned, err := f.svc.AutoAssign(ctx, "B2"); err != nil || !assigned {
		t.Errorf("AutoAssign(B2) = %v, %v; want true, nil", assigned, err)
	}

	if err := f.svc.ReleaseBooking(ctx, "B3"); err != nil {
		t.Errorf("ReleaseBooking() without assignment error = %v", err)
	}
}

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name        string
		assignments []*model.AgentAssignment
		want        model.AgentMetrics
	}{
		{"empty", nil, model.AgentMetrics{AgentID: "A1"}},
		{
			name: "mixed",
			assignments: []*model.AgentAssignment{
				{Status: model.AssignmentConfirmed, TalentFee: 1000, CommissionRate: 0.15},
				{Status: model.AssignmentConfirmed, TalentFee: 2000, CommissionRate: 0.1},
				{Status: model.AssignmentAssigned, TalentFee: 500, CommissionRate: 0.15},
				{Status: model.AssignmentCounterOffered, TalentFee: 500, CommissionRate: 0.15},
			},
			want: model.AgentMetrics{
				AgentID: "A1", TotalAssignments: 4, ConfirmedAssignments: 2, PendingAssignments: 2,
				SuccessRate: 0.5, CommissionEarned: 350,
			},
		},
		{
			name:        "cancelled only",
			assignments: []*model.AgentAssignment{{Status: model.AssignmentCancelled, TalentFee: 900, CommissionRate: 0.15}},
			want:        model.AgentMetrics{AgentID: "A1", TotalAssignments: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := computeMetrics("A1", tt.assignments); *got != tt.want {
				t.Errorf("computeMetrics() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
