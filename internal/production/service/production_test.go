package service

import (
	"context"
	"sync"
	"testing"
	"time"

	directoryerrors "backstage/internal/directory/errors"
	"backstage/internal/matcher"
	"backstage/internal/notify"
	"backstage/internal/production/validator"
	"backstage/pkg/clock"
	"backstage/pkg/config"
	mongotx "backstage/pkg/db/mongo"
	apperrors "backstage/pkg/errors"
	"backstage/pkg/logger"
	"backstage/pkg/model"
)

var (
	now        = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	eventStart = time.Date(2026, 7, 18, 20, 0, 0, 0, time.UTC)
)

// store backs both the booking reader and the production repository so the
// conditional plan write sees the same bookings.
type store struct {
	mu          sync.Mutex
	bookings    map[string]*model.Booking
	assignments []*model.ServiceAssignment
}

func (s *store) GetBooking(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}
	c := *b
	return &c, nil
}

func (s *store) CreateAssignments(ctx context.Context, assignments []*model.ServiceAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range assignments {
		c := *a
		s.assignments = append(s.assignments, &c)
	}
	return nil
}

func (s *store) FindByBooking(ctx context.Context, bookingID string) ([]*model.ServiceAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []*model.ServiceAssignment{}
	for _, a := range s.assignments {
		if a.BookingID == bookingID {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *store) SavePlan(ctx context.Context, bookingID string, plan *model.ProductionPlan) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bookings[bookingID]
	if b.Production != nil {
		return false, nil
	}
	b.Production = plan
	return true, nil
}

// snapshotTx serializes transactions and restores service assignments when
// fn fails.
type snapshotTx struct {
	mu    sync.Mutex
	store *store
}

func (tx *snapshotTx) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	tx.mu.Lock()
	defer tx.mu.Unlock()

	tx.store.mu.Lock()
	before := append([]*model.ServiceAssignment(nil), tx.store.assignments...)
	tx.store.mu.Unlock()

	if err := fn(ctx); err != nil {
		tx.store.mu.Lock()
		tx.store.assignments = before
		tx.store.mu.Unlock()
		return err
	}
	return nil
}

type fakeDirectory struct {
	mu         sync.Mutex
	profiles   []*model.TalentProfile
	categories map[string][]string
}

func (d *fakeDirectory) FindByID(ctx context.Context, id string) (*model.TalentProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, p := range d.profiles {
		if p.ID == id {
			c := *p
			return &c, nil
		}
	}
	return nil, directoryerrors.ErrNotFound
}

func (d *fakeDirectory) FindManagedAgents(ctx context.Context) ([]*model.TalentProfile, error) {
	return nil, nil
}

func (d *fakeDirectory) FindProfessionals(ctx context.Context, serviceType model.ServiceType) ([]*model.TalentProfile, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []*model.TalentProfile
	for _, p := range d.profiles {
		if p.Kind == model.KindProfessional && p.ServiceType == serviceType {
			c := *p
			out = append(out, &c)
		}
	}
	return out, nil
}

func (d *fakeDirectory) UpsertService(ctx context.Context, userID string, svc *model.ProfessionalService, categories []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.categories == nil {
		d.categories = map[string][]string{}
	}
	d.categories[userID] = append(d.categories[userID], categories...)
	for _, p := range d.profiles {
		if p.ID == userID {
			p.ServiceType, p.Specializations = svc.ServiceType, svc.Specializations
			return nil
		}
	}
	d.profiles = append(d.profiles, &model.TalentProfile{
		ID: userID, Name: svc.Name, Kind: model.KindProfessional, Active: true,
		ServiceType: svc.ServiceType, Specializations: svc.Specializations, Region: svc.Region,
	})
	return nil
}

func professional(id string, serviceType model.ServiceType, blocked ...time.Time) *model.TalentProfile {
	return &model.TalentProfile{
		ID: id, Name: id, Kind: model.KindProfessional, Active: true, ServiceType: serviceType,
		Specializations: []string{"concerts"}, Portfolio: []string{"https://example.com/" + id},
		Rates: map[string]float64{"hourly": 150}, BlockedDates: blocked,
	}
}

type fixture struct {
	svc       ProductionService
	store     *store
	directory *fakeDirectory
	sink      *notify.Recorder
}

func newFixture(t *testing.T, profiles ...*model.TalentProfile) *fixture {
	t.Helper()
	cfg := &config.Config{
		Log:                        logger.Discard(),
		ProfessionalCommissionRate: 0.10,
		CoordinationChannel:        "#production",
	}
	approved := &model.WorkflowState{CurrentStage: model.StageApproved}
	f := &fixture{
		store: &store{bookings: map[string]*model.Booking{
			"B1": {ID: "B1", BookerID: "booker-1", Status: model.BookingConfirmed, Workflow: approved,
				EventStart: eventStart, EventEnd: eventStart.Add(3 * time.Hour), Region: "london"},
			"B2": {ID: "B2", BookerID: "booker-1", Status: model.BookingUnderReview,
				Workflow: &model.WorkflowState{CurrentStage: model.StageAdminReview},
				EventStart: eventStart, EventEnd: eventStart.Add(3 * time.Hour)},
		}},
		directory: &fakeDirectory{profiles: profiles},
		sink:      &notify.Recorder{},
	}
	f.svc = NewProductionService(f.store, &snapshotTx{store: f.store}, f.store, f.directory,
		matcher.New(f.directory), validator.NewProductionValidator(cfg.Log), f.sink, clock.NewManual(now), cfg)
	return f
}

func TestAssemble(t *testing.T) {
	f := newFixture(t,
		professional("photo-blocked", model.ServicePhotographer, eventStart),
		professional("photo-1", model.ServicePhotographer),
		professional("mkt-1", model.ServiceMarketing),
		professional("video-1", model.ServiceVideographer),
	)
	ctx := context.Background()

	req := model.ProductionRequirements{Photography: true, Marketing: true, SocialMedia: true, SpecialRequests: " no flash "}
	created, err := f.svc.Assemble(ctx, "B1", req)
	if err != nil || !created {
		t.Fatalf("Assemble() = %v, %v; want true, nil", created, err)
	}

	b, _ := f.store.GetBooking(ctx, "B1")
	plan := b.Production
	if plan == nil {
		t.Fatal("plan not stored")
	}
	if len(plan.Assignments) != 2 {
		t.Fatalf("len(Assignments) = %d, want 2 (social media omitted)", len(plan.Assignments))
	}
	photo, mkt := plan.Assignments[0], plan.Assignments[1]
	if photo.ProfessionalID != "photo-1" || photo.Details.Duration != 4 || photo.Details.DurationUnit != model.UnitHours {
		t.Errorf("photography = %+v", photo)
	}
	if photo.Details.SpecialRequests != "no flash" || photo.CommissionRate != 0.10 {
		t.Errorf("photography details = %+v rate = %v", photo.Details, photo.CommissionRate)
	}
	if mkt.ProfessionalID != "mkt-1" || mkt.Details.Duration != 10 || mkt.Details.DurationUnit != model.UnitDays {
		t.Errorf("marketing = %+v", mkt)
	}
	if plan.Coordination.LeadCoordinator != "mkt-1" {
		t.Errorf("LeadCoordinator = %q, want mkt-1", plan.Coordination.LeadCoordinator)
	}
	if len(plan.Coordination.Deliverables) != 2 {
		t.Errorf("Deliverables = %+v", plan.Coordination.Deliverables)
	}
	if f.sink.Count(notify.EventProfessionalBooked) != 2 || f.sink.Count(notify.EventTeamAssembled) != 1 {
		t.Errorf("notifications = %+v", f.sink.Sent())
	}

	again, err := f.svc.Assemble(ctx, "B1", req)
	if err != nil || again {
		t.Fatalf("second Assemble() = %v, %v; want false, nil", again, err)
	}
	team, _ := f.store.FindByBooking(ctx, "B1")
	if len(team) != 2 {
		t.Errorf("retry duplicated assignments: %d", len(team))
	}
}

func TestAssemble_ConcurrentCallsCreateOnePlan(t *testing.T) {
	f := newFixture(t, professional("photo-1", model.ServicePhotographer))

	const callers = 5
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ok, err := f.svc.Assemble(context.Background(), "B1", model.ProductionRequirements{Photography: true})
			if err != nil {
				t.Errorf("Assemble() error = %v", err)
				return
			}
			if ok {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	team, _ := f.store.FindByBooking(context.Background(), "B1")
	if len(team) != 1 {
		t.Errorf("service assignments = %d, want 1", len(team))
	}
}

func TestAssemble_RequiresApprovedWorkflow(t *testing.T) {
	f := newFixture(t, professional("photo-1", model.ServicePhotographer))

	_, err := f.svc.Assemble(context.Background(), "B2", model.ProductionRequirements{Photography: true})
	if !apperrors.HasCode(err, apperrors.CodeInvalidState) {
		t.Errorf("error = %v, want INVALID_STATE", err)
	}
	_, err = f.svc.Assemble(context.Background(), "missing", model.ProductionRequirements{Photography: true})
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("error = %v, want NOT_FOUND", err)
	}
}

func TestGetTeam(t *testing.T) {
	f := newFixture(t, professional("video-1", model.ServiceVideographer))
	ctx := context.Background()
	if _, err := f.svc.Assemble(ctx, "B1", model.ProductionRequirements{Videography: true}); err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	team, err := f.svc.GetTeam(ctx, "B1")
	if err != nil {
		t.Fatalf("GetTeam() error = %v", err)
	}
	if len(team) != 1 {
		t.Fatalf("len(team) = %d, want 1", len(team))
	}
	m := team[0]
	if m.Name != "video-1" || m.Rates["hourly"] != 150 || len(m.Portfolio) != 1 || m.ServiceType != model.ServiceVideographer {
		t.Errorf("member = %+v", m)
	}
}

func TestRegisterProfessionalService(t *testing.T) {
	f := newFixture(t)
	svc := &model.ProfessionalService{
		Name:            "  Mo   Adeyemi ",
		ServiceType:     model.ServicePhotographer,
		Specializations: []string{"Live Music", "live_music", "Portraits"},
		Region:          " London ",
	}

	p, err := f.svc.RegisterProfessionalService(context.Background(), "user-42", svc)
	if err != nil {
		t.Fatalf("RegisterProfessionalService() error = %v", err)
	}
	if p.Name != "Mo Adeyemi" || p.Kind != model.KindProfessional {
		t.Errorf("profile = %+v", p)
	}
	want := []string{"photographer_live_music", "photographer_portraits"}
	got := f.directory.categories["user-42"]
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("categories = %v, want %v", got, want)
	}

	_, err = f.svc.RegisterProfessionalService(context.Background(), "user-43", &model.ProfessionalService{
		Name: "No Type", Specializations: []string{"x"},
	})
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Errorf("missing service_type error = %v, want VALIDATION_ERROR", err)
	}
}

func TestFindProfessionals(t *testing.T) {
	f := newFixture(t,
		professional("photo-1", model.ServicePhotographer, eventStart.Add(-3*24*time.Hour)),
		professional("photo-2", model.ServicePhotographer, eventStart),
		professional("video-1", model.ServiceVideographer),
	)

	got, err := f.svc.FindProfessionals(context.Background(), matcher.Criteria{
		ServiceType:    model.ServicePhotographer,
		Specialization: "Concerts",
		Window:         &matcher.DateWindow{Start: eventStart, End: eventStart.Add(time.Hour)},
	})
	if err != nil {
		t.Fatalf("FindProfessionals() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != "photo-1" {
		t.Errorf("got %d professionals, want only photo-1", len(got))
	}

	_, err = f.svc.FindProfessionals(context.Background(), matcher.Criteria{ServiceType: "juggler"})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("unknown service type error = %v, want INVALID_INPUT", err)
	}
}

func TestBookProfessional(t *testing.T) {
	f := newFixture(t,
		professional("social-1", model.ServiceSocialMedia),
		professional("photo-blocked", model.ServicePhotographer, eventStart),
	)
	ctx := context.Background()
	details := func() *model.ServiceDetails {
		return &model.ServiceDetails{Duration: 3, DurationUnit: model.UnitDays, Requirements: []string{"live_updates"}}
	}

	a, err := f.svc.BookProfessional(ctx, "B2", "social-1", details())
	if err != nil {
		t.Fatalf("BookProfessional() error = %v", err)
	}
	if a.ServiceType != model.ServiceSocialMedia || a.CommissionRate != 0.10 || a.Status != model.ServiceAssigned {
		t.Errorf("assignment = %+v", a)
	}
	if f.sink.Count(notify.EventProfessionalBooked) != 1 {
		t.Error("professional should be notified")
	}

	tests := []struct {
		name           string
		professionalID string
		details        *model.ServiceDetails
		wantCode       string
	}{
		{"already booked", "social-1", details(), apperrors.CodeConflict},
		{"blocked on event day", "photo-blocked", details(), apperrors.CodeConflict},
		{"unknown professional", "nobody", details(), apperrors.CodeNotFound},
		{"bad unit", "social-1", &model.ServiceDetails{Duration: 1, DurationUnit: "weeks"}, apperrors.CodeValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.BookProfessional(ctx, "B2", tt.professionalID, tt.details)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Errorf("error = %v, want %s", err, tt.wantCode)
			}
		})
	}
}
