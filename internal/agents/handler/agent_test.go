package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "backstage/pkg/errors"
	httputil "backstage/pkg/http"
	"backstage/pkg/logger"
	"backstage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockAgentService struct {
	AutoAssignFunc     func(ctx context.Context, bookingID string) (bool, error)
	CreateOfferFunc    func(ctx context.Context, bookingID, agentID string, offer *model.CounterOffer) (*model.AgentAssignment, error)
	RespondFunc        func(ctx context.Context, bookingID, agentID string, response model.OfferResponse, responderID string) (*model.AgentAssignment, error)
	GetAssignmentsFunc func(ctx context.Context, bookingID string) ([]*model.AgentAssignment, error)
	MetricsFunc        func(ctx context.Context, agentID string) (*model.AgentMetrics, error)
	ReleaseBookingFunc func(ctx context.Context, bookingID string) error
}

func (m *mockAgentService) AutoAssign(ctx context.Context, bookingID string) (bool, error) {
	return m.AutoAssignFunc(ctx, bookingID)
}

func (m *mockAgentService) CreateCounterOffer(ctx context.Context, bookingID, agentID string, offer *model.CounterOffer) (*model.AgentAssignment, error) {
	return m.CreateOfferFunc(ctx, bookingID, agentID, offer)
}

func (m *mockAgentService) RespondToCounterOffer(ctx context.Context, bookingID, agentID string, response model.OfferResponse, responderID string) (*model.AgentAssignment, error) {
	return m.RespondFunc(ctx, bookingID, agentID, response, responderID)
}

func (m *mockAgentService) GetAssignments(ctx context.Context, bookingID string) ([]*model.AgentAssignment, error) {
	return m.GetAssignmentsFunc(ctx, bookingID)
}

func (m *mockAgentService) Metrics(ctx context.Context, agentID string) (*model.AgentMetrics, error) {
	return m.MetricsFunc(ctx, agentID)
}

func (m *mockAgentService) ReleaseBooking(ctx context.Context, bookingID string) error {
	return m.ReleaseBookingFunc(ctx, bookingID)
}

func serve(svc *mockAgentService, req *http.Request) *httptest.ResponseRecorder {
	router := httprouter.New()
	NewAgentHandler(svc, logger.Discard()).RegisterRoutes(router)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestAutoAssign_Handler(t *testing.T) {
	svc := &mockAgentService{
		AutoAssignFunc: func(ctx context.Context, bookingID string) (bool, error) {
			return bookingID == "B1", nil
		},
	}
	rec := serve(svc, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/B1/auto-assign-agent", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data map[string]bool `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Data["assigned"] {
		t.Errorf("data = %v", resp.Data)
	}
}

func TestCreateCounterOffer_Handler(t *testing.T) {
	svc := &mockAgentService{
		CreateOfferFunc: func(ctx context.Context, bookingID, agentID string, offer *model.CounterOffer) (*model.AgentAssignment, error) {
			if agentID != "A1" || offer.ProposedPrice != 1200 || offer.ValidUntil.IsZero() {
				t.Errorf("agent=%s offer=%+v", agentID, offer)
			}
			return &model.AgentAssignment{ID: "x", Status: model.AssignmentCounterOffered, CounterOffer: offer}, nil
		},
	}
	body := `{"proposed_price":1200,"original_price":1000,"valid_until":"2026-06-01T00:00:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/B1/counter-offer", strings.NewReader(body))
	req.Header.Set(httputil.HeaderActorID, "A1")

	rec := serve(svc, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestRespondToCounterOffer_InvalidState(t *testing.T) {
	svc := &mockAgentService{
		RespondFunc: func(ctx context.Context, bookingID, agentID string, response model.OfferResponse, responderID string) (*model.AgentAssignment, error) {
			if responderID != "booker-1" || response != model.OfferDeclined {
				t.Errorf("responder=%s response=%s", responderID, response)
			}
			return nil, apperrors.InvalidState("Agent assignment", "cancelled")
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/B1/counter-offer/respond",
		strings.NewReader(`{"agent_id":"A1","response":"declined"}`))
	req.Header.Set(httputil.HeaderActorID, "booker-1")

	rec := serve(svc, req)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d", rec.Code)
	}
	var body httputil.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != apperrors.CodeInvalidState {
		t.Errorf("code = %s", body.Code)
	}
}

func TestMetrics_Handler(t *testing.T) {
	svc := &mockAgentService{
		MetricsFunc: func(ctx context.Context, agentID string) (*model.AgentMetrics, error) {
			return &model.AgentMetrics{AgentID: agentID, TotalAssignments: 2, ConfirmedAssignments: 1, SuccessRate: 0.5}, nil
		},
	}
	rec := serve(svc, httptest.NewRequest(http.MethodGet, "/api/v1/agents/A1/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var resp struct {
		Data model.AgentMetrics `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.AgentID != "A1" || resp.Data.SuccessRate != 0.5 {
		t.Errorf("metrics = %+v", resp.Data)
	}
}
