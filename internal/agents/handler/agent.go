package handler

import (
	"net/http"
	"time"

	"backstage/internal/agents/service"
	httputil "backstage/pkg/http"
	"backstage/pkg/logger"
	"backstage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AgentHandler struct {
	service service.AgentService
	log     *logger.Logger
}

func NewAgentHandler(service service.AgentService, log *logger.Logger) *AgentHandler {
	return &AgentHandler{
		service: service,
		log:     log,
	}
}

type counterOfferRequest struct {
	AgentID       string    `json:"agent_id"`
	ProposedPrice float64   `json:"proposed_price"`
	OriginalPrice float64   `json:"original_price"`
	Terms         string    `json:"terms"`
	ValidUntil    time.Time `json:"valid_until"`
	Reason        string    `json:"reason"`
}

type respondRequest struct {
	AgentID     string              `json:"agent_id"`
	Response    model.OfferResponse `json:"response"`
	ResponderID string              `json:"responder_id"`
}

func (h *AgentHandler) AutoAssign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	assigned, err := h.service.AutoAssign(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "AutoAssign", err)
		return
	}
	h.writeSuccess(w, "AutoAssign", map[string]bool{"assigned": assigned})
}

func (h *AgentHandler) CreateCounterOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req counterOfferRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "CreateCounterOffer", err)
		return
	}
	if req.AgentID == "" {
		req.AgentID = httputil.ActorID(r)
	}

	offer := &model.CounterOffer{
		ProposedPrice: req.ProposedPrice,
		OriginalPrice: req.OriginalPrice,
		Terms:         req.Terms,
		ValidUntil:    req.ValidUntil,
		Reason:        req.Reason,
	}
	a, err := h.service.CreateCounterOffer(r.Context(), ps.ByName("id"), req.AgentID, offer)
	if err != nil {
		h.writeError(w, "CreateCounterOffer", err)
		return
	}
	if err := httputil.WriteCreated(w, a); err != nil {
		h.log.Error("failed to write created response", "handler", "CreateCounterOffer", "operation", "WriteCreated", "error", err)
	}
}

func (h *AgentHandler) RespondToCounterOffer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req respondRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "RespondToCounterOffer", err)
		return
	}
	if req.ResponderID == "" {
		req.ResponderID = httputil.ActorID(r)
	}

	a, err := h.service.RespondToCounterOffer(r.Context(), ps.ByName("id"), req.AgentID, req.Response, req.ResponderID)
	if err != nil {
		h.writeError(w, "RespondToCounterOffer", err)
		return
	}
	h.writeSuccess(w, "RespondToCounterOffer", a)
}

func (h *AgentHandler) GetAssignments(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	assignments, err := h.service.GetAssignments(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetAssignments", err)
		return
	}
	h.writeSuccess(w, "GetAssignments", assignments)
}

func (h *AgentHandler) Metrics(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	metrics, err := h.service.Metrics(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Metrics", err)
		return
	}
	h.writeSuccess(w, "Metrics", metrics)
}

func (h *AgentHandler) writeSuccess(w http.ResponseWriter, name string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *AgentHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AgentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/:id/auto-assign-agent", h.AutoAssign)
	router.POST("/api/v1/bookings/:id/counter-offer", h.CreateCounterOffer)
	router.POST("/api/v1/bookings/:id/counter-offer/respond", h.RespondToCounterOffer)
	router.GET("/api/v1/bookings/:id/agent-assignments", h.GetAssignments)
	router.GET("/api/v1/agents/:id/metrics", h.Metrics)
}
