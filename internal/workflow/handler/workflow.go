package handler

import (
	"net/http"

	"backstage/internal/workflow/service"
	apperrors "backstage/pkg/errors"
	httputil "backstage/pkg/http"
	"backstage/pkg/logger"
	"backstage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type WorkflowHandler struct {
	service service.WorkflowService
	log     *logger.Logger
}

func NewWorkflowHandler(service service.WorkflowService, log *logger.Logger) *WorkflowHandler {
	return &WorkflowHandler{
		service: service,
		log:     log,
	}
}

type stepRequest struct {
	Decision   model.Decision `json:"decision"`
	ApproverID string         `json:"approver_id"`
	Notes      string         `json:"notes"`
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

func (h *WorkflowHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := httputil.DecodeJSON(r, &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := h.service.CreateBooking(r.Context(), &booking); err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, booking); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *WorkflowHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}
	h.writeSuccess(w, "GetByID", booking)
}

func (h *WorkflowHandler) SubmitRider(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var rider model.TechnicalRider
	if err := httputil.DecodeJSON(r, &rider); err != nil {
		h.writeError(w, "SubmitRider", err)
		return
	}
	if rider.SubmittedBy == "" {
		rider.SubmittedBy = httputil.ActorID(r)
	}

	wf, err := h.service.SubmitTechnicalRider(r.Context(), ps.ByName("id"), &rider)
	if err != nil {
		h.writeError(w, "SubmitRider", err)
		return
	}
	if err := httputil.WriteCreated(w, wf); err != nil {
		h.log.Error("failed to write created response", "handler", "SubmitRider", "operation", "WriteCreated", "error", err)
	}
}

func (h *WorkflowHandler) Open(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	wf, err := h.service.OpenWorkflow(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Open", err)
		return
	}
	if err := httputil.WriteCreated(w, wf); err != nil {
		h.log.Error("failed to write created response", "handler", "Open", "operation", "WriteCreated", "error", err)
	}
}

func (h *WorkflowHandler) ProcessStep(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req stepRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "ProcessStep", err)
		return
	}
	if req.ApproverID == "" {
		req.ApproverID = httputil.ActorID(r)
	}

	wf, err := h.service.ProcessStep(r.Context(), ps.ByName("id"), model.Stage(ps.ByName("step")),
		req.Decision, req.ApproverID, req.Notes)
	if err != nil {
		h.writeError(w, "ProcessStep", err)
		return
	}
	h.writeSuccess(w, "ProcessStep", wf)
}

func (h *WorkflowHandler) Status(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	wf, err := h.service.GetStatus(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "Status", err)
		return
	}
	h.writeSuccess(w, "Status", wf)
}

func (h *WorkflowHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req cancelRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			h.writeError(w, "Cancel", err)
			return
		}
	}

	actorID := httputil.ActorID(r)
	if actorID == "" {
		h.writeError(w, "Cancel", apperrors.Unauthorized("X-Actor-ID header is required"))
		return
	}

	if err := h.service.CancelBooking(r.Context(), ps.ByName("id"), actorID, req.Reason); err != nil {
		h.writeError(w, "Cancel", err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *WorkflowHandler) ListPending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	approverID := r.URL.Query().Get("approver_id")
	if approverID == "" {
		approverID = httputil.ActorID(r)
	}

	summaries, err := h.service.ListPending(r.Context(), approverID)
	if err != nil {
		h.writeError(w, "ListPending", err)
		return
	}
	h.writeSuccess(w, "ListPending", summaries)
}

func (h *WorkflowHandler) writeSuccess(w http.ResponseWriter, name string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *WorkflowHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *WorkflowHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.POST("/api/v1/bookings/:id/technical-rider", h.SubmitRider)
	router.POST("/api/v1/bookings/:id/workflow", h.Open)
	router.POST("/api/v1/bookings/:id/approval/:step", h.ProcessStep)
	router.GET("/api/v1/bookings/:id/approval-status", h.Status)
	router.POST("/api/v1/bookings/:id/cancel", h.Cancel)
	router.GET("/api/v1/approvals/pending", h.ListPending)
}
