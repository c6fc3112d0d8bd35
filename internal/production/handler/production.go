package handler

import (
	"net/http"

	"backstage/internal/matcher"
	"backstage/internal/production/service"
	httputil "backstage/pkg/http"
	"backstage/pkg/logger"
	"backstage/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ProductionHandler struct {
	service service.ProductionService
	log     *logger.Logger
}

func NewProductionHandler(service service.ProductionService, log *logger.Logger) *ProductionHandler {
	return &ProductionHandler{
		service: service,
		log:     log,
	}
}

type bookProfessionalRequest struct {
	ProfessionalID string `json:"professional_id"`
	model.ServiceDetails
}

func (h *ProductionHandler) Assemble(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.ProductionRequirements
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "Assemble", err)
		return
	}

	created, err := h.service.Assemble(r.Context(), ps.ByName("id"), req)
	if err != nil {
		h.writeError(w, "Assemble", err)
		return
	}
	h.writeSuccess(w, "Assemble", map[string]bool{"created": created})
}

func (h *ProductionHandler) GetTeam(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	team, err := h.service.GetTeam(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetTeam", err)
		return
	}
	h.writeSuccess(w, "GetTeam", team)
}

func (h *ProductionHandler) RegisterService(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var svc model.ProfessionalService
	if err := httputil.DecodeJSON(r, &svc); err != nil {
		h.writeError(w, "RegisterService", err)
		return
	}

	profile, err := h.service.RegisterProfessionalService(r.Context(), ps.ByName("id"), &svc)
	if err != nil {
		h.writeError(w, "RegisterService", err)
		return
	}
	if err := httputil.WriteCreated(w, profile); err != nil {
		h.log.Error("failed to write created response", "handler", "RegisterService", "operation", "WriteCreated", "error", err)
	}
}

func (h *ProductionHandler) FindProfessionals(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	criteria := matcher.Criteria{
		ServiceType:    model.ServiceType(query.Get("service_type")),
		Specialization: query.Get("specialization"),
		Region:         query.Get("region"),
	}

	from, err := httputil.QueryTime(r, "from")
	if err != nil {
		h.writeError(w, "FindProfessionals", err)
		return
	}
	to, err := httputil.QueryTime(r, "to")
	if err != nil {
		h.writeError(w, "FindProfessionals", err)
		return
	}
	switch {
	case from != nil && to != nil:
		criteria.Window = &matcher.DateWindow{Start: *from, End: *to}
	case from != nil:
		criteria.Window = &matcher.DateWindow{Start: *from, End: *from}
	case to != nil:
		criteria.Window = &matcher.DateWindow{Start: *to, End: *to}
	}

	professionals, err := h.service.FindProfessionals(r.Context(), criteria)
	if err != nil {
		h.writeError(w, "FindProfessionals", err)
		return
	}
	h.writeSuccess(w, "FindProfessionals", professionals)
}

func (h *ProductionHandler) BookProfessional(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req bookProfessionalRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		h.writeError(w, "BookProfessional", err)
		return
	}

	assignment, err := h.service.BookProfessional(r.Context(), ps.ByName("id"), req.ProfessionalID, &req.ServiceDetails)
	if err != nil {
		h.writeError(w, "BookProfessional", err)
		return
	}
	if err := httputil.WriteCreated(w, assignment); err != nil {
		h.log.Error("failed to write created response", "handler", "BookProfessional", "operation", "WriteCreated", "error", err)
	}
}

func (h *ProductionHandler) writeSuccess(w http.ResponseWriter, name string, data any) {
	if err := httputil.WriteSuccess(w, data); err != nil {
		h.log.Error("failed to write success response", "handler", name, "operation", "WriteSuccess", "error", err)
	}
}

func (h *ProductionHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ProductionHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings/:id/production", h.Assemble)
	router.GET("/api/v1/bookings/:id/production/team", h.GetTeam)
	router.POST("/api/v1/bookings/:id/professionals", h.BookProfessional)
	router.GET("/api/v1/professionals", h.FindProfessionals)
	router.POST("/api/v1/professionals/:id/services", h.RegisterService)
}
