package handler

import (
	"errors"
	"net/http"
	"strconv"

	documentsrepo "backstage/internal/documents/repository"
	apperrors "backstage/pkg/errors"
	httputil "backstage/pkg/http"
	"backstage/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AttachmentHandler struct {
	repo documentsrepo.AttachmentRepository
	log  *logger.Logger
}

func NewAttachmentHandler(repo documentsrepo.AttachmentRepository, log *logger.Logger) *AttachmentHandler {
	return &AttachmentHandler{repo: repo, log: log}
}

func (h *AttachmentHandler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	attachments, err := h.repo.FindByBooking(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "List", apperrors.Internal("Failed to list attachments", err))
		return
	}
	if err := httputil.WriteSuccess(w, attachments); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AttachmentHandler) Download(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	bookingID, docType := ps.ByName("id"), ps.ByName("type")

	a, err := h.repo.FindOne(r.Context(), bookingID, docType)
	if err != nil {
		if errors.Is(err, documentsrepo.ErrNotFound) {
			h.writeError(w, "Download", apperrors.NotFoundWithID("Attachment", docType))
			return
		}
		h.writeError(w, "Download", apperrors.Internal("Failed to load attachment", err))
		return
	}

	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(a.Content)))
	w.Header().Set("Content-Disposition", `attachment; filename="`+a.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(a.Content); err != nil {
		h.log.Error("failed to write attachment", "handler", "Download", "error", err)
	}
}

func (h *AttachmentHandler) writeError(w http.ResponseWriter, name string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", name, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AttachmentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/:id/attachments", h.List)
	router.GET("/api/v1/bookings/:id/attachments/:type", h.Download)
}
