package handler

import (
	"net/http"

	"korskola/internal/wizard/service"
	"korskola/pkg/auth"
	httputil "korskola/pkg/http"
	"korskola/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type WizardHandler struct {
	service service.WizardService
	log     *logger.Logger
}

func NewWizardHandler(service service.WizardService, log *logger.Logger) *WizardHandler {
	return &WizardHandler{
		service: service,
		log:     log,
	}
}

type backRequest struct {
	Version *int64 `json:"version,omitempty"`
}

func (h *WizardHandler) Start(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	view, err := h.service.Start(r.Context(), auth.FromContext(r.Context()))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Start", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, view); err != nil {
		h.log.Error("failed to write created response", "handler", "Start", "operation", "WriteCreated", "error", err)
	}
}

func (h *WizardHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := h.service.Get(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Get", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Get", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WizardHandler) Options(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	opts, err := h.service.Options(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Options", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, opts); err != nil {
		h.log.Error("failed to write success response", "handler", "Options", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WizardHandler) Apply(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req service.EventRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Apply", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	view, err := h.service.Apply(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Apply", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Apply", "operation", "WriteSuccess", "error", err)
	}
}

// Back accepts an empty body; the version is optional.
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req backRequest
	if r.ContentLength != 0 {
		if err := httputil.DecodeJSON(r, &req); err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Back", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	view, err := h.service.Back(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()), req.Version)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Back", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, view); err != nil {
		h.log.Error("failed to write success response", "handler", "Back", "operation", "WriteSuccess", "error", err)
	}
}

func (h *WizardHandler) Confirm(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req service.ConfirmRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	handoff, err := h.service.Confirm(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()), &req)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Confirm", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, handoff); err != nil {
		h.log.Error("failed to write created response", "handler", "Confirm", "operation", "WriteCreated", "error", err)
	}
}

func (h *WizardHandler) Abandon(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Abandon(r.Context(), ps.ByName("id"), auth.FromContext(r.Context())); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Abandon", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	httputil.WriteNoContent(w)
}

func (h *WizardHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/wizard/sessions", h.Start)
	router.GET("/api/v1/wizard/sessions/:id", h.Get)
	router.DELETE("/api/v1/wizard/sessions/:id", h.Abandon)
	router.GET("/api/v1/wizard/sessions/:id/options", h.Options)
	router.POST("/api/v1/wizard/sessions/:id/events", h.Apply)
	router.POST("/api/v1/wizard/sessions/:id/back", h.Back)
	router.POST("/api/v1/wizard/sessions/:id/confirm", h.Confirm)
}
