package handler

import (
	"net/http"
	"strconv"

	"korskola/internal/students/service"
	"korskola/pkg/auth"
	apperrors "korskola/pkg/errors"
	httputil "korskola/pkg/http"
	"korskola/pkg/logger"
	"korskola/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type StudentHandler struct {
	service service.StudentService
	log     *logger.Logger
}

func NewStudentHandler(service service.StudentService, log *logger.Logger) *StudentHandler {
	return &StudentHandler{
		service: service,
		log:     log,
	}
}

func (h *StudentHandler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()

	limit := 0
	if limitStr := query.Get("limit"); limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			if writeErr := httputil.WriteError(w, apperrors.InvalidInput("invalid limit parameter: "+limitStr)); writeErr != nil {
				h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
			}
			return
		}
	}

	students, err := h.service.Search(r.Context(), query.Get("q"), limit)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Search", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, students); err != nil {
		h.log.Error("failed to write success response", "handler", "Search", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StudentHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	student, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, student); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *StudentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var person model.Person
	if err := httputil.DecodeJSON(r, &person); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	student, err := h.service.Create(r.Context(), &person)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Create", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, student); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *StudentHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/students/search", auth.RequireStaff(h.log, h.Search))
	router.GET("/api/v1/students/id/:id", auth.RequireStaff(h.log, h.GetByID))
	router.POST("/api/v1/students", auth.RequireStaff(h.log, h.Create))
}
