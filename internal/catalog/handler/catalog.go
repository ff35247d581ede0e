package handler

import (
	"net/http"

	"korskola/internal/catalog/service"
	httputil "korskola/pkg/http"
	"korskola/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

// ListResponse carries the options together with an optional load notice.
type ListResponse struct {
	Data   any             `json:"data"`
	Notice *service.Notice `json:"notice,omitempty"`
}

type CatalogHandler struct {
	service service.CatalogService
	log     *logger.Logger
}

func NewCatalogHandler(service service.CatalogService, log *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		log:     log,
	}
}

func (h *CatalogHandler) LessonTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, notice := h.service.LoadLessonTypes(r.Context())
	if err := httputil.WriteJSON(w, http.StatusOK, ListResponse{Data: items, Notice: notice}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "LessonTypes", "operation", "WriteJSON", "error", err)
	}
}

func (h *CatalogHandler) TeoriLessonTypes(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, notice := h.service.LoadTeoriLessonTypes(r.Context())
	if err := httputil.WriteJSON(w, http.StatusOK, ListResponse{Data: items, Notice: notice}); err != nil {
		h.log.Error("failed to write JSON response", "handler", "TeoriLessonTypes", "operation", "WriteJSON", "error", err)
	}
}

func (h *CatalogHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/catalog/lesson-types", h.LessonTypes)
	router.GET("/api/v1/catalog/teori-lesson-types", h.TeoriLessonTypes)
}
