package handler

import (
	"net/http"

	"korskola/internal/bookings/service"
	"korskola/pkg/auth"
	httputil "korskola/pkg/http"
	"korskola/pkg/logger"
	"korskola/pkg/middleware"
	"korskola/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service       service.BookingService
	webhookSecret string
	log           *logger.Logger
}

func NewBookingHandler(service service.BookingService, webhookSecret string, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service:       service,
		webhookSecret: webhookSecret,
		log:           log,
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), ps.ByName("id"), auth.FromContext(r.Context()))
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// PaymentCallback receives the synchronous settlement report from the payment
// bridge. The same update may also arrive on the payment.status topic.
func (h *BookingHandler) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	var update model.PaymentUpdate
	if err := httputil.DecodeJSON(r, &update); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PaymentCallback", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	booking, err := h.service.UpdatePaymentStatus(r.Context(), update)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "PaymentCallback", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, booking); err != nil {
		h.log.Error("failed to write success response", "handler", "PaymentCallback", "operation", "WriteSuccess", "error", err)
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/bookings/id/:id", h.GetByID)

	if h.webhookSecret == "" {
		h.log.Warn("Payment webhook secret not set, payment callback route disabled")
		return
	}
	router.Handler(http.MethodPost, "/api/v1/payments/callback",
		middleware.PaymentSignatureVerification(h.webhookSecret, h.log)(http.HandlerFunc(h.PaymentCallback)))
}
