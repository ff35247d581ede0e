package events

import (
	"context"
	"time"

	apperrors "korskola/pkg/errors"
	"korskola/pkg/kafka"
	"korskola/pkg/model"
)

const (
	EventTypeBookingCreated = "booking.created"
	EventTypePaymentStatus  = "payment.status"

	SchemaVersion = "1"
	Source        = "korskola-wizard"
)

// BookingCreated tells the payment collaborator that a booking awaits payment.
type BookingCreated struct {
	BookingID       string              `json:"booking_id"`
	Mode            model.DraftMode     `json:"mode"`
	LessonTypeID    string              `json:"lesson_type_id,omitempty"`
	TeoriSessionID  string              `json:"teori_session_id,omitempty"`
	UserID          string              `json:"user_id,omitempty"`
	GuestEmail      string              `json:"guest_email,omitempty"`
	SupervisorCount int                 `json:"supervisor_count"`
	TotalPrice      int                 `json:"total_price"`
	PaymentMethod   model.PaymentMethod `json:"payment_method"`
	CreatedAt       time.Time           `json:"created_at"`
}

func NewBookingCreated(b *model.Booking) BookingCreated {
	e := BookingCreated{
		BookingID:       b.ID,
		Mode:            b.Mode,
		LessonTypeID:    b.LessonTypeID,
		TeoriSessionID:  b.TeoriSessionID,
		UserID:          b.UserID,
		SupervisorCount: len(b.Supervisors),
		TotalPrice:      b.TotalPrice,
		PaymentMethod:   b.PaymentMethod,
		CreatedAt:       b.CreatedAt,
	}
	if b.Guest != nil {
		e.GuestEmail = b.Guest.Email
	}
	return e
}

// BookingCreatedMessage is keyed by booking id so every event of one booking
// lands on the same partition.
func BookingCreatedMessage(b *model.Booking, correlationID string) (kafka.Message, error) {
	return kafka.NewMessage().
		WithKey(b.ID).
		WithValue(NewBookingCreated(b)).
		WithEventType(EventTypeBookingCreated).
		WithSchemaVersion(SchemaVersion).
		WithSource(Source).
		WithCorrelationID(correlationID).
		Build()
}

type PaymentUpdater interface {
	UpdatePaymentStatus(ctx context.Context, update model.PaymentUpdate) (*model.Booking, error)
}

// PaymentStatusHandler applies payment.status events. Bad payloads and
// unknown bookings go to the DLQ; database failures are retried.
func PaymentStatusHandler(updater PaymentUpdater) kafka.MessageHandler {
	return func(ctx context.Context, msg kafka.Message) error {
		var update model.PaymentUpdate
		if err := msg.DecodeValue(&update); err != nil {
			return kafka.NewPermanentError("decode payment status", err)
		}

		_, err := updater.UpdatePaymentStatus(ctx, update)
		switch {
		case err == nil:
			return nil
		case apperrors.HasCode(err, apperrors.CodeValidation),
			apperrors.HasCode(err, apperrors.CodeInvalidInput),
			apperrors.HasCode(err, apperrors.CodeNotFound),
			apperrors.HasCode(err, apperrors.CodeConflict):
			return kafka.NewBusinessError("reject payment status", err)
		}
		return kafka.NewTransientError("update payment status", err)
	}
}
