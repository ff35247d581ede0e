package validator

import (
	"errors"
	"fmt"

	"korskola/pkg/logger"
	"korskola/pkg/model"
	"korskola/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize booking validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// Validate checks a booking request. A request carries the fields of exactly
// one booking type.
func (v *BookingValidator) Validate(req *model.BookingRequest) error {
	if err := v.check(req); err != nil {
		return err
	}

	switch req.Mode {
	case model.ModeLesson:
		if req.TeoriLessonTypeID != "" || req.TeoriSessionID != "" {
			return validation.FieldErrors{"mode": "a driving lesson booking cannot reference a theory session"}
		}
	case model.ModeTeori:
		if req.LessonTypeID != "" || req.Date != "" || req.Time != "" || req.Transmission != "" {
			return validation.FieldErrors{"mode": "a theory booking cannot carry driving lesson fields"}
		}
	}

	if req.UserID != "" && req.Guest != nil {
		return validation.FieldErrors{"guest": "a booking is either for a user or for a guest"}
	}

	return nil
}

func (v *BookingValidator) ValidatePaymentUpdate(update *model.PaymentUpdate) error {
	return v.check(update)
}

func (v *BookingValidator) check(s any) error {
	if err := v.validate.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return validation.Translate(validationErrs, "")
		}
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
