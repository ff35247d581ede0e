package service

import (
	"errors"

	"korskola/internal/wizard/core"
	"korskola/internal/wizard/eligibility"
	wizarderrors "korskola/internal/wizard/errors"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/validation"
)

// toAppError maps wizard failures to API errors. AppErrors pass through.
func toAppError(err error, step core.Step, action string) error {
	if apperrors.IsAppError(err) {
		return err
	}

	var capacity *eligibility.CapacityError
	if errors.As(err, &capacity) {
		return apperrors.NoSpotsAvailable(capacity.Error(), capacity.Available)
	}
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return apperrors.Validation("Booking details are invalid", fields.Details())
	}

	switch {
	case errors.Is(err, wizarderrors.ErrStepNotAllowed),
		errors.Is(err, wizarderrors.ErrNoPreviousStep),
		errors.Is(err, wizarderrors.ErrTerminalStep):
		return apperrors.StepNotAllowed(step.String(), action)
	case errors.Is(err, wizarderrors.ErrPrerequisiteMissing):
		return apperrors.Validation("The current step is not complete", map[string]any{"step": step.String()})
	case errors.Is(err, wizarderrors.ErrSupervisorsNotAllowed):
		return apperrors.Validation("Supervisors are not allowed", map[string]any{"supervisors": err.Error()})
	case errors.Is(err, wizarderrors.ErrModeMismatch),
		errors.Is(err, wizarderrors.ErrSessionMismatch),
		errors.Is(err, wizarderrors.ErrSupervisorIndex),
		errors.Is(err, wizarderrors.ErrInvalidEvent):
		return apperrors.InvalidInput(err.Error())
	case errors.Is(err, wizarderrors.ErrNoSpotsAvailable):
		return apperrors.NoSpotsAvailable(err.Error(), 0)
	case errors.Is(err, wizarderrors.ErrTermsNotAccepted):
		return apperrors.TermsNotAccepted()
	case errors.Is(err, wizarderrors.ErrSessionNotFound):
		return apperrors.NotFound("Wizard session")
	case errors.Is(err, wizarderrors.ErrSessionConflict):
		return apperrors.Conflict("The wizard session was changed by another request. Reload and try again.")
	}
	return apperrors.Internal("Wizard request failed", err)
}
