package errors

import "errors"

var (
	ErrStepNotAllowed        = errors.New("event is not allowed at the current step")
	ErrPrerequisiteMissing   = errors.New("the current step is not complete")
	ErrModeMismatch          = errors.New("event does not match the draft's booking type")
	ErrInvalidEvent          = errors.New("invalid wizard event")
	ErrSupervisorsNotAllowed = errors.New("the selected lesson type does not allow supervisors")
	ErrSupervisorIndex       = errors.New("supervisor index out of range")
	ErrSessionMismatch       = errors.New("session does not belong to the selected theory lesson type")
	ErrNoPreviousStep        = errors.New("there is no previous step")
	ErrTerminalStep          = errors.New("confirmation is the last step")
	ErrNoSpotsAvailable      = errors.New("no spots available")

	ErrSessionNotFound  = errors.New("wizard session not found")
	ErrSessionConflict  = errors.New("wizard session was modified concurrently")
	ErrTermsNotAccepted = errors.New("terms not accepted")
)
