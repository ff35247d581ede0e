package core

import (
	wizarderrors "korskola/internal/wizard/errors"
	"korskola/pkg/model"
)

// ParticipantStep is the step that collects who the booking is for. Staff pick
// an existing student, anonymous visitors register as guests and a signed-in
// student books for themselves.
func ParticipantStep(user *model.ActingUser) Step {
	switch {
	case user.IsStaff():
		return StepStudentSelection
	case user.IsAnonymous():
		return StepGuestRegistration
	}
	return StepConfirmation
}

// Next returns the step after step for the given draft, or an error when the
// current step has not been completed.
func Next(step Step, d model.Draft, user *model.ActingUser) (Step, error) {
	switch step {
	case StepLessonSelection:
		switch d.Mode() {
		case model.ModeLesson:
			return StepDrivingCalendar, nil
		case model.ModeTeori:
			return StepTeoriSessions, nil
		}
		return step, wizarderrors.ErrPrerequisiteMissing

	case StepDrivingCalendar:
		l, ok := d.Lesson()
		if !ok {
			return step, wizarderrors.ErrModeMismatch
		}
		if l.Date == "" || l.Time == "" {
			return step, wizarderrors.ErrPrerequisiteMissing
		}
		return StepGearSelection, nil

	case StepGearSelection:
		l, ok := d.Lesson()
		if !ok {
			return step, wizarderrors.ErrModeMismatch
		}
		if !l.Transmission.Valid() {
			return step, wizarderrors.ErrPrerequisiteMissing
		}
		return ParticipantStep(user), nil

	case StepTeoriSessions:
		t, ok := d.Teori()
		if !ok {
			return step, wizarderrors.ErrModeMismatch
		}
		if t.Session == nil {
			return step, wizarderrors.ErrPrerequisiteMissing
		}
		if t.AllowsSupervisors() {
			return StepSupervisorManagement, nil
		}
		return ParticipantStep(user), nil

	case StepSupervisorManagement:
		if _, ok := d.Teori(); !ok {
			return step, wizarderrors.ErrModeMismatch
		}
		return ParticipantStep(user), nil

	case StepStudentSelection:
		if d.Student == nil || d.Student.Kind != model.ParticipantUser || d.Student.UserID == "" {
			return step, wizarderrors.ErrPrerequisiteMissing
		}
		return StepConfirmation, nil

	case StepGuestRegistration:
		if d.Student == nil || d.Student.Kind != model.ParticipantGuest || d.Student.Guest == nil {
			return step, wizarderrors.ErrPrerequisiteMissing
		}
		return StepConfirmation, nil

	case StepConfirmation:
		return step, wizarderrors.ErrTerminalStep
	}
	return step, wizarderrors.ErrInvalidEvent
}

// Previous returns the step before step. It mirrors Next so that back from any
// step returns to the screen the user came from.
func Previous(step Step, d model.Draft, user *model.ActingUser) (Step, error) {
	switch step {
	case StepLessonSelection:
		return step, wizarderrors.ErrNoPreviousStep
	case StepDrivingCalendar, StepTeoriSessions:
		return StepLessonSelection, nil
	case StepGearSelection:
		return StepDrivingCalendar, nil
	case StepSupervisorManagement:
		return StepTeoriSessions, nil
	case StepStudentSelection, StepGuestRegistration:
		return selectionTail(d), nil
	case StepConfirmation:
		if p := ParticipantStep(user); p != StepConfirmation {
			return p, nil
		}
		return selectionTail(d), nil
	}
	return step, wizarderrors.ErrInvalidEvent
}

// selectionTail is the last selection screen before the participant step.
func selectionTail(d model.Draft) Step {
	if t, ok := d.Teori(); ok {
		if t.AllowsSupervisors() {
			return StepSupervisorManagement
		}
		return StepTeoriSessions
	}
	if _, ok := d.Lesson(); ok {
		return StepGearSelection
	}
	return StepLessonSelection
}

// Back moves to the previous step. Leaving the calendar or the session list
// backwards drops the lesson type choice and with it any supervisors.
func Back(step Step, d model.Draft, user *model.ActingUser) (Step, model.Draft, error) {
	prev, err := Previous(step, d, user)
	if err != nil {
		return step, d, err
	}

	out := d.Clone()
	if step == StepDrivingCalendar || step == StepTeoriSessions {
		out.Selection = nil
		out.Supervisors = nil
		out.TotalPrice = nil
	}
	return prev, out, nil
}
