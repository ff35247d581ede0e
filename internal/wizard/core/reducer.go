package core

import (
	"fmt"
	"time"

	wizarderrors "korskola/internal/wizard/errors"
	"korskola/pkg/locale"
	"korskola/pkg/model"
)

// Reduce applies e to d and returns the new draft. d is never modified.
func Reduce(d model.Draft, e Event) (model.Draft, error) {
	out := d.Clone()

	switch e.Type {
	case EventSelectLessonType:
		if e.LessonType == nil {
			return d, fmt.Errorf("%w: lesson type is required", wizarderrors.ErrInvalidEvent)
		}
		out.Selection = &model.LessonSelection{LessonType: *e.LessonType}
		out.Supervisors = nil

	case EventSelectTeoriLessonType:
		if e.TeoriLessonType == nil {
			return d, fmt.Errorf("%w: theory lesson type is required", wizarderrors.ErrInvalidEvent)
		}
		out.Selection = &model.TeoriSelection{LessonType: *e.TeoriLessonType}
		out.Supervisors = nil

	case EventSelectTeoriSession:
		t, ok := out.Teori()
		if !ok {
			return d, wizarderrors.ErrModeMismatch
		}
		if e.TeoriSession == nil {
			return d, fmt.Errorf("%w: session is required", wizarderrors.ErrInvalidEvent)
		}
		if e.TeoriSession.TeoriLessonTypeID != t.LessonType.ID {
			return d, wizarderrors.ErrSessionMismatch
		}
		s := *e.TeoriSession
		t.Session = &s

	case EventSelectDateTime:
		l, ok := out.Lesson()
		if !ok {
			return d, wizarderrors.ErrModeMismatch
		}
		if e.Date == "" || e.Time == "" {
			return d, fmt.Errorf("%w: date and time are required", wizarderrors.ErrInvalidEvent)
		}
		if _, err := locale.ParseLocal(e.Date, e.Time, time.UTC); err != nil {
			return d, fmt.Errorf("%w: %v", wizarderrors.ErrInvalidEvent, err)
		}
		l.Date = e.Date
		l.Time = e.Time

	case EventSelectTransmission:
		l, ok := out.Lesson()
		if !ok {
			return d, wizarderrors.ErrModeMismatch
		}
		if !e.Transmission.Valid() {
			return d, fmt.Errorf("%w: transmission must be manual or automatic", wizarderrors.ErrInvalidEvent)
		}
		l.Transmission = e.Transmission

	case EventSelectStudent:
		if e.Student == nil || e.Student.UserID == "" {
			return d, fmt.Errorf("%w: student is required", wizarderrors.ErrInvalidEvent)
		}
		p := *e.Student
		p.Kind = model.ParticipantUser
		p.Guest = nil
		out.Student = &p

	case EventRegisterGuest:
		if e.Guest == nil {
			return d, fmt.Errorf("%w: guest details are required", wizarderrors.ErrInvalidEvent)
		}
		g := *e.Guest
		out.Student = &model.Participant{Kind: model.ParticipantGuest, Name: g.FullName(), Guest: &g}

	case EventAddSupervisor:
		if !out.AllowsSupervisors() {
			return d, wizarderrors.ErrSupervisorsNotAllowed
		}
		if e.Supervisor == nil {
			return d, fmt.Errorf("%w: supervisor is required", wizarderrors.ErrInvalidEvent)
		}
		out.Supervisors = append(out.Supervisors, *e.Supervisor)

	case EventRemoveSupervisor:
		if e.Index < 0 || e.Index >= len(out.Supervisors) {
			return d, wizarderrors.ErrSupervisorIndex
		}
		out.Supervisors = append(out.Supervisors[:e.Index], out.Supervisors[e.Index+1:]...)
		if len(out.Supervisors) == 0 {
			out.Supervisors = nil
		}

	case EventContinue:

	default:
		return d, fmt.Errorf("%w: unknown event %q", wizarderrors.ErrInvalidEvent, e.Type)
	}

	return out, nil
}

// Transition gates, reduces and, for advancing events, moves to the next step.
// On error the step and draft are returned unchanged.
func Transition(step Step, d model.Draft, user *model.ActingUser, e Event) (Step, model.Draft, error) {
	if !Accepts(step, e.Type) {
		return step, d, wizarderrors.ErrStepNotAllowed
	}

	out, err := Reduce(d, e)
	if err != nil {
		return step, d, err
	}
	if !Advances(e.Type) {
		return step, out, nil
	}

	next, err := Next(step, out, user)
	if err != nil {
		return step, d, err
	}
	return next, out, nil
}
