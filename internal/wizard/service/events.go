package service

import (
	"context"

	"korskola/internal/wizard/core"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/model"
	"korskola/pkg/sanitizer"
)

// EventRequest is an event as sent by the client. Catalog and student
// references are ids; Apply resolves them before the draft is touched.
// NewStudent lets staff register a student without leaving the wizard.
type EventRequest struct {
	Type              core.EventType         `json:"type"`
	Version           *int64                 `json:"version,omitempty"`
	LessonTypeID      string                 `json:"lesson_type_id,omitempty"`
	TeoriLessonTypeID string                 `json:"teori_lesson_type_id,omitempty"`
	TeoriSessionID    string                 `json:"teori_session_id,omitempty"`
	Date              string                 `json:"date,omitempty"`
	Time              string                 `json:"time,omitempty"`
	Transmission      model.TransmissionType `json:"transmission,omitempty"`
	StudentID         string                 `json:"student_id,omitempty"`
	NewStudent        *model.Person          `json:"new_student,omitempty"`
	Guest             *model.Person          `json:"guest,omitempty"`
	Supervisor        *model.Supervisor      `json:"supervisor,omitempty"`
	Index             int                    `json:"index,omitempty"`
}

func (s *wizardService) Apply(ctx context.Context, id string, user *model.ActingUser, req *EventRequest) (*View, error) {
	if req == nil || req.Type == "" {
		return nil, apperrors.InvalidInput("Event type is required")
	}

	sess, err := s.load(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(sess, req.Version); err != nil {
		return nil, err
	}
	if !core.Accepts(sess.Step, req.Type) {
		return nil, apperrors.StepNotAllowed(sess.Step.String(), string(req.Type))
	}

	event, err := s.resolve(ctx, sess.Step, sess.Draft, user, req)
	if err != nil {
		s.cfg.Log.Warn("Wizard event rejected", "session_id", sess.ID, "step", sess.Step, "event", req.Type, "error", err)
		return nil, toAppError(err, sess.Step, string(req.Type))
	}

	step, draft, err := core.Transition(sess.Step, sess.Draft, user, event)
	if err != nil {
		s.cfg.Log.Warn("Wizard transition failed", "session_id", sess.ID, "step", sess.Step, "event", req.Type, "error", err)
		return nil, toAppError(err, sess.Step, string(req.Type))
	}

	from := sess.Step
	sess.Step = step
	sess.Draft = s.pricer.Apply(draft, user)
	if err := s.save(ctx, sess, from, string(req.Type)); err != nil {
		return nil, err
	}

	s.cfg.Log.Debug("Wizard event applied", "session_id", sess.ID, "event", req.Type, "from", from, "to", sess.Step)
	return s.newView(sess, user), nil
}

// resolve turns a request into a core event, looking up catalog entries and
// students and running the checks that need more than the draft.
func (s *wizardService) resolve(ctx context.Context, step core.Step, d model.Draft, user *model.ActingUser, req *EventRequest) (core.Event, error) {
	e := core.Event{
		Type:         req.Type,
		Date:         req.Date,
		Time:         req.Time,
		Transmission: req.Transmission,
		Index:        req.Index,
	}

	switch req.Type {
	case core.EventSelectLessonType:
		if req.LessonTypeID == "" {
			return e, apperrors.InvalidInput("lesson_type_id is required")
		}
		lt, err := s.catalog.LessonType(ctx, req.LessonTypeID)
		if err != nil {
			return e, err
		}
		e.LessonType = lt

	case core.EventSelectTeoriLessonType:
		if req.TeoriLessonTypeID == "" {
			return e, apperrors.InvalidInput("teori_lesson_type_id is required")
		}
		tt, err := s.catalog.TeoriLessonType(ctx, req.TeoriLessonTypeID)
		if err != nil {
			return e, err
		}
		e.TeoriLessonType = tt

	case core.EventSelectTeoriSession:
		t, ok := d.Teori()
		if !ok {
			// Let the reducer report the mode mismatch.
			return e, nil
		}
		if req.TeoriSessionID == "" {
			return e, apperrors.InvalidInput("teori_session_id is required")
		}
		ts, err := s.catalog.OpenSession(ctx, t.LessonType.ID, req.TeoriSessionID)
		if err != nil {
			return e, err
		}
		e.TeoriSession = ts

	case core.EventSelectStudent:
		student, err := s.resolveStudent(ctx, user, req)
		if err != nil {
			return e, err
		}
		e.Student = &model.Participant{
			Kind:   model.ParticipantUser,
			UserID: student.ID,
			Name:   student.FullName(),
		}

	case core.EventRegisterGuest:
		if req.Guest == nil {
			return e, apperrors.InvalidInput("guest is required")
		}
		g := *req.Guest
		sanitizer.NormalizePerson(&g)
		if errs := s.checker.Person(g, "guest"); len(errs) > 0 {
			return e, errs
		}
		e.Guest = &g

	case core.EventAddSupervisor:
		if req.Supervisor == nil {
			return e, apperrors.InvalidInput("supervisor is required")
		}
		sup := *req.Supervisor
		sanitizer.NormalizeSupervisor(&sup)
		if err := s.checker.CanAddSupervisor(d, sup); err != nil {
			return e, err
		}
		e.Supervisor = &sup
	}

	return e, nil
}

// resolveStudent returns the student staff picked, creating it first when the
// request carries new student details.
func (s *wizardService) resolveStudent(ctx context.Context, user *model.ActingUser, req *EventRequest) (*model.Student, error) {
	if !user.IsStaff() {
		return nil, apperrors.Forbidden("Only teachers and admins can choose a student")
	}

	switch {
	case req.NewStudent != nil && req.StudentID != "":
		return nil, apperrors.InvalidInput("Send either student_id or new_student, not both")
	case req.NewStudent != nil:
		student, err := s.students.Create(ctx, req.NewStudent)
		if err != nil {
			return nil, err
		}
		s.cfg.Log.Info("Student registered from wizard", "student_id", student.ID, "created_by", user.ID)
		return student, nil
	case req.StudentID != "":
		return s.students.GetByID(ctx, req.StudentID)
	}
	return nil, apperrors.InvalidInput("student_id or new_student is required")
}
