package eligibility

import (
	"errors"
	"fmt"
	"time"

	wizarderrors "korskola/internal/wizard/errors"
	"korskola/pkg/locale"
	"korskola/pkg/model"
	"korskola/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// CapacityError reports a theory session that cannot seat the requested
// participants. It matches wizarderrors.ErrNoSpotsAvailable.
type CapacityError struct {
	Available int
	Needed    int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("no spots available: %d needed, %d available", e.Needed, e.Available)
}

func (e *CapacityError) Unwrap() error {
	return wizarderrors.ErrNoSpotsAvailable
}

type Checker struct {
	validate              *validator.Validate
	requirePersonalNumber bool
	loc                   *time.Location
	now                   func() time.Time
}

type Config struct {
	// SupervisorPersonalNumberRequired makes personal_number mandatory for supervisors.
	SupervisorPersonalNumberRequired bool
	Location                         *time.Location
	Now                              func() time.Time
}

func NewChecker(cfg Config) (*Checker, error) {
	v, err := validation.New()
	if err != nil {
		return nil, err
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Checker{
		validate:              v,
		requirePersonalNumber: cfg.SupervisorPersonalNumberRequired,
		loc:                   cfg.Location,
		now:                   cfg.Now,
	}, nil
}

// CheckCapacity verifies that the session seats the primary participant, the
// draft's supervisors and extra more. Drafts without a session always pass.
func CheckCapacity(d model.Draft, extra int) error {
	t, ok := d.Teori()
	if !ok || t.Session == nil {
		return nil
	}
	s := t.Session
	available := max(0, s.MaxParticipants-s.CurrentParticipants)
	needed := 1 + len(d.Supervisors) + extra
	if needed > available {
		return &CapacityError{Available: available, Needed: needed}
	}
	return nil
}

// Supervisor validates one supervisor. Field paths are prefixed with
// "supervisors[index]".
func (c *Checker) Supervisor(s model.Supervisor, index int) validation.FieldErrors {
	prefix := fmt.Sprintf("supervisors[%d]", index)
	out := validation.FieldErrors{}

	if err := c.validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			out[prefix] = err.Error()
			return out
		}
		out = validation.Translate(verrs, prefix)
	}
	if c.requirePersonalNumber && s.PersonalNumber == "" {
		out.Merge(validation.FieldErrors{prefix + ".personal_number": "personal_number is required"})
	}
	return out
}

// Person validates guest and new-student details.
func (c *Checker) Person(p model.Person, prefix string) validation.FieldErrors {
	if err := c.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return validation.FieldErrors{prefix: err.Error()}
		}
		return validation.Translate(verrs, prefix)
	}
	return nil
}

// CanAddSupervisor runs every check that guards adding s to d. Capacity
// failures are reported before field errors.
func (c *Checker) CanAddSupervisor(d model.Draft, s model.Supervisor) error {
	if !d.AllowsSupervisors() {
		return wizarderrors.ErrSupervisorsNotAllowed
	}
	if err := CheckCapacity(d, 1); err != nil {
		return err
	}
	if errs := c.Supervisor(s, len(d.Supervisors)); len(errs) > 0 {
		return errs
	}
	return nil
}

// CheckDraft verifies that d can be submitted by user.
func (c *Checker) CheckDraft(d model.Draft, user *model.ActingUser) error {
	errs := validation.FieldErrors{}

	switch s := d.Selection.(type) {
	case nil:
		errs["lesson_type"] = "a lesson type must be selected"
	case *model.LessonSelection:
		switch {
		case s.Date == "" || s.Time == "":
			errs["date"] = "date and time must be selected"
		default:
			if past, err := locale.IsPast(s.Date, s.Time, c.loc, c.now()); err != nil {
				errs["date"] = err.Error()
			} else if past {
				errs["date"] = "date must be in the future"
			}
		}
		if !s.Transmission.Valid() {
			errs["transmission"] = "transmission must be manual or automatic"
		}
	case *model.TeoriSelection:
		if s.Session == nil {
			errs["teori_session"] = "a session must be selected"
		} else if past, err := locale.IsPast(s.Session.Date, s.Session.StartTime, c.loc, c.now()); err != nil {
			errs["teori_session"] = err.Error()
		} else if past {
			errs["teori_session"] = "session has already started"
		}
	}

	if len(d.Supervisors) > 0 && !d.AllowsSupervisors() {
		return wizarderrors.ErrSupervisorsNotAllowed
	}
	for i, s := range d.Supervisors {
		errs.Merge(c.Supervisor(s, i))
	}

	errs.Merge(c.participant(d, user))

	if len(errs) > 0 {
		return errs
	}
	return CheckCapacity(d, 0)
}

func (c *Checker) participant(d model.Draft, user *model.ActingUser) validation.FieldErrors {
	switch {
	case user.IsStaff():
		if d.Student == nil || d.Student.Kind != model.ParticipantUser || d.Student.UserID == "" {
			return validation.FieldErrors{"student": "a student must be selected"}
		}
	case user.IsAnonymous():
		if d.Student == nil || d.Student.Kind != model.ParticipantGuest || d.Student.Guest == nil {
			return validation.FieldErrors{"guest": "guest details are required"}
		}
		return c.Person(*d.Student.Guest, "guest")
	}
	return nil
}
