package model

import (
	"encoding/json"
	"fmt"
)

type DraftMode string

const (
	ModeLesson DraftMode = "lesson"
	ModeTeori  DraftMode = "teori"
)

type TransmissionType string

const (
	TransmissionManual    TransmissionType = "manual"
	TransmissionAutomatic TransmissionType = "automatic"
)

func (t TransmissionType) Valid() bool {
	return t == TransmissionManual || t == TransmissionAutomatic
}

// Selection is the catalog choice a draft is built around. It is implemented
// by *LessonSelection and *TeoriSelection only, so a draft can never hold a
// driving lesson and a theory session at the same time.
type Selection interface {
	Mode() DraftMode
	AllowsSupervisors() bool
	clone() Selection
}

type LessonSelection struct {
	LessonType   LessonType       `json:"lesson_type"`
	Date         string           `json:"date,omitempty"`
	Time         string           `json:"time,omitempty"`
	Transmission TransmissionType `json:"transmission,omitempty"`
}

func (l *LessonSelection) Mode() DraftMode         { return ModeLesson }
func (l *LessonSelection) AllowsSupervisors() bool { return l.LessonType.AllowsSupervisors }

func (l *LessonSelection) clone() Selection {
	c := *l
	c.LessonType = cloneLessonType(l.LessonType)
	return &c
}

type TeoriSelection struct {
	LessonType TeoriLessonType `json:"teori_lesson_type"`
	Session    *TeoriSession   `json:"teori_session,omitempty"`
}

func (t *TeoriSelection) Mode() DraftMode         { return ModeTeori }
func (t *TeoriSelection) AllowsSupervisors() bool { return t.LessonType.AllowsSupervisors }

func (t *TeoriSelection) clone() Selection {
	c := &TeoriSelection{LessonType: cloneTeoriLessonType(t.LessonType)}
	if t.Session != nil {
		s := cloneTeoriSession(*t.Session)
		c.Session = &s
	}
	return c
}

type ParticipantKind string

const (
	ParticipantUser  ParticipantKind = "user"
	ParticipantGuest ParticipantKind = "guest"
)

// Participant is the learner the booking is for: an existing student picked by
// staff, or a guest who registered inside the wizard.
type Participant struct {
	Kind   ParticipantKind `json:"kind"`
	UserID string          `json:"user_id,omitempty"`
	Name   string          `json:"name,omitempty"`
	Guest  *Person         `json:"guest,omitempty"`
}

type Supervisor struct {
	Name           string `json:"name" bson:"name" validate:"required,max=120"`
	Email          string `json:"email,omitempty" bson:"email,omitempty" validate:"required_without=Phone,omitempty,email,max=254"`
	Phone          string `json:"phone,omitempty" bson:"phone,omitempty" validate:"required_without=Email,omitempty,se_phone"`
	PersonalNumber string `json:"personal_number,omitempty" bson:"personal_number,omitempty" validate:"omitempty,personnummer"`
}

// Draft is the booking being assembled by the wizard.
type Draft struct {
	Selection   Selection
	Student     *Participant
	Supervisors []Supervisor
	TotalPrice  *int
}

func (d Draft) Mode() DraftMode {
	if d.Selection == nil {
		return ""
	}
	return d.Selection.Mode()
}

func (d Draft) Lesson() (*LessonSelection, bool) {
	l, ok := d.Selection.(*LessonSelection)
	return l, ok
}

func (d Draft) Teori() (*TeoriSelection, bool) {
	t, ok := d.Selection.(*TeoriSelection)
	return t, ok
}

func (d Draft) AllowsSupervisors() bool {
	return d.Selection != nil && d.Selection.AllowsSupervisors()
}

// Clone returns a deep copy that shares no mutable state with d.
func (d Draft) Clone() Draft {
	c := Draft{}
	if d.Selection != nil {
		c.Selection = d.Selection.clone()
	}
	if d.Student != nil {
		p := *d.Student
		if d.Student.Guest != nil {
			g := *d.Student.Guest
			p.Guest = &g
		}
		c.Student = &p
	}
	if d.Supervisors != nil {
		c.Supervisors = append([]Supervisor{}, d.Supervisors...)
	}
	if d.TotalPrice != nil {
		v := *d.TotalPrice
		c.TotalPrice = &v
	}
	return c
}

type draftJSON struct {
	Mode        DraftMode        `json:"mode,omitempty"`
	Lesson      *LessonSelection `json:"lesson,omitempty"`
	Teori       *TeoriSelection  `json:"teori,omitempty"`
	Student     *Participant     `json:"student,omitempty"`
	Supervisors []Supervisor     `json:"supervisors"`
	TotalPrice  *int             `json:"total_price,omitempty"`
}

func (d Draft) MarshalJSON() ([]byte, error) {
	out := draftJSON{
		Student:     d.Student,
		Supervisors: d.Supervisors,
		TotalPrice:  d.TotalPrice,
	}
	if out.Supervisors == nil {
		out.Supervisors = []Supervisor{}
	}
	switch s := d.Selection.(type) {
	case nil:
	case *LessonSelection:
		out.Mode = ModeLesson
		out.Lesson = s
	case *TeoriSelection:
		out.Mode = ModeTeori
		out.Teori = s
	default:
		return nil, fmt.Errorf("unsupported selection type %T", d.Selection)
	}
	return json.Marshal(out)
}

func (d *Draft) UnmarshalJSON(data []byte) error {
	var in draftJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	*d = Draft{
		Student:     in.Student,
		Supervisors: in.Supervisors,
		TotalPrice:  in.TotalPrice,
	}
	if len(d.Supervisors) == 0 {
		d.Supervisors = nil
	}

	switch in.Mode {
	case "":
		if in.Lesson != nil || in.Teori != nil {
			return fmt.Errorf("draft selection present without mode")
		}
	case ModeLesson:
		if in.Lesson == nil || in.Teori != nil {
			return fmt.Errorf("lesson draft must carry exactly the lesson selection")
		}
		d.Selection = in.Lesson
	case ModeTeori:
		if in.Teori == nil || in.Lesson != nil {
			return fmt.Errorf("teori draft must carry exactly the teori selection")
		}
		d.Selection = in.Teori
	default:
		return fmt.Errorf("unknown draft mode %q", in.Mode)
	}
	return nil
}

func cloneLessonType(l LessonType) LessonType {
	l.PriceStudent = cloneInt(l.PriceStudent)
	l.PricePerSupervisor = cloneInt(l.PricePerSupervisor)
	return l
}

func cloneTeoriLessonType(t TeoriLessonType) TeoriLessonType {
	t.PricePerSupervisor = cloneInt(t.PricePerSupervisor)
	if t.Sessions != nil {
		sessions := make([]TeoriSession, len(t.Sessions))
		for i, s := range t.Sessions {
			sessions[i] = cloneTeoriSession(s)
		}
		t.Sessions = sessions
	}
	return t
}

func cloneTeoriSession(s TeoriSession) TeoriSession {
	s.PricePerSupervisor = cloneInt(s.PricePerSupervisor)
	return s
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
