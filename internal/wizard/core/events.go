package core

import "korskola/pkg/model"

type EventType string

const (
	EventSelectLessonType      EventType = "select_lesson_type"
	EventSelectTeoriLessonType EventType = "select_teori_lesson_type"
	EventSelectTeoriSession    EventType = "select_teori_session"
	EventSelectDateTime        EventType = "select_date_time"
	EventSelectTransmission    EventType = "select_transmission"
	EventSelectStudent         EventType = "select_student"
	EventRegisterGuest         EventType = "register_guest"
	EventAddSupervisor         EventType = "add_supervisor"
	EventRemoveSupervisor      EventType = "remove_supervisor"
	// EventContinue advances without changing the draft, e.g. leaving
	// supervisor management or re-advancing after going back.
	EventContinue EventType = "continue"
)

// Event is a resolved user action. Catalog references are already looked up,
// so applying an event never does I/O.
type Event struct {
	Type            EventType
	LessonType      *model.LessonType
	TeoriLessonType *model.TeoriLessonType
	TeoriSession    *model.TeoriSession
	Date            string
	Time            string
	Transmission    model.TransmissionType
	Student         *model.Participant
	Guest           *model.Person
	Supervisor      *model.Supervisor
	Index           int
}

var stepEvents = map[Step][]EventType{
	StepLessonSelection:      {EventSelectLessonType, EventSelectTeoriLessonType},
	StepDrivingCalendar:      {EventSelectDateTime},
	StepTeoriSessions:        {EventSelectTeoriSession},
	StepGearSelection:        {EventSelectTransmission},
	StepSupervisorManagement: {EventAddSupervisor, EventRemoveSupervisor},
	StepStudentSelection:     {EventSelectStudent},
	StepGuestRegistration:    {EventRegisterGuest},
}

// Accepts reports whether t may be applied at step.
func Accepts(step Step, t EventType) bool {
	if t == EventContinue {
		return step != StepConfirmation && step.Valid()
	}
	for _, allowed := range stepEvents[step] {
		if allowed == t {
			return true
		}
	}
	return false
}

// Advances reports whether applying t moves the wizard forward. Supervisor
// edits keep the user on the supervisor screen.
func Advances(t EventType) bool {
	return t != EventAddSupervisor && t != EventRemoveSupervisor
}

// EventsFor lists what the client may send at step.
func EventsFor(step Step) []EventType {
	if step == StepConfirmation || !step.Valid() {
		return nil
	}
	events := append([]EventType{}, stepEvents[step]...)
	return append(events, EventContinue)
}
