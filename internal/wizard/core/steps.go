package core

// Step is one screen of the booking wizard.
type Step string

const (
	StepLessonSelection      Step = "lesson_selection"
	StepDrivingCalendar      Step = "driving_calendar"
	StepTeoriSessions        Step = "teori_sessions"
	StepGearSelection        Step = "gear_selection"
	StepStudentSelection     Step = "student_selection"
	StepGuestRegistration    Step = "guest_registration"
	StepSupervisorManagement Step = "supervisor_management"
	StepConfirmation         Step = "confirmation"
)

var AllSteps = []Step{
	StepLessonSelection,
	StepDrivingCalendar,
	StepTeoriSessions,
	StepGearSelection,
	StepStudentSelection,
	StepGuestRegistration,
	StepSupervisorManagement,
	StepConfirmation,
}

func (s Step) Valid() bool {
	for _, step := range AllSteps {
		if s == step {
			return true
		}
	}
	return false
}

func (s Step) String() string {
	return string(s)
}

// InitialStep is where every new draft starts.
const InitialStep = StepLessonSelection
