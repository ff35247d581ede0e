package model

// LessonType is a bookable one-on-one driving lesson from the catalog.
type LessonType struct {
	ID                 string `json:"id" bson:"_id,omitempty" validate:"required"`
	Name               string `json:"name" bson:"name" validate:"required,min=1,max=120"`
	Description        string `json:"description" bson:"description" validate:"max=2000"`
	DurationMinutes    int    `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=1,max=600"`
	Price              int    `json:"price" bson:"price" validate:"min=0"`
	PriceStudent       *int   `json:"price_student,omitempty" bson:"price_student,omitempty" validate:"omitempty,min=0"`
	AllowsSupervisors  bool   `json:"allows_supervisors" bson:"allows_supervisors"`
	PricePerSupervisor *int   `json:"price_per_supervisor,omitempty" bson:"price_per_supervisor,omitempty" validate:"omitempty,min=0"`
	Active             bool   `json:"active" bson:"active"`
}

// TeoriLessonType is a group theory course. Sessions are stored in their own
// collection and attached by the catalog loader.
type TeoriLessonType struct {
	ID                 string         `json:"id" bson:"_id,omitempty" validate:"required"`
	Name               string         `json:"name" bson:"name" validate:"required,min=1,max=120"`
	Description        string         `json:"description" bson:"description" validate:"max=2000"`
	AllowsSupervisors  bool           `json:"allows_supervisors" bson:"allows_supervisors"`
	Price              int            `json:"price" bson:"price" validate:"min=0"`
	PricePerSupervisor *int           `json:"price_per_supervisor,omitempty" bson:"price_per_supervisor,omitempty" validate:"omitempty,min=0"`
	DurationMinutes    int            `json:"duration_minutes" bson:"duration_minutes" validate:"required,min=1,max=600"`
	MaxParticipants    int            `json:"max_participants" bson:"max_participants" validate:"required,min=1,max=500"`
	Active             bool           `json:"active" bson:"active"`
	Sessions           []TeoriSession `json:"sessions" bson:"-" validate:"-"`
}

// TeoriSession is one scheduled occurrence of a theory course.
type TeoriSession struct {
	ID                  string `json:"id" bson:"_id,omitempty" validate:"required"`
	TeoriLessonTypeID   string `json:"teori_lesson_type_id" bson:"teori_lesson_type_id" validate:"required"`
	Title               string `json:"title" bson:"title" validate:"required,max=200"`
	Date                string `json:"date" bson:"date" validate:"required,datetime=2006-01-02"`
	StartTime           string `json:"start_time" bson:"start_time" validate:"required,datetime=15:04"`
	EndTime             string `json:"end_time" bson:"end_time" validate:"required,datetime=15:04"`
	MaxParticipants     int    `json:"max_participants" bson:"max_participants" validate:"required,min=1,max=500"`
	CurrentParticipants int    `json:"current_participants" bson:"current_participants" validate:"min=0"`
	Price               int    `json:"price" bson:"price" validate:"min=0"`
	PricePerSupervisor  *int   `json:"price_per_supervisor,omitempty" bson:"price_per_supervisor,omitempty" validate:"omitempty,min=0"`
	Active              bool   `json:"active" bson:"active"`
	AvailableSpots      int    `json:"available_spots" bson:"-" validate:"-"`
}

// ComputeAvailableSpots refreshes AvailableSpots from the participant counters.
func (s *TeoriSession) ComputeAvailableSpots() {
	s.AvailableSpots = max(0, s.MaxParticipants-s.CurrentParticipants)
}

// SupervisorPrice returns the session override when present, else the type price.
func (s *TeoriSession) SupervisorPrice(t *TeoriLessonType) int {
	if s != nil && s.PricePerSupervisor != nil {
		return *s.PricePerSupervisor
	}
	if t != nil && t.PricePerSupervisor != nil {
		return *t.PricePerSupervisor
	}
	return 0
}
