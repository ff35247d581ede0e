package model

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// ActingUser is the authenticated caller. A nil *ActingUser is an anonymous guest.
type ActingUser struct {
	ID    string `json:"id"`
	Role  Role   `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (u *ActingUser) IsAnonymous() bool {
	return u == nil
}

func (u *ActingUser) IsStaff() bool {
	return u != nil && (u.Role == RoleTeacher || u.Role == RoleAdmin)
}

func (u *ActingUser) IsStudent() bool {
	return u != nil && u.Role == RoleStudent
}

// Person carries the identifying fields collected for guests and new students.
type Person struct {
	FirstName      string `json:"first_name" bson:"first_name" validate:"required,min=1,max=100"`
	LastName       string `json:"last_name" bson:"last_name" validate:"required,min=1,max=100"`
	Email          string `json:"email" bson:"email" validate:"required,email,max=254"`
	Phone          string `json:"phone" bson:"phone" validate:"required,se_phone"`
	PersonalNumber string `json:"personal_number" bson:"personal_number" validate:"required,personnummer"`
}

func (p Person) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}
