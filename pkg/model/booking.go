package model

import (
	"time"
)

type PaymentMethod string

const (
	PaymentMethodPending PaymentMethod = "pending"
	PaymentMethodSwish   PaymentMethod = "swish"
	PaymentMethodQliro   PaymentMethod = "qliro"
	PaymentMethodCredits PaymentMethod = "credits"
)

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// BookingRequest is what the wizard submits to the booking creator.
// SubmissionKey identifies the wizard run so a double submit creates one booking.
type BookingRequest struct {
	Mode              DraftMode        `json:"mode" validate:"required,oneof=lesson teori"`
	LessonTypeID      string           `json:"lesson_type_id,omitempty" validate:"required_if=Mode lesson"`
	LessonTypeName    string           `json:"lesson_type_name,omitempty"`
	Date              string           `json:"date,omitempty" validate:"required_if=Mode lesson,omitempty,datetime=2006-01-02"`
	Time              string           `json:"time,omitempty" validate:"required_if=Mode lesson,omitempty,datetime=15:04"`
	Transmission      TransmissionType `json:"transmission,omitempty" validate:"required_if=Mode lesson,omitempty,oneof=manual automatic"`
	TeoriLessonTypeID string           `json:"teori_lesson_type_id,omitempty" validate:"required_if=Mode teori"`
	TeoriSessionID    string           `json:"teori_session_id,omitempty" validate:"required_if=Mode teori"`
	UserID            string           `json:"user_id,omitempty" validate:"required_without=Guest"`
	Guest             *Person          `json:"guest,omitempty" validate:"required_without=UserID,omitempty"`
	BookedBy          string           `json:"booked_by,omitempty"`
	Supervisors       []Supervisor     `json:"supervisors" validate:"dive"`
	TotalPrice        int              `json:"total_price" validate:"min=0"`
	PaymentMethod     PaymentMethod    `json:"payment_method" validate:"required,oneof=pending swish qliro credits"`
	SubmissionKey     string           `json:"submission_key,omitempty" validate:"max=100"`
}

type Booking struct {
	ID                string           `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Mode              DraftMode        `json:"mode" bson:"mode"`
	LessonTypeID      string           `json:"lesson_type_id,omitempty" bson:"lesson_type_id,omitempty"`
	LessonTypeName    string           `json:"lesson_type_name,omitempty" bson:"lesson_type_name,omitempty"`
	Date              string           `json:"date,omitempty" bson:"date,omitempty"`
	Time              string           `json:"time,omitempty" bson:"time,omitempty"`
	Transmission      TransmissionType `json:"transmission,omitempty" bson:"transmission,omitempty"`
	TeoriLessonTypeID string           `json:"teori_lesson_type_id,omitempty" bson:"teori_lesson_type_id,omitempty"`
	TeoriSessionID    string           `json:"teori_session_id,omitempty" bson:"teori_session_id,omitempty"`
	UserID            string           `json:"user_id,omitempty" bson:"user_id,omitempty"`
	Guest             *Person          `json:"guest,omitempty" bson:"guest,omitempty"`
	BookedBy          string           `json:"booked_by,omitempty" bson:"booked_by,omitempty"`
	Supervisors       []Supervisor     `json:"supervisors" bson:"supervisors"`
	TotalPrice        int              `json:"total_price" bson:"total_price"`
	PaymentMethod     PaymentMethod    `json:"payment_method" bson:"payment_method"`
	PaymentStatus     PaymentStatus    `json:"payment_status" bson:"payment_status"`
	PaymentReference  string           `json:"payment_reference,omitempty" bson:"payment_reference,omitempty"`
	Status            string           `json:"status" bson:"status"`
	SubmissionKey     string           `json:"-" bson:"submission_key,omitempty"`
	CreatedAt         time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" bson:"updated_at"`
}

// PaymentUpdate is reported by the payment collaborator once a Swish, Qliro or
// credits payment settles.
type PaymentUpdate struct {
	BookingID string        `json:"booking_id" validate:"required,mongodb"`
	Status    PaymentStatus `json:"status" validate:"required,oneof=paid failed"`
	Method    PaymentMethod `json:"method" validate:"required,oneof=swish qliro credits"`
	Reference string        `json:"reference,omitempty" validate:"max=200"`
}

// BookingLock is a short-lived advisory lock held while one submission runs.
type BookingLock struct {
	ID        string    `bson:"_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}
