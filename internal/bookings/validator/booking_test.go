package validator

import (
	"errors"
	"testing"

	"korskola/pkg/logger"
	"korskola/pkg/model"
	"korskola/pkg/validation"
)

func newValidator() *BookingValidator {
	return NewBookingValidator(logger.New(logger.Config{Level: logger.ERROR}))
}

func lessonRequest() *model.BookingRequest {
	return &model.BookingRequest{
		Mode:          model.ModeLesson,
		LessonTypeID:  "lt1",
		Date:          "2030-05-01",
		Time:          "10:00",
		Transmission:  model.TransmissionManual,
		UserID:        "u1",
		TotalPrice:    500,
		PaymentMethod: model.PaymentMethodPending,
	}
}

func teoriRequest() *model.BookingRequest {
	return &model.BookingRequest{
		Mode:              model.ModeTeori,
		TeoriLessonTypeID: "tt1",
		TeoriSessionID:    "ts1",
		Guest:             &model.Person{FirstName: "Erik", LastName: "Berg", Email: "e@example.se", Phone: "0701234567", PersonalNumber: "900101-1234"},
		Supervisors:       []model.Supervisor{{Name: "Anna", Email: "anna@example.se"}},
		TotalPrice:        400,
		PaymentMethod:     model.PaymentMethodPending,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(r *model.BookingRequest)
		base      func() *model.BookingRequest
		wantField string
	}{
		{name: "valid lesson", base: lessonRequest, mutate: func(r *model.BookingRequest) {}},
		{name: "valid teori guest", base: teoriRequest, mutate: func(r *model.BookingRequest) {}},
		{name: "lesson without date", base: lessonRequest, mutate: func(r *model.BookingRequest) { r.Date = "" }, wantField: "date"},
		{name: "lesson bad time", base: lessonRequest, mutate: func(r *model.BookingRequest) { r.Time = "25:00" }, wantField: "time"},
		{name: "teori without session", base: teoriRequest, mutate: func(r *model.BookingRequest) { r.TeoriSessionID = "" }, wantField: "teori_session_id"},
		{name: "mixed modes", base: lessonRequest, mutate: func(r *model.BookingRequest) { r.TeoriSessionID = "ts1" }, wantField: "mode"},
		{name: "nobody", base: lessonRequest, mutate: func(r *model.BookingRequest) { r.UserID = "" }, wantField: "user_id"},
		{name: "both user and guest", base: teoriRequest, mutate: func(r *model.BookingRequest) { r.UserID = "u1" }, wantField: "guest"},
		{name: "bad supervisor", base: teoriRequest, mutate: func(r *model.BookingRequest) { r.Supervisors[0].Email = "x" }, wantField: "supervisors[0].email"},
		{name: "negative price", base: lessonRequest, mutate: func(r *model.BookingRequest) { r.TotalPrice = -1 }, wantField: "total_price"},
	}

	v := newValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.base()
			tt.mutate(req)
			err := v.Validate(req)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() error = %v", err)
				}
				return
			}
			var fields validation.FieldErrors
			if !errors.As(err, &fields) {
				t.Fatalf("Validate() error = %v, want field errors", err)
			}
			if _, ok := fields[tt.wantField]; !ok {
				t.Errorf("missing %s in %v", tt.wantField, fields)
			}
		})
	}
}

func TestValidatePaymentUpdate(t *testing.T) {
	v := newValidator()

	if err := v.ValidatePaymentUpdate(&model.PaymentUpdate{BookingID: "65f1c0ffee0000000000abcd", Status: model.PaymentStatusPaid, Method: model.PaymentMethodSwish}); err != nil {
		t.Errorf("valid update rejected: %v", err)
	}
	if err := v.ValidatePaymentUpdate(&model.PaymentUpdate{BookingID: "nope", Status: model.PaymentStatusPending, Method: model.PaymentMethodSwish}); err == nil {
		t.Errorf("invalid update accepted")
	}
}
