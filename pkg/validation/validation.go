package validation

import (
	"fmt"
	"reflect"
	"strings"

	"korskola/pkg/sanitizer"

	"github.com/go-playground/validator/v10"
)

const (
	TagPersonalNumber = "personnummer"
	TagSwedishPhone   = "se_phone"
)

// New returns a validator that reports fields by their json names and knows
// the personnummer and se_phone tags used across the models.
func New() (*validator.Validate, error) {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := v.RegisterValidation(TagPersonalNumber, func(fl validator.FieldLevel) bool {
		return sanitizer.IsValidPersonalNumber(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register %s validator: %w", TagPersonalNumber, err)
	}

	if err := v.RegisterValidation(TagSwedishPhone, func(fl validator.FieldLevel) bool {
		return sanitizer.IsValidPhone(fl.Field().String())
	}); err != nil {
		return nil, fmt.Errorf("register %s validator: %w", TagSwedishPhone, err)
	}

	return v, nil
}

// FieldErrors maps a field path such as "supervisors[1].email" to a message.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	if len(f) == 0 {
		return ""
	}
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+": "+msg)
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(f), strings.Join(parts, "; "))
}

func (f FieldErrors) Details() map[string]any {
	details := make(map[string]any, len(f))
	for k, v := range f {
		details[k] = v
	}
	return details
}

// Merge copies other into f, keeping existing messages.
func (f FieldErrors) Merge(other FieldErrors) {
	for k, v := range other {
		if _, exists := f[k]; !exists {
			f[k] = v
		}
	}
}

// Translate turns validator errors into field-scoped messages. prefix is
// prepended to every field path.
func Translate(errs validator.ValidationErrors, prefix string) FieldErrors {
	out := FieldErrors{}

	for _, err := range errs {
		field := fieldPath(err)
		if prefix != "" {
			field = prefix + "." + field
		}

		var message string
		switch err.Tag() {
		case "required", "required_if":
			message = fmt.Sprintf("%s is required", err.Field())
		case "required_without":
			message = fmt.Sprintf("%s or %s is required", err.Field(), jsonName(err.Param()))
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case TagSwedishPhone:
			message = fmt.Sprintf("%s must be a valid phone number", err.Field())
		case TagPersonalNumber:
			message = fmt.Sprintf("%s must be in the format YYYYMMDD-XXXX or YYMMDD-XXXX", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "datetime":
			message = fmt.Sprintf("%s must match the layout %s", err.Field(), err.Param())
		default:
			message = err.Error()
		}

		out[field] = message
	}

	return out
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(err validator.FieldError) string {
	ns := err.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return err.Field()
}

func jsonName(goField string) string {
	switch goField {
	case "Email":
		return "email"
	case "Phone":
		return "phone"
	case "UserID":
		return "user_id"
	case "Guest":
		return "guest"
	}
	return goField
}
