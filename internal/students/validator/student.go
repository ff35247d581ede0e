package validator

import (
	"errors"
	"fmt"

	"korskola/pkg/logger"
	"korskola/pkg/model"
	"korskola/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// StudentValidator shares the person rules used for wizard guests, so a
// student created by staff and a guest are held to the same format.
type StudentValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewStudentValidator(log *logger.Logger) *StudentValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize student validator", "error", err)
	}

	return &StudentValidator{
		validate: v,
		logger:   log,
	}
}

func (sv *StudentValidator) Validate(p *model.Person) error {
	if err := sv.validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validation.Translate(verrs, "")
		}
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
