package validator

import (
	"errors"
	"fmt"

	"korskola/pkg/locale"
	"korskola/pkg/logger"
	"korskola/pkg/model"
	"korskola/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// CatalogValidator checks catalog documents at the read boundary.
type CatalogValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCatalogValidator(log *logger.Logger) *CatalogValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to initialize catalog validator", "error", err)
	}

	return &CatalogValidator{
		validate: v,
		logger:   log,
	}
}

func (cv *CatalogValidator) ValidateLessonType(lt *model.LessonType) error {
	return cv.check(lt)
}

func (cv *CatalogValidator) ValidateTeoriLessonType(tt *model.TeoriLessonType) error {
	return cv.check(tt)
}

func (cv *CatalogValidator) ValidateTeoriSession(s *model.TeoriSession) error {
	if err := cv.check(s); err != nil {
		return err
	}

	start, err := locale.ParseLocal(s.Date, s.StartTime, nil)
	if err != nil {
		return err
	}
	end, err := locale.ParseLocal(s.Date, s.EndTime, nil)
	if err != nil {
		return err
	}
	if !end.After(start) {
		return validation.FieldErrors{"end_time": "end_time must be after start_time"}
	}
	return nil
}

func (cv *CatalogValidator) check(v any) error {
	if err := cv.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validation.Translate(verrs, "")
		}
		return fmt.Errorf("validation error: %w", err)
	}
	return nil
}
