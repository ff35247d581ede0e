package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	studentserrors "korskola/internal/students/errors"
	"korskola/internal/students/repository"
	"korskola/internal/students/validator"
	"korskola/pkg/config"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/model"
	"korskola/pkg/sanitizer"
	"korskola/pkg/validation"
)

const MinSearchLength = 2

type StudentService interface {
	Search(ctx context.Context, query string, limit int) ([]*model.Student, error)
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Create(ctx context.Context, person *model.Person) (*model.Student, error)
}

type studentService struct {
	repo      repository.StudentRepository
	validator *validator.StudentValidator
	cfg       *config.Config
}

func NewStudentService(
	repo repository.StudentRepository,
	validator *validator.StudentValidator,
	cfg *config.Config,
) StudentService {
	return &studentService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *studentService) Search(ctx context.Context, query string, limit int) ([]*model.Student, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSearchLength {
		return nil, apperrors.InvalidInput("Search query must be at least 2 characters")
	}

	students, err := s.repo.Search(ctx, query, config.NormalizePaginationLimit(limit))
	if err != nil {
		s.cfg.Log.Error("Failed to search students", "error", err)
		return nil, apperrors.Internal("Failed to search students", err)
	}
	return students, nil
}

func (s *studentService) GetByID(ctx context.Context, id string) (*model.Student, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Student ID cannot be empty")
	}

	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, studentserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Student", id)
		}
		if errors.Is(err, studentserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid student ID format")
		}
		s.cfg.Log.Error("Failed to get student by ID", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve student", err)
	}
	return student, nil
}

func (s *studentService) Create(ctx context.Context, person *model.Person) (*model.Student, error) {
	if person == nil {
		return nil, apperrors.InvalidInput("Student details are required")
	}
	p := *person
	sanitizer.NormalizePerson(&p)

	if err := s.validator.Validate(&p); err != nil {
		s.cfg.Log.Warn("Student validation failed", "error", err)
		var fields validation.FieldErrors
		if errors.As(err, &fields) {
			return nil, apperrors.Validation("Student validation failed", fields.Details())
		}
		return nil, apperrors.Validation("Student validation failed", map[string]any{"error": err.Error()})
	}

	student := &model.Student{Person: p}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, studentserrors.ErrDuplicatePersonalNumber) {
			return nil, apperrors.Conflict("A student with this personal number already exists")
		}
		s.cfg.Log.Error("Failed to create student", "error", err)
		return nil, apperrors.Internal("Failed to create student", err)
	}

	s.cfg.Log.Info("Student created successfully", "id", student.ID)
	return student, nil
}
