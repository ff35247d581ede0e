package service

import (
	"context"
	"errors"
	"sort"
	"time"

	catalogerrors "korskola/internal/catalog/errors"
	"korskola/internal/catalog/repository"
	"korskola/internal/catalog/validator"
	"korskola/pkg/config"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/locale"
	"korskola/pkg/model"
)

// Notice is a non-fatal load problem shown next to an empty option list.
type Notice struct {
	Resource string `json:"resource"`
	Message  string `json:"message"`
}

type CatalogService interface {
	// LoadLessonTypes never fails: on error it returns an empty list and a notice.
	LoadLessonTypes(ctx context.Context) ([]model.LessonType, *Notice)
	// LoadTeoriLessonTypes returns theory types with their open sessions.
	LoadTeoriLessonTypes(ctx context.Context) ([]model.TeoriLessonType, *Notice)

	LessonType(ctx context.Context, id string) (*model.LessonType, error)
	TeoriLessonType(ctx context.Context, id string) (*model.TeoriLessonType, error)
	// OpenSession returns the session if it belongs to typeID, lies in the
	// future and has a free spot.
	OpenSession(ctx context.Context, typeID, sessionID string) (*model.TeoriSession, error)
}

type catalogService struct {
	repo      repository.CatalogRepository
	validator *validator.CatalogValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewCatalogService(
	repo repository.CatalogRepository,
	validator *validator.CatalogValidator,
	cfg *config.Config,
) CatalogService {
	return &catalogService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

const (
	ResourceLessonTypes      = "lesson_types"
	ResourceTeoriLessonTypes = "teori_lesson_types"
)

func (s *catalogService) LoadLessonTypes(ctx context.Context) ([]model.LessonType, *Notice) {
	items, err := s.repo.ActiveLessonTypes(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load lesson types", "error", err)
		return []model.LessonType{}, &Notice{Resource: ResourceLessonTypes, Message: "Lesson types could not be loaded. Try again shortly."}
	}

	out := make([]model.LessonType, 0, len(items))
	for i := range items {
		if err := s.validator.ValidateLessonType(&items[i]); err != nil {
			s.cfg.Log.Warn("Dropping invalid lesson type", "id", items[i].ID, "error", err)
			continue
		}
		out = append(out, items[i])
	}
	return out, nil
}

func (s *catalogService) LoadTeoriLessonTypes(ctx context.Context) ([]model.TeoriLessonType, *Notice) {
	failed := &Notice{Resource: ResourceTeoriLessonTypes, Message: "Theory courses could not be loaded. Try again shortly."}

	items, err := s.repo.ActiveTeoriLessonTypes(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to load teori lesson types", "error", err)
		return []model.TeoriLessonType{}, failed
	}

	types := make([]model.TeoriLessonType, 0, len(items))
	ids := make([]string, 0, len(items))
	for i := range items {
		if err := s.validator.ValidateTeoriLessonType(&items[i]); err != nil {
			s.cfg.Log.Warn("Dropping invalid teori lesson type", "id", items[i].ID, "error", err)
			continue
		}
		types = append(types, items[i])
		ids = append(ids, items[i].ID)
	}

	now := s.now().In(s.location())
	sessions, err := s.repo.ActiveSessions(ctx, ids, now.Format(locale.DateLayout))
	if err != nil {
		s.cfg.Log.Error("Failed to load teori sessions", "error", err)
		return []model.TeoriLessonType{}, failed
	}

	byType := make(map[string][]model.TeoriSession, len(types))
	for i := range sessions {
		session := sessions[i]
		if err := s.validator.ValidateTeoriSession(&session); err != nil {
			s.cfg.Log.Warn("Dropping invalid teori session", "id", session.ID, "error", err)
			continue
		}
		if !s.isOpen(&session, now) {
			continue
		}
		byType[session.TeoriLessonTypeID] = append(byType[session.TeoriLessonTypeID], session)
	}

	for i := range types {
		types[i].Sessions = byType[types[i].ID]
		if types[i].Sessions == nil {
			types[i].Sessions = []model.TeoriSession{}
		}
		sort.SliceStable(types[i].Sessions, func(a, b int) bool {
			sa, sb := types[i].Sessions[a], types[i].Sessions[b]
			if sa.Date != sb.Date {
				return sa.Date < sb.Date
			}
			return sa.StartTime < sb.StartTime
		})
	}
	return types, nil
}

func (s *catalogService) LessonType(ctx context.Context, id string) (*model.LessonType, error) {
	lt, err := s.repo.FindLessonType(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "Lesson type", id)
	}
	if !lt.Active {
		return nil, apperrors.NotFoundWithID("Lesson type", id)
	}
	if err := s.validator.ValidateLessonType(lt); err != nil {
		s.cfg.Log.Warn("Rejecting invalid lesson type", "id", id, "error", err)
		return nil, apperrors.NotFoundWithID("Lesson type", id)
	}
	return lt, nil
}

func (s *catalogService) TeoriLessonType(ctx context.Context, id string) (*model.TeoriLessonType, error) {
	tt, err := s.repo.FindTeoriLessonType(ctx, id)
	if err != nil {
		return nil, s.mapError(err, "Teori lesson type", id)
	}
	if !tt.Active {
		return nil, apperrors.NotFoundWithID("Teori lesson type", id)
	}
	if err := s.validator.ValidateTeoriLessonType(tt); err != nil {
		s.cfg.Log.Warn("Rejecting invalid teori lesson type", "id", id, "error", err)
		return nil, apperrors.NotFoundWithID("Teori lesson type", id)
	}
	return tt, nil
}

func (s *catalogService) OpenSession(ctx context.Context, typeID, sessionID string) (*model.TeoriSession, error) {
	session, err := s.repo.FindTeoriSession(ctx, sessionID)
	if err != nil {
		return nil, s.mapError(err, "Teori session", sessionID)
	}
	if !session.Active || session.TeoriLessonTypeID != typeID {
		return nil, apperrors.NotFoundWithID("Teori session", sessionID)
	}
	if err := s.validator.ValidateTeoriSession(session); err != nil {
		s.cfg.Log.Warn("Rejecting invalid teori session", "id", sessionID, "error", err)
		return nil, apperrors.NotFoundWithID("Teori session", sessionID)
	}

	session.ComputeAvailableSpots()
	if session.AvailableSpots == 0 {
		return nil, apperrors.NoSpotsAvailable("This session is fully booked", 0)
	}
	if !s.isOpen(session, s.now().In(s.location())) {
		return nil, apperrors.Conflict("This session is no longer open for booking")
	}
	return session, nil
}

// isOpen refreshes AvailableSpots and reports whether the session can still
// be booked at now.
func (s *catalogService) isOpen(session *model.TeoriSession, now time.Time) bool {
	session.ComputeAvailableSpots()
	if session.AvailableSpots == 0 {
		return false
	}
	past, err := locale.IsPast(session.Date, session.StartTime, s.location(), now)
	return err == nil && !past
}

func (s *catalogService) location() *time.Location {
	if s.cfg.Location == nil {
		return time.UTC
	}
	return s.cfg.Location
}

func (s *catalogService) mapError(err error, resource, id string) error {
	switch {
	case errors.Is(err, catalogerrors.ErrNotFound):
		return apperrors.NotFoundWithID(resource, id)
	case errors.Is(err, catalogerrors.ErrInvalidID):
		return apperrors.InvalidInput("Invalid " + resource + " ID format")
	}
	s.cfg.Log.Error("Failed to load catalog entry", "resource", resource, "id", id, "error", err)
	return apperrors.Unavailable("catalog")
}
