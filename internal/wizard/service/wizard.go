package service

import (
	"context"
	"errors"
	"time"

	catalogservice "korskola/internal/catalog/service"
	"korskola/internal/wizard/core"
	"korskola/internal/wizard/eligibility"
	wizarderrors "korskola/internal/wizard/errors"
	"korskola/internal/wizard/pricing"
	"korskola/internal/wizard/session"
	"korskola/pkg/config"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/model"
	"korskola/pkg/sealer"

	"github.com/google/uuid"
)

// BookingCreator persists a confirmed draft.
type BookingCreator interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
}

// StudentDirectory is what staff use at the student selection step.
type StudentDirectory interface {
	GetByID(ctx context.Context, id string) (*model.Student, error)
	Create(ctx context.Context, person *model.Person) (*model.Student, error)
}

type WizardService interface {
	Start(ctx context.Context, user *model.ActingUser) (*View, error)
	Get(ctx context.Context, id string, user *model.ActingUser) (*View, error)
	Options(ctx context.Context, id string, user *model.ActingUser) (*Options, error)
	Apply(ctx context.Context, id string, user *model.ActingUser, req *EventRequest) (*View, error)
	Back(ctx context.Context, id string, user *model.ActingUser, version *int64) (*View, error)
	Confirm(ctx context.Context, id string, user *model.ActingUser, req *ConfirmRequest) (*Handoff, error)
	Abandon(ctx context.Context, id string, user *model.ActingUser) error
}

// View is the client's picture of a session.
type View struct {
	ID        string           `json:"id"`
	Step      core.Step        `json:"step"`
	Draft     model.Draft      `json:"draft"`
	Quote     *pricing.Quote   `json:"quote,omitempty"`
	Events    []core.EventType `json:"events"`
	CanGoBack bool             `json:"can_go_back"`
	Version   int64            `json:"version"`
	ExpiresAt time.Time        `json:"expires_at"`
}

type wizardService struct {
	store    session.Store
	catalog  catalogservice.CatalogService
	students StudentDirectory
	bookings BookingCreator
	checker  *eligibility.Checker
	pricer   *pricing.Calculator
	sealer   *sealer.Sealer
	cfg      *config.Config
	now      func() time.Time
}

func NewWizardService(
	store session.Store,
	catalog catalogservice.CatalogService,
	students StudentDirectory,
	bookings BookingCreator,
	checker *eligibility.Checker,
	sealer *sealer.Sealer,
	cfg *config.Config,
) (WizardService, error) {
	rule, err := pricing.RuleByName(cfg.SupervisorPricing)
	if err != nil {
		return nil, err
	}
	return &wizardService{
		store:    store,
		catalog:  catalog,
		students: students,
		bookings: bookings,
		checker:  checker,
		pricer:   pricing.NewCalculator(rule),
		sealer:   sealer,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

func (s *wizardService) Start(ctx context.Context, user *model.ActingUser) (*View, error) {
	now := s.now().UTC()
	sess := &session.Session{
		ID:        uuid.NewString(),
		Step:      core.InitialStep,
		CreatedAt: now,
	}
	if user != nil {
		sess.OwnerID = user.ID
	}

	if err := s.store.Create(ctx, sess); err != nil {
		s.cfg.Log.Error("Failed to create wizard session", "error", err)
		return nil, toAppError(err, sess.Step, "start")
	}

	s.cfg.Log.Info("Wizard session started", "session_id", sess.ID, "owner_id", sess.OwnerID)
	return s.newView(sess, user), nil
}

func (s *wizardService) Get(ctx context.Context, id string, user *model.ActingUser) (*View, error) {
	sess, err := s.load(ctx, id, user)
	if err != nil {
		return nil, err
	}
	return s.newView(sess, user), nil
}

func (s *wizardService) Back(ctx context.Context, id string, user *model.ActingUser, version *int64) (*View, error) {
	sess, err := s.load(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if err := checkVersion(sess, version); err != nil {
		return nil, err
	}

	step, draft, err := core.Back(sess.Step, sess.Draft, user)
	if err != nil {
		return nil, toAppError(err, sess.Step, "back")
	}

	from := sess.Step
	sess.Step = step
	sess.Draft = s.pricer.Apply(draft, user)
	if err := s.save(ctx, sess, from, "back"); err != nil {
		return nil, err
	}

	s.cfg.Log.Debug("Wizard moved back", "session_id", sess.ID, "from", from, "to", sess.Step)
	return s.newView(sess, user), nil
}

func (s *wizardService) Abandon(ctx context.Context, id string, user *model.ActingUser) error {
	if _, err := s.load(ctx, id, user); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.cfg.Log.Error("Failed to delete wizard session", "session_id", id, "error", err)
		return apperrors.Internal("Failed to abandon wizard session", err)
	}

	s.cfg.Log.Info("Wizard session abandoned", "session_id", id)
	return nil
}

// --- Helpers ---

func (s *wizardService) load(ctx context.Context, id string, user *model.ActingUser) (*session.Session, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Wizard session ID cannot be empty")
	}

	sess, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, wizarderrors.ErrSessionNotFound) {
			s.cfg.Log.Error("Failed to load wizard session", "session_id", id, "error", err)
		}
		return nil, toAppError(err, "", "load")
	}
	// Someone else's session is reported as missing.
	if !sess.OwnedBy(user) {
		s.cfg.Log.Warn("Wizard session accessed by non-owner", "session_id", id)
		return nil, toAppError(wizarderrors.ErrSessionNotFound, "", "load")
	}
	return sess, nil
}

func (s *wizardService) save(ctx context.Context, sess *session.Session, step core.Step, action string) error {
	if err := s.store.Save(ctx, sess); err != nil {
		if errors.Is(err, wizarderrors.ErrSessionConflict) {
			s.cfg.Log.Warn("Wizard session changed concurrently", "session_id", sess.ID, "action", action)
		} else if !errors.Is(err, wizarderrors.ErrSessionNotFound) {
			s.cfg.Log.Error("Failed to save wizard session", "session_id", sess.ID, "error", err)
		}
		return toAppError(err, step, action)
	}
	return nil
}

// checkVersion rejects a write made against an outdated view.
func checkVersion(sess *session.Session, version *int64) error {
	if version != nil && *version != sess.Version {
		return toAppError(wizarderrors.ErrSessionConflict, sess.Step, "write")
	}
	return nil
}

func (s *wizardService) newView(sess *session.Session, user *model.ActingUser) *View {
	v := &View{
		ID:        sess.ID,
		Step:      sess.Step,
		Draft:     sess.Draft,
		Events:    core.EventsFor(sess.Step),
		CanGoBack: sess.Step != core.StepLessonSelection,
		Version:   sess.Version,
		ExpiresAt: sess.ExpiresAt,
	}
	if v.Events == nil {
		v.Events = []core.EventType{}
	}
	if q, ok := s.pricer.Quote(sess.Draft, user); ok {
		v.Quote = &q
	}
	return v
}
