package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "korskola/internal/bookings/errors"
	"korskola/internal/bookings/events"
	"korskola/internal/bookings/repository"
	"korskola/internal/bookings/validator"
	"korskola/pkg/config"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/kafka"
	"korskola/pkg/middleware"
	"korskola/pkg/model"
	"korskola/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	lockTTL = 10 * time.Second

	expiryBatchSize  = 100
	expiredReference = "expired"
)

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, id string, user *model.ActingUser) (*model.Booking, error)
	UpdatePaymentStatus(ctx context.Context, update model.PaymentUpdate) (*model.Booking, error)
	ExpireStalePayments(ctx context.Context) (int, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	validator *validator.BookingValidator
	publisher kafka.Publisher
	cfg       *config.Config
}

// NewBookingService wires the booking creator. publisher may be nil when
// Kafka is disabled.
func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	validator *validator.BookingValidator,
	publisher kafka.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	if req == nil {
		return nil, apperrors.InvalidInput("Booking request is required")
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	if req.SubmissionKey != "" {
		lockID, err := s.acquireSubmissionLock(ctx, req.SubmissionKey)
		if err != nil {
			return nil, err
		}
		defer func() {
			if releaseErr := s.lockRepo.Delete(ctx, lockID); releaseErr != nil {
				s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", releaseErr)
			}
		}()
	}

	booking := newBooking(req)
	var previous *model.Booking
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking.ID = ""
		previous = nil
		if req.SubmissionKey != "" {
			stored, err := s.repo.FindBySubmissionKey(sessCtx, req.SubmissionKey)
			switch {
			case err == nil:
				if stored.Status == model.BookingStatusCancelled {
					return apperrors.Conflict("This booking has already been submitted")
				}
				previous = stored
				return nil
			case !errors.Is(err, bookingserrors.ErrNotFound):
				return apperrors.Internal("Failed to check previous submissions", err)
			}
		}

		if booking.Mode == model.ModeTeori {
			if err := s.reserve(sessCtx, booking); err != nil {
				return err
			}
		}

		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking", "mode", req.Mode, "error", err)
		return nil, err
	}

	if previous != nil {
		s.cfg.Log.Info("Booking already submitted, returning stored booking",
			"id", previous.ID,
			"submission_key", req.SubmissionKey,
		)
		return previous, nil
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"mode", booking.Mode,
		"supervisors", len(booking.Supervisors),
		"total_price", booking.TotalPrice,
	)
	s.publishCreated(ctx, booking)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string, user *model.ActingUser) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if user.IsAnonymous() {
		return nil, apperrors.Unauthorized("Authentication required")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapFindError(err, id)
	}

	if !user.IsStaff() && booking.UserID != user.ID && booking.BookedBy != user.ID {
		return nil, apperrors.Forbidden("You cannot view this booking")
	}
	return booking, nil
}

// UpdatePaymentStatus settles a pending payment. Reporting the same outcome
// twice is not an error; the stored booking is returned unchanged. An outcome
// that contradicts the stored one is a conflict.
func (s *bookingService) UpdatePaymentStatus(ctx context.Context, update model.PaymentUpdate) (*model.Booking, error) {
	if err := s.validator.ValidatePaymentUpdate(&update); err != nil {
		s.cfg.Log.Warn("Payment update validation failed", "booking_id", update.BookingID, "error", err)
		return nil, validationError("Invalid payment update", err)
	}
	return s.settle(ctx, update)
}

// ExpireStalePayments fails bookings whose payment stayed pending longer than
// the configured payment timeout and returns how many were expired.
func (s *bookingService) ExpireStalePayments(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.cfg.PaymentTimeout)
	stale, err := s.repo.FindStalePending(ctx, cutoff, expiryBatchSize)
	if err != nil {
		s.cfg.Log.Error("Failed to list stale bookings", "error", err)
		return 0, apperrors.Internal("Failed to list stale bookings", err)
	}

	expired := 0
	for _, b := range stale {
		update := model.PaymentUpdate{
			BookingID: b.ID,
			Status:    model.PaymentStatusFailed,
			Method:    b.PaymentMethod,
			Reference: expiredReference,
		}
		if _, err := s.settle(ctx, update); err != nil {
			// Paid while we were looking.
			if apperrors.HasCode(err, apperrors.CodeConflict) {
				continue
			}
			s.cfg.Log.Error("Failed to expire booking", "id", b.ID, "error", err)
			continue
		}
		expired++
	}

	if expired > 0 {
		s.cfg.Log.Info("Expired stale bookings", "count", expired, "cutoff", cutoff)
	}
	return expired, nil
}

// settle records a payment outcome. A failed teori payment hands its seats
// back to the session in the same transaction.
func (s *bookingService) settle(ctx context.Context, update model.PaymentUpdate) (*model.Booking, error) {
	var booking *model.Booking
	var settledBefore bool
	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		booking, err = s.repo.SettlePayment(sessCtx, update)
		settledBefore = errors.Is(err, bookingserrors.ErrPaymentAlreadySettled)
		if settledBefore {
			return nil
		}
		if err != nil {
			return err
		}
		if update.Status == model.PaymentStatusFailed && booking.Mode == model.ModeTeori {
			return s.release(sessCtx, booking)
		}
		return nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, s.mapFindError(err, update.BookingID)
	}

	if settledBefore {
		if booking.PaymentStatus != update.Status {
			s.cfg.Log.Warn("Conflicting payment outcome",
				"booking_id", update.BookingID,
				"payment_status", booking.PaymentStatus,
				"reported_status", update.Status,
			)
			return nil, apperrors.Conflict(fmt.Sprintf("Booking payment is already %s", booking.PaymentStatus))
		}
		s.cfg.Log.Info("Payment already settled", "booking_id", update.BookingID, "payment_status", booking.PaymentStatus)
		return booking, nil
	}

	s.cfg.Log.Info("Payment status updated",
		"booking_id", booking.ID,
		"payment_status", booking.PaymentStatus,
		"payment_method", booking.PaymentMethod,
		"status", booking.Status,
	)
	return booking, nil
}

// --- Helpers ---

func newBooking(req *model.BookingRequest) *model.Booking {
	b := &model.Booking{
		Mode:              req.Mode,
		LessonTypeID:      req.LessonTypeID,
		LessonTypeName:    req.LessonTypeName,
		Date:              req.Date,
		Time:              req.Time,
		Transmission:      req.Transmission,
		TeoriLessonTypeID: req.TeoriLessonTypeID,
		TeoriSessionID:    req.TeoriSessionID,
		UserID:            req.UserID,
		BookedBy:          req.BookedBy,
		Supervisors:       append([]model.Supervisor{}, req.Supervisors...),
		TotalPrice:        req.TotalPrice,
		PaymentMethod:     req.PaymentMethod,
		PaymentStatus:     model.PaymentStatusPending,
		Status:            model.BookingStatusPending,
		SubmissionKey:     req.SubmissionKey,
	}
	if req.Guest != nil {
		g := *req.Guest
		b.Guest = &g
	}
	return b
}

// reserve takes one seat for the participant and one per supervisor.
func (s *bookingService) reserve(ctx context.Context, b *model.Booking) error {
	seats := 1 + len(b.Supervisors)
	err := s.repo.ReserveSeats(ctx, b.TeoriSessionID, seats)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bookingserrors.ErrCapacityExceeded):
		return apperrors.NoSpotsAvailable("The selected session does not have enough spots left", 0)
	case errors.Is(err, bookingserrors.ErrSessionNotFound):
		return apperrors.NotFoundWithID("Teori session", b.TeoriSessionID)
	}
	return apperrors.Internal("Failed to reserve session spots", err)
}

// release returns the seats reserve took. A session that was removed in the
// meantime has nothing to give back.
func (s *bookingService) release(ctx context.Context, b *model.Booking) error {
	seats := 1 + len(b.Supervisors)
	err := s.repo.ReleaseSeats(ctx, b.TeoriSessionID, seats)
	if errors.Is(err, bookingserrors.ErrSessionNotFound) {
		s.cfg.Log.Warn("Teori session gone, seats not released", "booking_id", b.ID, "session_id", b.TeoriSessionID)
		return nil
	}
	if err != nil {
		return apperrors.Internal("Failed to release session spots", err)
	}
	return nil
}

func (s *bookingService) publishCreated(ctx context.Context, b *model.Booking) {
	if s.publisher == nil {
		return
	}
	msg, err := events.BookingCreatedMessage(b, middleware.RequestID(ctx))
	if err != nil {
		s.cfg.Log.Error("Failed to build booking event", "id", b.ID, "error", err)
		return
	}
	// The booking is stored; the payment collaborator can still find it by id.
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event", "id", b.ID, "error", err)
	}
}

func (s *bookingService) validate(req *model.BookingRequest) error {
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return validationError("Booking validation failed", err)
	}
	return nil
}

func validationError(message string, err error) error {
	var fields validation.FieldErrors
	if errors.As(err, &fields) {
		return apperrors.Validation(message, fields.Details())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}

func (s *bookingService) mapFindError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error("Failed to load booking", "id", id, "error", err)
	return apperrors.Internal("Failed to retrieve booking", err)
}

// acquireSubmissionLock holds an advisory lock for one wizard submission so
// two concurrent submits cannot both pass the duplicate check.
func (s *bookingService) acquireSubmissionLock(ctx context.Context, key string) (string, error) {
	lockID := "submission:" + key
	lock := &model.BookingLock{
		ID:        lockID,
		ExpiresAt: time.Now().UTC().Add(lockTTL),
	}

	if err := s.lockRepo.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This booking is already being submitted. Please wait.")
		}
		return "", apperrors.Internal("Failed to acquire booking lock", err)
	}
	return lockID, nil
}
