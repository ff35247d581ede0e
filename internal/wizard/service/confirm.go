package service

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"korskola/internal/wizard/core"
	wizarderrors "korskola/internal/wizard/errors"
	"korskola/internal/wizard/session"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/model"
)

// HandoffTTL bounds how long a payment handoff token is accepted.
const HandoffTTL = 30 * time.Minute

type ConfirmRequest struct {
	AcceptTerms bool   `json:"accept_terms"`
	Version     *int64 `json:"version,omitempty"`
}

// Handoff tells the client where to continue with payment.
type Handoff struct {
	BookingID     string              `json:"booking_id"`
	RedirectURL   string              `json:"redirect_url"`
	TotalPrice    int                 `json:"total_price"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`
}

// Confirm submits the draft. Any failure leaves the session untouched so the
// user can fix the problem and submit again.
func (s *wizardService) Confirm(ctx context.Context, id string, user *model.ActingUser, req *ConfirmRequest) (*Handoff, error) {
	sess, err := s.load(ctx, id, user)
	if err != nil {
		return nil, err
	}
	if sess.Step != core.StepConfirmation {
		return nil, apperrors.StepNotAllowed(sess.Step.String(), "confirm")
	}
	if req == nil || !req.AcceptTerms {
		return nil, toAppError(wizarderrors.ErrTermsNotAccepted, sess.Step, "confirm")
	}
	if err := checkVersion(sess, req.Version); err != nil {
		return nil, err
	}

	draft := s.pricer.Apply(sess.Draft, user)
	if err := s.checker.CheckDraft(draft, user); err != nil {
		s.cfg.Log.Warn("Wizard draft not eligible", "session_id", sess.ID, "error", err)
		return nil, toAppError(err, sess.Step, "confirm")
	}

	payload, err := bookingRequest(sess, draft, user)
	if err != nil {
		return nil, err
	}

	booking, err := s.bookings.Create(ctx, payload)
	if err != nil {
		s.cfg.Log.Warn("Booking rejected", "session_id", sess.ID, "error", err)
		if apperrors.IsAppError(err) {
			return nil, err
		}
		return nil, apperrors.BookingRejected(err.Error(), err)
	}

	redirect, err := s.handoffURL(booking.ID)
	if err != nil {
		// The booking exists; the session is kept so the payment step can be retried.
		s.cfg.Log.Error("Failed to seal payment handoff token", "booking_id", booking.ID, "error", err)
		return nil, apperrors.Internal("Failed to prepare payment", err)
	}

	if err := s.store.Delete(ctx, sess.ID); err != nil {
		s.cfg.Log.Warn("Failed to discard confirmed wizard session", "session_id", sess.ID, "error", err)
	}

	s.cfg.Log.Info("Wizard booking confirmed",
		"session_id", sess.ID,
		"booking_id", booking.ID,
		"mode", payload.Mode,
		"total_price", payload.TotalPrice,
	)
	return &Handoff{
		BookingID:     booking.ID,
		RedirectURL:   redirect,
		TotalPrice:    payload.TotalPrice,
		PaymentMethod: payload.PaymentMethod,
	}, nil
}

// bookingRequest builds the submission payload. The payment method is left
// for the payment page to choose.
func bookingRequest(sess *session.Session, d model.Draft, user *model.ActingUser) (*model.BookingRequest, error) {
	req := &model.BookingRequest{
		Mode:          d.Mode(),
		Supervisors:   append([]model.Supervisor{}, d.Supervisors...),
		PaymentMethod: model.PaymentMethodPending,
		SubmissionKey: sess.ID,
	}
	if d.TotalPrice != nil {
		req.TotalPrice = *d.TotalPrice
	}

	switch sel := d.Selection.(type) {
	case *model.LessonSelection:
		req.LessonTypeID = sel.LessonType.ID
		req.LessonTypeName = sel.LessonType.Name
		req.Date = sel.Date
		req.Time = sel.Time
		req.Transmission = sel.Transmission
	case *model.TeoriSelection:
		req.TeoriLessonTypeID = sel.LessonType.ID
		if sel.Session != nil {
			req.TeoriSessionID = sel.Session.ID
		}
	default:
		return nil, apperrors.Validation("Booking details are invalid", map[string]any{"lesson_type": "a lesson type must be selected"})
	}

	switch {
	case user.IsStaff():
		req.UserID = d.Student.UserID
		req.BookedBy = user.ID
	case user.IsAnonymous():
		g := *d.Student.Guest
		req.Guest = &g
	default:
		req.UserID = user.ID
		req.BookedBy = user.ID
	}
	return req, nil
}

func (s *wizardService) handoffURL(bookingID string) (string, error) {
	expires := s.now().Add(HandoffTTL).Unix()
	token, err := s.sealer.Seal(bookingID, strconv.FormatInt(expires, 10))
	if err != nil {
		return "", err
	}
	return strings.TrimRight(s.cfg.PaymentHandoffURL, "/") + "/" + url.PathEscape(token), nil
}
