package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"korskola/internal/wizard/core"
	"korskola/internal/wizard/service"
	"korskola/pkg/auth"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/logger"
	"korskola/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockWizardService struct {
	startFunc   func(ctx context.Context, user *model.ActingUser) (*service.View, error)
	getFunc     func(ctx context.Context, id string, user *model.ActingUser) (*service.View, error)
	optionsFunc func(ctx context.Context, id string, user *model.ActingUser) (*service.Options, error)
	applyFunc   func(ctx context.Context, id string, user *model.ActingUser, req *service.EventRequest) (*service.View, error)
	backFunc    func(ctx context.Context, id string, user *model.ActingUser, version *int64) (*service.View, error)
	confirmFunc func(ctx context.Context, id string, user *model.ActingUser, req *service.ConfirmRequest) (*service.Handoff, error)
	abandonFunc func(ctx context.Context, id string, user *model.ActingUser) error
}

func (m *mockWizardService) Start(ctx context.Context, user *model.ActingUser) (*service.View, error) {
	return m.startFunc(ctx, user)
}

func (m *mockWizardService) Get(ctx context.Context, id string, user *model.ActingUser) (*service.View, error) {
	return m.getFunc(ctx, id, user)
}

func (m *mockWizardService) Options(ctx context.Context, id string, user *model.ActingUser) (*service.Options, error) {
	return m.optionsFunc(ctx, id, user)
}

func (m *mockWizardService) Apply(ctx context.Context, id string, user *model.ActingUser, req *service.EventRequest) (*service.View, error) {
	return m.applyFunc(ctx, id, user, req)
}

func (m *mockWizardService) Back(ctx context.Context, id string, user *model.ActingUser, version *int64) (*service.View, error) {
	return m.backFunc(ctx, id, user, version)
}

func (m *mockWizardService) Confirm(ctx context.Context, id string, user *model.ActingUser, req *service.ConfirmRequest) (*service.Handoff, error) {
	return m.confirmFunc(ctx, id, user, req)
}

func (m *mockWizardService) Abandon(ctx context.Context, id string, user *model.ActingUser) error {
	return m.abandonFunc(ctx, id, user)
}

func newRouter(svc *mockWizardService) *httprouter.Router {
	router := httprouter.New()
	NewWizardHandler(svc, logger.New(logger.Config{Level: logger.ERROR})).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, path, body string, user *model.ActingUser) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestStart(t *testing.T) {
	user := &model.ActingUser{ID: "student-1", Role: model.RoleStudent}
	svc := &mockWizardService{startFunc: func(ctx context.Context, u *model.ActingUser) (*service.View, error) {
		if u != user {
			t.Errorf("Start() got user %+v", u)
		}
		return &service.View{ID: "s1", Step: core.StepLessonSelection}, nil
	}}

	rec := serve(newRouter(svc), http.MethodPost, "/api/v1/wizard/sessions", "", user)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"lesson_selection"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{name: "applied", body: `{"type":"select_lesson_type","lesson_type_id":"lt1"}`, status: http.StatusOK},
		{name: "unknown field", body: `{"type":"continue","colour":"red"}`, status: http.StatusBadRequest},
		{name: "wrong step", body: `{"type":"select_date_time"}`, err: apperrors.StepNotAllowed("lesson_selection", "select_date_time"), status: http.StatusConflict},
		{name: "field errors", body: `{"type":"register_guest","guest":{}}`, err: apperrors.Validation("Booking details are invalid", map[string]any{"guest.email": "email is required"}), status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWizardService{applyFunc: func(ctx context.Context, id string, u *model.ActingUser, req *service.EventRequest) (*service.View, error) {
				if id != "s1" {
					t.Errorf("id = %s", id)
				}
				if tt.err != nil {
					return nil, tt.err
				}
				return &service.View{ID: id, Step: core.StepDrivingCalendar}, nil
			}}

			rec := serve(newRouter(svc), http.MethodPost, "/api/v1/wizard/sessions/s1/events", tt.body, nil)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestBack_EmptyBody(t *testing.T) {
	var gotVersion *int64
	svc := &mockWizardService{backFunc: func(ctx context.Context, id string, u *model.ActingUser, version *int64) (*service.View, error) {
		gotVersion = version
		return &service.View{ID: id, Step: core.StepLessonSelection}, nil
	}}
	router := newRouter(svc)

	if rec := serve(router, http.MethodPost, "/api/v1/wizard/sessions/s1/back", "", nil); rec.Code != http.StatusOK {
		t.Fatalf("empty body status = %d", rec.Code)
	}
	if gotVersion != nil {
		t.Errorf("version = %v, want nil", *gotVersion)
	}

	if rec := serve(router, http.MethodPost, "/api/v1/wizard/sessions/s1/back", `{"version":3}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("versioned status = %d", rec.Code)
	}
	if gotVersion == nil || *gotVersion != 3 {
		t.Errorf("version = %v, want 3", gotVersion)
	}
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "handoff", status: http.StatusCreated},
		{name: "terms", err: apperrors.TermsNotAccepted(), status: http.StatusConflict},
		{name: "rejected", err: apperrors.BookingRejected("Tiden är upptagen", nil), status: http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockWizardService{confirmFunc: func(ctx context.Context, id string, u *model.ActingUser, req *service.ConfirmRequest) (*service.Handoff, error) {
				if !req.AcceptTerms {
					t.Error("accept_terms not decoded")
				}
				if tt.err != nil {
					return nil, tt.err
				}
				return &service.Handoff{BookingID: "b1", RedirectURL: "https://pay.example.se/handoff/tok"}, nil
			}}

			rec := serve(newRouter(svc), http.MethodPost, "/api/v1/wizard/sessions/s1/confirm", `{"accept_terms":true}`, nil)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.err == nil {
				var body struct {
					Data service.Handoff `json:"data"`
				}
				if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
					t.Fatalf("decode body: %v", err)
				}
				if body.Data.BookingID != "b1" {
					t.Errorf("handoff = %+v", body.Data)
				}
			}
		})
	}
}

func TestAbandon(t *testing.T) {
	svc := &mockWizardService{abandonFunc: func(ctx context.Context, id string, u *model.ActingUser) error {
		if id == "gone" {
			return apperrors.NotFound("Wizard session")
		}
		return nil
	}}
	router := newRouter(svc)

	if rec := serve(router, http.MethodDelete, "/api/v1/wizard/sessions/s1", "", nil); rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec := serve(router, http.MethodDelete, "/api/v1/wizard/sessions/gone", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
