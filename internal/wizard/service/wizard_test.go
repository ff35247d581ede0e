package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	catalogservice "korskola/internal/catalog/service"
	"korskola/internal/wizard/core"
	"korskola/internal/wizard/eligibility"
	"korskola/internal/wizard/session"
	"korskola/pkg/config"
	apperrors "korskola/pkg/errors"
	"korskola/pkg/logger"
	"korskola/pkg/model"
	"korskola/pkg/sealer"
)

const (
	testKey        = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="
	testHandoffURL = "https://pay.example.se/handoff/"
)

var (
	testNow   = time.Date(2030, 3, 1, 12, 0, 0, 0, time.UTC)
	teacher   = &model.ActingUser{ID: "teacher-1", Role: model.RoleTeacher}
	learner   = &model.ActingUser{ID: "student-1", Role: model.RoleStudent}
	anonymous *model.ActingUser
)

func intPtr(v int) *int { return &v }

type mockCatalog struct {
	lessonTypes      []model.LessonType
	teoriLessonTypes []model.TeoriLessonType
	sessions         map[string]model.TeoriSession
	notice           *catalogservice.Notice
}

func (m *mockCatalog) LoadLessonTypes(ctx context.Context) ([]model.LessonType, *catalogservice.Notice) {
	return m.lessonTypes, nil
}

func (m *mockCatalog) LoadTeoriLessonTypes(ctx context.Context) ([]model.TeoriLessonType, *catalogservice.Notice) {
	if m.notice != nil {
		return []model.TeoriLessonType{}, m.notice
	}
	return m.teoriLessonTypes, nil
}

func (m *mockCatalog) LessonType(ctx context.Context, id string) (*model.LessonType, error) {
	for _, lt := range m.lessonTypes {
		if lt.ID == id {
			return &lt, nil
		}
	}
	return nil, apperrors.NotFoundWithID("Lesson type", id)
}

func (m *mockCatalog) TeoriLessonType(ctx context.Context, id string) (*model.TeoriLessonType, error) {
	for _, tt := range m.teoriLessonTypes {
		if tt.ID == id {
			return &tt, nil
		}
	}
	return nil, apperrors.NotFoundWithID("Teori lesson type", id)
}

func (m *mockCatalog) OpenSession(ctx context.Context, typeID, sessionID string) (*model.TeoriSession, error) {
	s, ok := m.sessions[sessionID]
	if !ok || s.TeoriLessonTypeID != typeID {
		return nil, apperrors.NotFoundWithID("Teori session", sessionID)
	}
	return &s, nil
}

type mockStudents struct {
	created []*model.Person
}

func (m *mockStudents) GetByID(ctx context.Context, id string) (*model.Student, error) {
	if id != "student-9" {
		return nil, apperrors.NotFoundWithID("Student", id)
	}
	return &model.Student{ID: id, Person: model.Person{FirstName: "Sara", LastName: "Lind"}}, nil
}

func (m *mockStudents) Create(ctx context.Context, person *model.Person) (*model.Student, error) {
	m.created = append(m.created, person)
	return &model.Student{ID: "student-new", Person: *person}, nil
}

type mockBookings struct {
	requests []*model.BookingRequest
	err      error
}

func (m *mockBookings) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	return &model.Booking{ID: "booking-1", TotalPrice: req.TotalPrice}, nil
}

type fixture struct {
	svc      WizardService
	store    *session.MemoryStore
	catalog  *mockCatalog
	students *mockStudents
	bookings *mockBookings
	sealer   *sealer.Sealer
}

func newFixture(t *testing.T, maxParticipants, current int) *fixture {
	t.Helper()
	return newPricedFixture(t, maxParticipants, current, config.SupervisorPricingEvery)
}

func newPricedFixture(t *testing.T, maxParticipants, current int, pricingRule string) *fixture {
	t.Helper()

	catalog := &mockCatalog{
		lessonTypes: []model.LessonType{
			{ID: "lt1", Name: "Körlektion", DurationMinutes: 40, Price: 500, PriceStudent: intPtr(400), Active: true},
		},
		teoriLessonTypes: []model.TeoriLessonType{
			{ID: "tt1", Name: "Handledarkurs", AllowsSupervisors: true, Price: 300, PricePerSupervisor: intPtr(100), DurationMinutes: 180, MaxParticipants: 10, Active: true},
			{ID: "tt2", Name: "Riskettan", Price: 900, DurationMinutes: 180, MaxParticipants: 10, Active: true},
		},
		sessions: map[string]model.TeoriSession{
			"ts1": {ID: "ts1", TeoriLessonTypeID: "tt1", Title: "Kväll", Date: "2030-05-01", StartTime: "18:00", EndTime: "21:00", MaxParticipants: maxParticipants, CurrentParticipants: current, Price: 300, Active: true},
			"ts2": {ID: "ts2", TeoriLessonTypeID: "tt2", Title: "Dag", Date: "2030-05-02", StartTime: "09:00", EndTime: "12:00", MaxParticipants: 10, Price: 900, Active: true},
		},
	}

	checker, err := eligibility.NewChecker(eligibility.Config{Location: time.UTC, Now: func() time.Time { return testNow }})
	if err != nil {
		t.Fatalf("NewChecker() error = %v", err)
	}
	seal, err := sealer.New(testKey)
	if err != nil {
		t.Fatalf("sealer.New() error = %v", err)
	}

	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(store.Stop)

	log := logger.New(logger.Config{Level: logger.ERROR, Service: "wizard-test"})
	f := &fixture{store: store, catalog: catalog, students: &mockStudents{}, bookings: &mockBookings{}, sealer: seal}
	svc, err := NewWizardService(store, catalog, f.students, f.bookings, checker, seal, &config.Config{Log: log, PaymentHandoffURL: testHandoffURL, SupervisorPricing: pricingRule})
	if err != nil {
		t.Fatalf("NewWizardService() error = %v", err)
	}
	svc.(*wizardService).now = func() time.Time { return testNow }
	f.svc = svc
	return f
}

// apply sends events in order and fails the test on the first error.
func (f *fixture) apply(t *testing.T, id string, user *model.ActingUser, reqs ...*EventRequest) *View {
	t.Helper()
	var view *View
	for _, req := range reqs {
		var err error
		view, err = f.svc.Apply(context.Background(), id, user, req)
		if err != nil {
			t.Fatalf("Apply(%s) error = %v", req.Type, err)
		}
	}
	return view
}

func start(t *testing.T, f *fixture, user *model.ActingUser) string {
	t.Helper()
	view, err := f.svc.Start(context.Background(), user)
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if view.Step != core.StepLessonSelection {
		t.Fatalf("Start() step = %s", view.Step)
	}
	return view.ID
}

func supervisorReq(name string) *EventRequest {
	return &EventRequest{Type: core.EventAddSupervisor, Supervisor: &model.Supervisor{Name: name, Email: "handledare@example.se"}}
}

func guestReq() *EventRequest {
	return &EventRequest{Type: core.EventRegisterGuest, Guest: &model.Person{
		FirstName: "Erik", LastName: "Berg", Email: "erik@example.se", Phone: "070-123 45 67", PersonalNumber: "19900101-1234",
	}}
}

func TestAnonymousTeoriBookingWithSupervisors(t *testing.T) {
	f := newFixture(t, 10, 0)
	id := start(t, f, anonymous)

	view := f.apply(t, id, anonymous,
		&EventRequest{Type: core.EventSelectTeoriLessonType, TeoriLessonTypeID: "tt1"},
		&EventRequest{Type: core.EventSelectTeoriSession, TeoriSessionID: "ts1"},
	)
	if view.Step != core.StepSupervisorManagement {
		t.Fatalf("step = %s, want supervisor_management", view.Step)
	}

	view = f.apply(t, id, anonymous, supervisorReq("Anna Berg"), supervisorReq("Olle Berg"))
	if view.Step != core.StepSupervisorManagement || view.Quote == nil || view.Quote.Total != 500 {
		t.Fatalf("after supervisors: step %s, quote %+v", view.Step, view.Quote)
	}

	view = f.apply(t, id, anonymous, &EventRequest{Type: core.EventContinue}, guestReq())
	if view.Step != core.StepConfirmation {
		t.Fatalf("step = %s, want confirmation", view.Step)
	}

	_, err := f.svc.Confirm(context.Background(), id, anonymous, &ConfirmRequest{})
	if !apperrors.HasCode(err, apperrors.CodeTermsNotAccepted) {
		t.Fatalf("Confirm() without terms error = %v", err)
	}
	if len(f.bookings.requests) != 0 {
		t.Fatal("booking submitted without accepted terms")
	}

	handoff, err := f.svc.Confirm(context.Background(), id, anonymous, &ConfirmRequest{AcceptTerms: true})
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if handoff.BookingID != "booking-1" || handoff.TotalPrice != 500 || handoff.PaymentMethod != model.PaymentMethodPending {
		t.Errorf("handoff = %+v", handoff)
	}

	req := f.bookings.requests[0]
	if req.Mode != model.ModeTeori || req.TeoriSessionID != "ts1" || len(req.Supervisors) != 2 || req.Guest == nil || req.UserID != "" {
		t.Errorf("booking request = %+v", req)
	}
	if req.SubmissionKey != id {
		t.Errorf("SubmissionKey = %q, want session id", req.SubmissionKey)
	}

	token, ok := strings.CutPrefix(handoff.RedirectURL, testHandoffURL)
	if !ok {
		t.Fatalf("RedirectURL = %s", handoff.RedirectURL)
	}
	parts, err := f.sealer.Open(token, 2)
	if err != nil || parts[0] != "booking-1" {
		t.Errorf("handoff token opens to %v, %v", parts, err)
	}

	if _, err := f.svc.Get(context.Background(), id, anonymous); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("session after confirm: error = %v, want not found", err)
	}
}

func TestSupervisorPricing_FirstSupervisorFree(t *testing.T) {
	f := newPricedFixture(t, 10, 0, config.SupervisorPricingFirstFree)
	id := start(t, f, anonymous)

	view := f.apply(t, id, anonymous,
		&EventRequest{Type: core.EventSelectTeoriLessonType, TeoriLessonTypeID: "tt1"},
		&EventRequest{Type: core.EventSelectTeoriSession, TeoriSessionID: "ts1"},
		supervisorReq("Anna Berg"),
		supervisorReq("Olle Berg"),
	)
	if view.Quote == nil || view.Quote.Total != 400 || view.Quote.SupervisorFee != 100 {
		t.Fatalf("quote = %+v, want total 400 with one supervisor charged", view.Quote)
	}
	if view.Draft.TotalPrice == nil || *view.Draft.TotalPrice != 400 {
		t.Fatalf("draft total = %v, want 400", view.Draft.TotalPrice)
	}

	f.apply(t, id, anonymous, &EventRequest{Type: core.EventContinue}, guestReq())
	handoff, err := f.svc.Confirm(context.Background(), id, anonymous, &ConfirmRequest{AcceptTerms: true})
	if err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	if handoff.TotalPrice != 400 || f.bookings.requests[0].TotalPrice != 400 {
		t.Errorf("handoff total %d, booked total %d, want 400", handoff.TotalPrice, f.bookings.requests[0].TotalPrice)
	}
}

func TestNewWizardService_UnknownSupervisorPricing(t *testing.T) {
	log := logger.New(logger.Config{Level: logger.ERROR, Service: "wizard-test"})
	_, err := NewWizardService(nil, nil, nil, nil, nil, nil, &config.Config{Log: log, SupervisorPricing: "half"})
	if err == nil {
		t.Fatal("NewWizardService() accepted an unknown supervisor pricing")
	}
}

func TestConfirm_FailureKeepsDraft(t *testing.T) {
	f := newFixture(t, 10, 0)
	f.bookings.err = errors.New("Tiden är inte längre ledig")
	id := start(t, f, learner)

	f.apply(t, id, learner,
		&EventRequest{Type: core.EventSelectLessonType, LessonTypeID: "lt1"},
		&EventRequest{Type: core.EventSelectDateTime, Date: "2030-03-04", Time: "09:00"},
		&EventRequest{Type: core.EventSelectTransmission, Transmission: model.TransmissionAutomatic},
	)
	before, err := f.svc.Get(context.Background(), id, learner)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if before.Step != core.StepConfirmation || before.Quote.Total != 400 || before.Quote.Discount != 100 {
		t.Fatalf("before confirm: step %s, quote %+v", before.Step, before.Quote)
	}

	_, err = f.svc.Confirm(context.Background(), id, learner, &ConfirmRequest{AcceptTerms: true})
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeBookingRejected || appErr.Message != "Tiden är inte längre ledig" {
		t.Fatalf("Confirm() error = %+v", appErr)
	}

	after, err := f.svc.Get(context.Background(), id, learner)
	if err != nil {
		t.Fatalf("Get() after failure error = %v", err)
	}
	if after.Step != before.Step || after.Version != before.Version || *after.Draft.TotalPrice != 400 {
		t.Errorf("draft changed after failed submit: %+v", after)
	}

	req := f.bookings.requests[0]
	if req.UserID != learner.ID || req.TotalPrice != 400 || req.Transmission != model.TransmissionAutomatic {
		t.Errorf("booking request = %+v", req)
	}
}

func TestAddSupervisor_Capacity(t *testing.T) {
	f := newFixture(t, 3, 1)
	id := start(t, f, anonymous)
	f.apply(t, id, anonymous,
		&EventRequest{Type: core.EventSelectTeoriLessonType, TeoriLessonTypeID: "tt1"},
		&EventRequest{Type: core.EventSelectTeoriSession, TeoriSessionID: "ts1"},
		supervisorReq("Anna Berg"),
	)

	opts, err := f.svc.Options(context.Background(), id, anonymous)
	if err != nil || opts.RemainingSupervisorSpots == nil || *opts.RemainingSupervisorSpots != 0 {
		t.Fatalf("Options() = %+v, %v", opts, err)
	}

	_, err = f.svc.Apply(context.Background(), id, anonymous, supervisorReq("Olle Berg"))
	appErr := apperrors.AsAppError(err)
	if appErr.Code != apperrors.CodeNoSpotsAvailable || appErr.Details["available_spots"] != 2 {
		t.Fatalf("Apply() error = %+v", appErr)
	}

	view, _ := f.svc.Get(context.Background(), id, anonymous)
	if len(view.Draft.Supervisors) != 1 {
		t.Errorf("supervisors = %d, want 1", len(view.Draft.Supervisors))
	}
}

func TestApply_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		setup    []*EventRequest
		req      *EventRequest
		wantCode string
	}{
		{
			name:     "event for another step",
			req:      &EventRequest{Type: core.EventSelectDateTime, Date: "2030-03-04", Time: "09:00"},
			wantCode: apperrors.CodeStepNotAllowed,
		},
		{
			name:     "unknown lesson type",
			req:      &EventRequest{Type: core.EventSelectLessonType, LessonTypeID: "nope"},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "session of another type",
			setup:    []*EventRequest{{Type: core.EventSelectTeoriLessonType, TeoriLessonTypeID: "tt1"}},
			req:      &EventRequest{Type: core.EventSelectTeoriSession, TeoriSessionID: "ts2"},
			wantCode: apperrors.CodeNotFound,
		},
		{
			name:     "continue without a date",
			setup:    []*EventRequest{{Type: core.EventSelectLessonType, LessonTypeID: "lt1"}},
			req:      &EventRequest{Type: core.EventContinue},
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "supervisor without contact",
			setup: []*EventRequest{
				{Type: core.EventSelectTeoriLessonType, TeoriLessonTypeID: "tt1"},
				{Type: core.EventSelectTeoriSession, TeoriSessionID: "ts1"},
			},
			req:      &EventRequest{Type: core.EventAddSupervisor, Supervisor: &model.Supervisor{Name: "Anna"}},
			wantCode: apperrors.CodeValidation,
		},
		{
			name: "invalid guest",
			setup: []*EventRequest{
				{Type: core.EventSelectTeoriLessonType, TeoriLessonTypeID: "tt2"},
				{Type: core.EventSelectTeoriSession, TeoriSessionID: "ts2"},
			},
			req:      &EventRequest{Type: core.EventRegisterGuest, Guest: &model.Person{FirstName: "Erik", Email: "nope"}},
			wantCode: apperrors.CodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 10, 0)
			id := start(t, f, anonymous)
			f.apply(t, id, anonymous, tt.setup...)
			before, _ := f.svc.Get(context.Background(), id, anonymous)

			_, err := f.svc.Apply(context.Background(), id, anonymous, tt.req)
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Fatalf("Apply() error = %v, want code %s", err, tt.wantCode)
			}

			after, _ := f.svc.Get(context.Background(), id, anonymous)
			if after.Step != before.Step || after.Version != before.Version {
				t.Errorf("failed event changed the session: %s v%d -> %s v%d", before.Step, before.Version, after.Step, after.Version)
			}
		})
	}
}

func TestStaffBooksForNewStudent(t *testing.T) {
	f := newFixture(t, 10, 0)
	id := start(t, f, teacher)

	view := f.apply(t, id, teacher,
		&EventRequest{Type: core.EventSelectLessonType, LessonTypeID: "lt1"},
		&EventRequest{Type: core.EventSelectDateTime, Date: "2030-03-04", Time: "09:00"},
		&EventRequest{Type: core.EventSelectTransmission, Transmission: model.TransmissionManual},
	)
	if view.Step != core.StepStudentSelection {
		t.Fatalf("step = %s, want student_selection", view.Step)
	}

	_, err := f.svc.Apply(context.Background(), id, teacher, &EventRequest{Type: core.EventSelectStudent, StudentID: "student-9", NewStudent: &model.Person{}})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("both student_id and new_student: error = %v", err)
	}

	view = f.apply(t, id, teacher, &EventRequest{Type: core.EventSelectStudent, NewStudent: &model.Person{
		FirstName: "Ny", LastName: "Elev", Email: "ny@example.se", Phone: "0701112233", PersonalNumber: "200501011234",
	}})
	if view.Step != core.StepConfirmation || view.Draft.Student.UserID != "student-new" {
		t.Fatalf("after select_student: %+v", view)
	}
	if view.Quote.Total != 500 {
		t.Errorf("staff pays the full price, got %d", view.Quote.Total)
	}

	if _, err := f.svc.Confirm(context.Background(), id, teacher, &ConfirmRequest{AcceptTerms: true}); err != nil {
		t.Fatalf("Confirm() error = %v", err)
	}
	req := f.bookings.requests[0]
	if req.UserID != "student-new" || req.BookedBy != teacher.ID || req.Guest != nil {
		t.Errorf("booking request = %+v", req)
	}
}

func TestBack_ClearsSelection(t *testing.T) {
	f := newFixture(t, 10, 0)
	id := start(t, f, learner)
	f.apply(t, id, learner, &EventRequest{Type: core.EventSelectLessonType, LessonTypeID: "lt1"})

	view, err := f.svc.Back(context.Background(), id, learner, nil)
	if err != nil {
		t.Fatalf("Back() error = %v", err)
	}
	if view.Step != core.StepLessonSelection || view.Draft.Selection != nil || view.Quote != nil {
		t.Errorf("after back: %+v", view)
	}

	if _, err := f.svc.Back(context.Background(), id, learner, nil); !apperrors.HasCode(err, apperrors.CodeStepNotAllowed) {
		t.Errorf("Back() from first step error = %v", err)
	}
}

func TestSessionOwnershipAndVersion(t *testing.T) {
	f := newFixture(t, 10, 0)
	id := start(t, f, learner)

	other := &model.ActingUser{ID: "student-2", Role: model.RoleStudent}
	for _, user := range []*model.ActingUser{other, anonymous} {
		if _, err := f.svc.Get(context.Background(), id, user); !apperrors.HasCode(err, apperrors.CodeNotFound) {
			t.Errorf("Get() by non-owner error = %v", err)
		}
	}

	stale := int64(0)
	f.apply(t, id, learner, &EventRequest{Type: core.EventSelectLessonType, LessonTypeID: "lt1", Version: &stale})

	_, err := f.svc.Apply(context.Background(), id, learner, &EventRequest{Type: core.EventSelectDateTime, Date: "2030-03-04", Time: "09:00", Version: &stale})
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Errorf("Apply() with stale version error = %v", err)
	}

	if err := f.svc.Abandon(context.Background(), id, learner); err != nil {
		t.Fatalf("Abandon() error = %v", err)
	}
	if _, err := f.svc.Get(context.Background(), id, learner); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Errorf("Get() after abandon error = %v", err)
	}
}

func TestOptions(t *testing.T) {
	f := newFixture(t, 10, 0)
	f.catalog.notice = &catalogservice.Notice{Resource: catalogservice.ResourceTeoriLessonTypes, Message: "down"}
	id := start(t, f, anonymous)

	opts, err := f.svc.Options(context.Background(), id, anonymous)
	if err != nil {
		t.Fatalf("Options() error = %v", err)
	}
	if len(opts.LessonTypes) != 1 || len(opts.TeoriLessonTypes) != 0 || len(opts.Notices) != 1 {
		t.Errorf("Options() = %+v", opts)
	}

	f.apply(t, id, anonymous,
		&EventRequest{Type: core.EventSelectLessonType, LessonTypeID: "lt1"},
		&EventRequest{Type: core.EventSelectDateTime, Date: "2030-03-04", Time: "09:00"},
	)
	opts, err = f.svc.Options(context.Background(), id, anonymous)
	if err != nil || opts.Step != core.StepGearSelection || len(opts.Transmissions) != 2 {
		t.Errorf("Options() at gear selection = %+v, %v", opts, err)
	}
}
