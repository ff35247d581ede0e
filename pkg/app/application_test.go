package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"korskola/pkg/auth"
	"korskola/pkg/client"
	"korskola/pkg/config"
	"korskola/pkg/logger"
	"korskola/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type whoamiHandler struct{}

func (whoamiHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/whoami", func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		user := auth.FromContext(r.Context())
		if user == nil {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		_, _ = w.Write([]byte(user.ID))
	})
}

type fakeWorker struct {
	started atomic.Bool
	closed  atomic.Bool
}

func (w *fakeWorker) Start(ctx context.Context) error {
	w.started.Store(true)
	<-ctx.Done()
	return ctx.Err()
}

func (w *fakeWorker) Close() error {
	w.closed.Store(true)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Port:              "0",
		RateLimitRequests: 100,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
		IdempotencyTTL:    time.Minute,
		MaxRequestSize:    1 << 20,
		ShutdownTimeout:   time.Second,
		Log:               logger.New(logger.Config{Level: logger.ERROR, Service: "app_test"}),
		Client:            client.NewClient(),
	}
}

func TestApplication_Routes(t *testing.T) {
	authenticator := auth.NewAuthenticator("app-test-secret", "korskola")
	token, err := authenticator.Issue(model.ActingUser{ID: "teacher-1", Role: model.RoleTeacher}, time.Hour)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	a := NewApplication(testConfig())
	a.SetApp(authenticator, whoamiHandler{})
	defer a.rateLimiter.Stop()
	defer a.idempotencyStore.Stop()

	tests := []struct {
		name   string
		path   string
		header string
		status int
		body   string
	}{
		{name: "health", path: "/health", status: http.StatusOK, body: `"status":"ok"`},
		{name: "anonymous", path: "/api/v1/whoami", status: http.StatusOK, body: "anonymous"},
		{name: "authenticated", path: "/api/v1/whoami", header: "Bearer " + token, status: http.StatusOK, body: "teacher-1"},
		{name: "bad token", path: "/api/v1/whoami", header: "Bearer nope", status: http.StatusUnauthorized, body: "UNAUTHORIZED"},
		{name: "unknown route", path: "/api/v1/nothing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			a.server.Handler.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if tt.body != "" && !strings.Contains(rec.Body.String(), tt.body) {
				t.Errorf("body = %s, want %s", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestApplication_ShutdownStopsWorkersAndCleanups(t *testing.T) {
	a := NewApplication(testConfig())
	a.SetApp(auth.NewAuthenticator("app-test-secret", "korskola"))

	w := &fakeWorker{}
	a.AddWorker(w)

	var order []string
	a.OnShutdown(func() { order = append(order, "producer") })
	a.OnShutdown(func() { order = append(order, "drafts") })

	a.startWorkers()
	deadline := time.Now().Add(time.Second)
	for !w.started.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	a.gracefulShutdown()

	if !w.started.Load() || !w.closed.Load() {
		t.Errorf("worker started=%v closed=%v, want both", w.started.Load(), w.closed.Load())
	}
	if strings.Join(order, ",") != "drafts,producer" {
		t.Errorf("cleanup order = %v, want reverse registration", order)
	}
}
