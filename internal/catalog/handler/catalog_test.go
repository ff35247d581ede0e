package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"korskola/internal/catalog/service"
	"korskola/pkg/logger"
	"korskola/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type mockCatalogService struct {
	service.CatalogService
	loadLessonTypesFunc      func(ctx context.Context) ([]model.LessonType, *service.Notice)
	loadTeoriLessonTypesFunc func(ctx context.Context) ([]model.TeoriLessonType, *service.Notice)
}

func (m *mockCatalogService) LoadLessonTypes(ctx context.Context) ([]model.LessonType, *service.Notice) {
	return m.loadLessonTypesFunc(ctx)
}

func (m *mockCatalogService) LoadTeoriLessonTypes(ctx context.Context) ([]model.TeoriLessonType, *service.Notice) {
	return m.loadTeoriLessonTypesFunc(ctx)
}

func newRouter(svc service.CatalogService) *httprouter.Router {
	router := httprouter.New()
	NewCatalogHandler(svc, logger.New(logger.Config{Level: logger.ERROR})).RegisterRoutes(router)
	return router
}

func TestLessonTypes(t *testing.T) {
	svc := &mockCatalogService{loadLessonTypesFunc: func(ctx context.Context) ([]model.LessonType, *service.Notice) {
		return []model.LessonType{{ID: "lt1", Name: "Körlektion", Price: 500}}, nil
	}}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/lesson-types", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data   []model.LessonType `json:"data"`
		Notice *service.Notice    `json:"notice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].ID != "lt1" || body.Notice != nil {
		t.Errorf("body = %+v", body)
	}
}

func TestTeoriLessonTypes_NoticeOnFailure(t *testing.T) {
	svc := &mockCatalogService{loadTeoriLessonTypesFunc: func(ctx context.Context) ([]model.TeoriLessonType, *service.Notice) {
		return []model.TeoriLessonType{}, &service.Notice{Resource: service.ResourceTeoriLessonTypes, Message: "down"}
	}}

	rec := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/teori-lesson-types", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("load failures must not fail the request, status = %d", rec.Code)
	}
	var body struct {
		Data   []model.TeoriLessonType `json:"data"`
		Notice *service.Notice         `json:"notice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data == nil || len(body.Data) != 0 || body.Notice == nil {
		t.Errorf("body = %+v, want empty data with notice", body)
	}
}
