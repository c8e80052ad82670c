package list_sessions

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	got *models.ListSessionsRequest
	err error
}

func (s *stubService) List(_ context.Context, req *models.ListSessionsRequest) (*models.SessionListResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.SessionListResponse{Sessions: []models.SessionResponse{}}, nil
}

func serve(svc *stubService, target string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/users/{userId}/sessions", NewHandler(svc, nopLogger{}).Handle)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: 12, Role: domain.RoleExpert}))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandle_Filters(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, "/api/v1/users/12/sessions?as=expert&status=confirmed&from=2026-10-01&to=2026-10-31&limit=20&offset=40")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(12), svc.got.UserID)
	assert.Equal(t, "expert", svc.got.As)
	require.NotNil(t, svc.got.Status)
	assert.Equal(t, "confirmed", *svc.got.Status)
	require.NotNil(t, svc.got.From)
	assert.Equal(t, time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC), *svc.got.From)
	assert.Equal(t, 20, svc.got.Limit)
	assert.Equal(t, 40, svc.got.Offset)
}

func TestHandle_Defaults(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, "/api/v1/users/12/sessions")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "client", svc.got.As)
	assert.Nil(t, svc.got.Status)
	assert.Nil(t, svc.got.From)
	assert.Zero(t, svc.got.Limit)
}

func TestHandle_Errors(t *testing.T) {
	rec := serve(&stubService{}, "/api/v1/users/12/sessions?from=yesterday")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubService{}, "/api/v1/users/12/sessions?limit=ten")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubService{err: sessions.ErrAccessDenied}, "/api/v1/users/99/sessions")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(&stubService{err: sessions.ErrInvalidInput}, "/api/v1/users/12/sessions?as=admin")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
