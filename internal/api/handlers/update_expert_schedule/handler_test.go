package update_expert_schedule

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/experts"
	"github.com/m04kA/SMC-ConsultationService/internal/service/experts/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubService struct {
	got *models.UpdateScheduleRequest
	err error
}

func (s *stubService) UpdateSchedule(_ context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &models.ScheduleResponse{ExpertID: req.ExpertID}, nil
}

func serve(svc *stubService, actor *domain.Actor, body string) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/v1/experts/{expertId}/schedule", NewHandler(svc, nopLogger{}).Handle).Methods(http.MethodPut)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/experts/5/schedule", strings.NewReader(body))
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

const validBody = `{
	"timezone": "Europe/Berlin",
	"slotDurationMinutes": 30,
	"availability": {"monday": [{"start": "09:00", "end": "12:00"}]},
	"breakTimes": [{"start": "10:00", "end": "10:30"}]
}`

func TestHandle_PassesActorAndPath(t *testing.T) {
	svc := &stubService{}
	rec := serve(svc, &domain.Actor{ID: 5, Role: domain.RoleExpert}, validBody)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), svc.got.ExpertID)
	assert.Equal(t, domain.RoleExpert, svc.got.Actor.Role)
	assert.Len(t, svc.got.Availability["monday"], 1)
}

func TestHandle_Rejections(t *testing.T) {
	expert := &domain.Actor{ID: 5, Role: domain.RoleExpert}

	rec := serve(&stubService{}, nil, validBody)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = serve(&stubService{}, expert, `{"availability": {"monday": [{"start": "9am", "end": "12:00"}]}}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubService{}, expert, `{"unknown": 1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubService{err: experts.ErrInvalidSchedule}, expert, validBody)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(&stubService{err: domain.ErrForbidden}, &domain.Actor{ID: 6, Role: domain.RoleExpert}, validBody)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = serve(&stubService{err: experts.ErrExpertNotFound}, expert, validBody)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
