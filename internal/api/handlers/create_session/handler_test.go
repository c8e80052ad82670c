package create_session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	createSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_session"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type stubUseCase struct {
	got *createSession.Request
	err error
}

func (s *stubUseCase) Execute(_ context.Context, req *createSession.Request) (*createSession.Response, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return &createSession.Response{
		Session: &domain.Session{
			ID:            1,
			ClientID:      req.ClientID,
			ExpertID:      req.ExpertID,
			ScheduledDate: req.Date,
			ScheduledTime: req.StartTime,
			EndTime:       types.TimeString("10:30"),
			Price:         50,
			Status:        domain.StatusPending,
		},
		AmountDue: 10,
	}, nil
}

func do(t *testing.T, uc *stubUseCase, body string, withActor bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(body))
	if withActor {
		req = req.WithContext(middleware.WithActor(req.Context(), domain.Actor{ID: 101, Role: domain.RoleClient}))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &stubUseCase{}
	rec := do(t, uc, `{"expertId":7,"date":"2026-10-19","time":"10:00","durationMinutes":30,"useCredits":true}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(101), uc.got.ClientID)
	assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC), uc.got.Date)
	assert.True(t, uc.got.UseCredits)

	var resp CreateSessionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 10.0, resp.AmountDue)
	assert.Equal(t, "10:00", resp.Session.ScheduledTime)
}

func TestHandle_BadRequest(t *testing.T) {
	bodies := []string{
		`{"expertId":7,"date":"19.10.2026","time":"10:00","durationMinutes":30}`,
		`{"expertId":7,"date":"2026-10-19","time":"10:00","durationMinutes":45}`,
		`{"expertId":7,"date":"2026-10-19","time":"25:00","durationMinutes":30}`,
		`{"date":"2026-10-19","time":"10:00","durationMinutes":30}`,
		`not json`,
	}

	for _, body := range bodies {
		uc := &stubUseCase{}
		rec := do(t, uc, body, true)

		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
		assert.Nil(t, uc.got, body)
	}
}

func TestHandle_Unauthorized(t *testing.T) {
	rec := do(t, &stubUseCase{}, `{}`, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestHandle_UsecaseErrors(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{createSession.ErrSlotNotAvailable, http.StatusConflict, msgSlotNotAvailable},
		{createSession.ErrExpertNotFound, http.StatusNotFound, msgExpertNotFound},
		{createSession.ErrExpertNotBookable, http.StatusUnprocessableEntity, msgExpertNotBookable},
		{createSession.ErrInvalidTimeSlot, http.StatusBadRequest, msgInvalidTimeSlot},
		{createSession.ErrSelfBooking, http.StatusBadRequest, msgSelfBooking},
		{fmt.Errorf("%w: db down", createSession.ErrInternal), http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		rec := do(t, &stubUseCase{err: tt.err}, `{"expertId":7,"date":"2026-10-19","time":"10:00","durationMinutes":30}`, true)

		assert.Equal(t, tt.status, rec.Code, tt.err.Error())
		if tt.message != "" {
			var body handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Error)
		}
	}
}
