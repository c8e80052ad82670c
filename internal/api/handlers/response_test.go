package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

type nopLogger struct{}

func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: x", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: x", domain.ErrForbidden), http.StatusForbidden},
		{fmt.Errorf("%w: x", domain.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: x", domain.ErrInvalidState), http.StatusConflict},
		{fmt.Errorf("%w: x", domain.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: x", domain.ErrInsufficientState), http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: x", domain.ErrInternal), http.StatusInternalServerError},
		{errors.New("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), tt.err.Error())
	}
}

func TestRespondUsecaseError_Messages(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondUsecaseError(rec, nopLogger{}, "POST /sessions", fmt.Errorf("%w: taken", domain.ErrConflict),
		Messages{Conflict: "слот занят"})

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "слот занят", body.Error)

	rec = httptest.NewRecorder()
	RespondUsecaseError(rec, nopLogger{}, "POST /sessions", fmt.Errorf("%w: db: connection refused", domain.ErrInternal), Messages{})

	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, body.Error, "connection refused")
}

type decodeTarget struct {
	Date string `json:"date" validate:"required,date"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"date":"2026-10-19"}`, false},
		{"unknown field", `{"date":"2026-10-19","extra":1}`, true},
		{"two objects", `{"date":"2026-10-19"}{"date":"2026-10-20"}`, true},
		{"failed validation", `{"date":"tomorrow"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var v decodeTarget
			err := DecodeJSON(r, &v)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
