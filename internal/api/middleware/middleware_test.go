package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

func TestAuth(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		role   string
		status int
		actor  domain.Actor
	}{
		{"client by default", "101", "", http.StatusOK, domain.Actor{ID: 101, Role: domain.RoleClient}},
		{"expert", "7", "Expert", http.StatusOK, domain.Actor{ID: 7, Role: domain.RoleExpert}},
		{"admin", "1", "admin", http.StatusOK, domain.Actor{ID: 1, Role: domain.RoleAdmin}},
		{"missing id", "", "", http.StatusUnauthorized, domain.Actor{}},
		{"bad id", "abc", "", http.StatusUnauthorized, domain.Actor{}},
		{"system is internal", "1", "system", http.StatusForbidden, domain.Actor{}},
		{"unknown role", "1", "owner", http.StatusForbidden, domain.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got domain.Actor
			h := Auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got, _ = GetActor(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.id != "" {
				req.Header.Set(HeaderUserID, tt.id)
			}
			if tt.role != "" {
				req.Header.Set(HeaderUserRole, tt.role)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.actor, got)
		})
	}
}

func TestRequestID(t *testing.T) {
	var got string
	h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetRequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, got, rec.Header().Get(HeaderRequestID))

	existing := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, existing)
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, existing, got)
}

type observed struct {
	route  string
	status int
}

type fakeRecorder struct{ calls []observed }

func (f *fakeRecorder) ObserveHTTPRequest(_, route string, status int, _ float64) {
	f.calls = append(f.calls, observed{route: route, status: status})
}

func TestMetricsMiddleware_UsesRouteTemplate(t *testing.T) {
	recorder := &fakeRecorder{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(recorder))
	r.HandleFunc("/sessions/{sessionId}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/sessions/42", nil))

	require.Len(t, recorder.calls, 1)
	assert.Equal(t, observed{route: "/sessions/{sessionId}", status: http.StatusNotFound}, recorder.calls[0])
}
