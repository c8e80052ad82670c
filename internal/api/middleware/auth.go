package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"

	msgMissingUserID = "отсутствует или некорректен заголовок X-User-ID"
	msgInvalidRole   = "некорректная роль пользователя"
)

type actorKey struct{}

// Auth достает личность пользователя из заголовков шлюза.
// Без X-User-Role пользователь считается клиентом. Роль system извне недоступна.
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(HeaderUserID)), 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondUnauthorized(w, msgMissingUserID)
			return
		}

		role := domain.RoleClient
		if raw := strings.TrimSpace(r.Header.Get(HeaderUserRole)); raw != "" {
			role = domain.ActorRole(strings.ToLower(raw))
		}
		if !role.IsValid() || role == domain.RoleSystem {
			handlers.RespondForbidden(w, msgInvalidRole)
			return
		}

		ctx := context.WithValue(r.Context(), actorKey{}, domain.Actor{ID: id, Role: role})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetActor возвращает пользователя, установленного Auth
func GetActor(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(domain.Actor)
	return actor, ok
}

// WithActor кладет пользователя в контекст (для тестов обработчиков)
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}
