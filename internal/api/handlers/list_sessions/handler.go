package list_sessions

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
)

const (
	msgInvalidUserID  = "некорректный ID пользователя"
	msgInvalidQuery   = "некорректные параметры фильтра"
	msgMissingUserID  = "отсутствует ID пользователя"
	msgForbidden      = "можно просматривать только свои сессии"
	msgInvalidFilters = "параметр as должен быть client или expert, status одним из статусов сессии"
)

type Handler struct {
	service SessionService
	logger  Logger
}

func NewHandler(service SessionService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/sessions
// Query params: as (client|expert), status, from, to (YYYY-MM-DD), limit, offset
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, err := handlers.PathID(r, "userId")
	if err != nil {
		h.logger.Warn("GET /users/{userId}/sessions - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	serviceReq, err := ToServiceRequest(r, actor, userID)
	if err != nil {
		h.logger.Warn("GET /users/{userId}/sessions - Invalid query: %v", err)
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	result, err := h.service.List(r.Context(), serviceReq)
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "GET /users/{userId}/sessions", err, handlers.Messages{
			Forbidden:  msgForbidden,
			Validation: msgInvalidFilters,
		})
		return
	}

	h.logger.Info("GET /users/{userId}/sessions - Sessions retrieved successfully: user_id=%d, as=%s, count=%d",
		userID, serviceReq.As, len(result.Sessions))
	handlers.RespondJSON(w, http.StatusOK, result)
}
