package get_session_ledger

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgNotFound         = "сессия не найдена"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgForbidden        = "доступ запрещен"
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

// Handle GET /api/v1/sessions/{sessionId}/ledger
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("GET /sessions/{id}/ledger - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	ledger, err := h.service.Ledger(r.Context(), sessionID, actor)
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "GET /sessions/{id}/ledger", err, handlers.Messages{
			NotFound:  msgNotFound,
			Forbidden: msgForbidden,
		})
		return
	}

	h.logger.Info("GET /sessions/{id}/ledger - Ledger retrieved: session_id=%d, entries=%d",
		sessionID, len(ledger.Entries))
	handlers.RespondJSON(w, http.StatusOK, ledger)
}
