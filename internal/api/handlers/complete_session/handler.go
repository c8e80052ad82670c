package complete_session

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	completeSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_session"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "сессия не найдена"
	msgForbidden        = "завершить сессию может только эксперт или администратор"
	msgInvalidState     = "завершить можно только подтвержденную сессию"
)

type Handler struct {
	useCase CompleteSessionUseCase
	logger  Logger
}

func NewHandler(useCase CompleteSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/complete
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/complete - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &completeSession.Request{
		SessionID: sessionID,
		Actor:     actor,
	})
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "POST /sessions/{id}/complete", err, handlers.Messages{
			NotFound:     msgNotFound,
			Forbidden:    msgForbidden,
			InvalidState: msgInvalidState,
		})
		return
	}

	h.logger.Info("POST /sessions/{id}/complete - Session completed: session_id=%d, user_id=%d", sessionID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainSession(result.Session))
}
