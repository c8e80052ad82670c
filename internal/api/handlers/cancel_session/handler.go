package cancel_session

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "сессия не найдена"
	msgForbidden          = "отменить сессию может только ее участник или администратор"
	msgCannotCancel       = "сессию в текущем статусе отменить нельзя"
)

type Handler struct {
	useCase CancelSessionUseCase
	logger  Logger
}

func NewHandler(useCase CancelSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/cancel - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		h.logger.Warn("POST /sessions/{id}/cancel - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CancelSessionRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /sessions/{id}/cancel - Invalid request body: %v", err)
			handlers.RespondDecodeError(w, msgInvalidRequestBody, err)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(sessionID, actor))
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "POST /sessions/{id}/cancel", err, handlers.Messages{
			NotFound:     msgNotFound,
			Forbidden:    msgForbidden,
			InvalidState: msgCannotCancel,
		})
		return
	}

	h.logger.Info("POST /sessions/{id}/cancel - Session cancelled successfully: session_id=%d, user_id=%d, refund=%.2f",
		sessionID, actor.ID, result.RefundAmount)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
