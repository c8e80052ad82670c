package confirm_session

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	confirmSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_session"
)

const (
	msgInvalidSessionID = "некорректный ID сессии"
	msgMissingUserID    = "отсутствует ID пользователя"
	msgNotFound         = "сессия не найдена"
	msgForbidden        = "принять можно только оплаченную сессию, и только эксперту сессии или администратору"
	msgInvalidState     = "подтвердить можно только ожидающую сессию"
)

// ConfirmSessionResponse HTTP response model
type ConfirmSessionResponse struct {
	Session          *models.SessionResponse `json:"session"`
	AlreadyConfirmed bool                    `json:"alreadyConfirmed"`
}

type Handler struct {
	useCase ConfirmSessionUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/confirm - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmSession.Request{
		SessionID: sessionID,
		Actor:     actor,
	})
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "POST /sessions/{id}/confirm", err, handlers.Messages{
			NotFound:     msgNotFound,
			Forbidden:    msgForbidden,
			InvalidState: msgInvalidState,
		})
		return
	}

	h.logger.Info("POST /sessions/{id}/confirm - Session confirmed: session_id=%d, already=%t",
		sessionID, result.AlreadyConfirmed)
	handlers.RespondJSON(w, http.StatusOK, &ConfirmSessionResponse{
		Session:          models.FromDomainSession(result.Session),
		AlreadyConfirmed: result.AlreadyConfirmed,
	})
}
