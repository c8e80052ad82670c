package rate_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	rateSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/rate_session"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "оценка должна быть от 1 до 5"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "сессия не найдена"
	msgForbidden          = "оценить сессию может только ее клиент"
	msgNotCompleted       = "оценить можно только завершенную сессию"
	msgAlreadyRated       = "сессия уже оценена"
)

type Handler struct {
	useCase RateSessionUseCase
	logger  Logger
}

func NewHandler(useCase RateSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/rate
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/rate - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions/{id}/rate - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, msgInvalidRequestBody, err)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &rateSession.Request{
		SessionID: sessionID,
		Actor:     actor,
		Rating:    req.Rating,
		Review:    req.Review,
	})
	if err != nil {
		msgs := handlers.Messages{
			NotFound:     msgNotFound,
			Forbidden:    msgForbidden,
			InvalidState: msgNotCompleted,
			Validation:   msgInvalidRequestBody,
		}
		if errors.Is(err, rateSession.ErrAlreadyRated) {
			msgs.InvalidState = msgAlreadyRated
		}
		handlers.RespondUsecaseError(w, h.logger, "POST /sessions/{id}/rate", err, msgs)
		return
	}

	h.logger.Info("POST /sessions/{id}/rate - Session rated: session_id=%d, rating=%d, expert_rating=%.2f",
		sessionID, req.Rating, result.ExpertRating)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
