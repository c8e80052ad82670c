package refund_session

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	refundSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/refund_session"
)

const (
	msgInvalidSessionID   = "некорректный ID сессии"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgNotFound           = "сессия не найдена"
	msgForbidden          = "возврат доступен только администратору"
	msgCannotRefund       = "возврат возможен только для оплаченной сессии"
)

// RefundSessionRequest HTTP request model
type RefundSessionRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

// RefundSessionResponse HTTP response model
type RefundSessionResponse struct {
	Session         *models.SessionResponse `json:"session"`
	ReversedAmount  float64                 `json:"reversedAmount"`
	CreditsReturned float64                 `json:"creditsReturned"`
}

type Handler struct {
	useCase RefundSessionUseCase
	logger  Logger
}

func NewHandler(useCase RefundSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions/{sessionId}/refund
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	sessionID, err := handlers.PathID(r, "sessionId")
	if err != nil {
		h.logger.Warn("POST /sessions/{id}/refund - Invalid session ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSessionID)
		return
	}

	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req RefundSessionRequest
	if r.ContentLength != 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /sessions/{id}/refund - Invalid request body: %v", err)
			handlers.RespondDecodeError(w, msgInvalidRequestBody, err)
			return
		}
	}

	result, err := h.useCase.Execute(r.Context(), &refundSession.Request{
		SessionID: sessionID,
		Actor:     actor,
		Reason:    req.Reason,
	})
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "POST /sessions/{id}/refund", err, handlers.Messages{
			NotFound:     msgNotFound,
			Forbidden:    msgForbidden,
			InvalidState: msgCannotRefund,
		})
		return
	}

	h.logger.Info("POST /sessions/{id}/refund - Session refunded: session_id=%d, reversed=%.2f, credits=%.2f",
		sessionID, result.ReversedAmount, result.CreditsReturned)
	handlers.RespondJSON(w, http.StatusOK, &RefundSessionResponse{
		Session:         models.FromDomainSession(result.Session),
		ReversedAmount:  result.ReversedAmount,
		CreditsReturned: result.CreditsReturned,
	})
}
