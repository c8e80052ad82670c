package create_session

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	createSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_session"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgSlotNotAvailable   = "выбранное время уже занято"
	msgExpertNotFound     = "эксперт не найден"
	msgExpertNotBookable  = "эксперт сейчас не принимает бронирования"
	msgInvalidDate        = "дата сессии уже прошла"
	msgInvalidTimeSlot    = "эксперт не проводит сессии в это время"
	msgSelfBooking        = "нельзя забронировать сессию у самого себя"
	msgInvalidInput       = "некорректные параметры бронирования"
)

type Handler struct {
	useCase CreateSessionUseCase
	logger  Logger
}

func NewHandler(useCase CreateSessionUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/sessions
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateSessionRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /sessions - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, msgInvalidRequestBody, err)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(actor.ID)
	if err != nil {
		h.logger.Warn("POST /sessions - Failed to parse request: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "POST /sessions", err, messages(err))
		return
	}

	h.logger.Info("POST /sessions - Session created successfully: session_id=%d, client_id=%d, expert_id=%d",
		result.Session.ID, actor.ID, req.ExpertID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}

func messages(err error) handlers.Messages {
	msgs := handlers.Messages{
		NotFound:          msgExpertNotFound,
		Conflict:          msgSlotNotAvailable,
		InsufficientState: msgExpertNotBookable,
		Validation:        msgInvalidInput,
	}

	switch {
	case errors.Is(err, createSession.ErrInvalidDate):
		msgs.Validation = msgInvalidDate
	case errors.Is(err, createSession.ErrInvalidTimeSlot):
		msgs.Validation = msgInvalidTimeSlot
	case errors.Is(err, createSession.ErrSelfBooking):
		msgs.Validation = msgSelfBooking
	}

	return msgs
}
