package update_expert_schedule

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
	"github.com/m04kA/SMC-ConsultationService/internal/api/middleware"
	"github.com/m04kA/SMC-ConsultationService/internal/service/experts/models"
)

const (
	msgInvalidExpertID    = "некорректный ID эксперта"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserID      = "отсутствует ID пользователя"
	msgExpertNotFound     = "эксперт не найден"
	msgForbidden          = "изменять расписание может только сам эксперт или администратор"
	msgInvalidSchedule    = "некорректное расписание"
)

type Handler struct {
	service ExpertService
	logger  Logger
}

func NewHandler(service ExpertService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/experts/{expertId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetActor(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	expertID, err := handlers.PathID(r, "expertId")
	if err != nil {
		h.logger.Warn("PUT /experts/{id}/schedule - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	var req models.UpdateScheduleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /experts/{id}/schedule - Invalid request body: %v", err)
		handlers.RespondDecodeError(w, msgInvalidRequestBody, err)
		return
	}
	req.Actor = actor
	req.ExpertID = expertID

	result, err := h.service.UpdateSchedule(r.Context(), &req)
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "PUT /experts/{id}/schedule", err, handlers.Messages{
			NotFound:   msgExpertNotFound,
			Forbidden:  msgForbidden,
			Validation: msgInvalidSchedule,
		})
		return
	}

	h.logger.Info("PUT /experts/{id}/schedule - Schedule updated: expert_id=%d, user_id=%d", expertID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
