package get_expert_schedule

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
	msgExpertNotFound  = "эксперт не найден"
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

// Handle GET /api/v1/experts/{expertId}/schedule
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := handlers.PathID(r, "expertId")
	if err != nil {
		h.logger.Warn("GET /experts/{id}/schedule - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	result, err := h.service.GetSchedule(r.Context(), expertID)
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "GET /experts/{id}/schedule", err, handlers.Messages{
			NotFound: msgExpertNotFound,
		})
		return
	}

	h.logger.Info("GET /experts/{id}/schedule - Schedule retrieved: expert_id=%d", expertID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
