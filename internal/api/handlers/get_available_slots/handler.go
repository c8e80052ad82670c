package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
	msgMissingDate     = "дата обязательна"
	msgInvalidDate     = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgInvalidDuration = "некорректная длительность сессии"
	msgExpertNotFound  = "эксперт не найден"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/experts/{expertId}/slots
// Query params: date (required, YYYY-MM-DD), duration (optional, minutes)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := handlers.PathID(r, "expertId")
	if err != nil {
		h.logger.Warn("GET /experts/{id}/slots - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /experts/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	duration, err := handlers.QueryInt(r, "duration", 0)
	if err != nil {
		h.logger.Warn("GET /experts/{id}/slots - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	useCaseReq, err := ToUseCaseRequest(expertID, dateStr, duration)
	if err != nil {
		h.logger.Warn("GET /experts/{id}/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "GET /experts/{id}/slots", err, handlers.Messages{
			NotFound:   msgExpertNotFound,
			Validation: msgInvalidDuration,
		})
		return
	}

	h.logger.Info("GET /experts/{id}/slots - Slots retrieved successfully: expert_id=%d, date=%s, slots_count=%d",
		expertID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
