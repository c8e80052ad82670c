package get_available_dates

import (
	"net/http"

	"github.com/m04kA/SMC-ConsultationService/internal/api/handlers"
)

const (
	msgInvalidExpertID = "некорректный ID эксперта"
	msgMissingMonth    = "месяц обязателен"
	msgInvalidMonth    = "некорректный формат месяца, ожидается YYYY-MM"
	msgInvalidDuration = "некорректная длительность сессии"
	msgExpertNotFound  = "эксперт не найден"
)

type Handler struct {
	useCase GetAvailableDatesUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableDatesUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/experts/{expertId}/available-dates
// Query params: month (required, YYYY-MM), duration (optional, minutes)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	expertID, err := handlers.PathID(r, "expertId")
	if err != nil {
		h.logger.Warn("GET /experts/{id}/available-dates - Invalid expert ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidExpertID)
		return
	}

	month := r.URL.Query().Get("month")
	if month == "" {
		h.logger.Warn("GET /experts/{id}/available-dates - Missing month")
		handlers.RespondBadRequest(w, msgMissingMonth)
		return
	}

	duration, err := handlers.QueryInt(r, "duration", 0)
	if err != nil {
		h.logger.Warn("GET /experts/{id}/available-dates - Invalid duration: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDuration)
		return
	}

	useCaseReq, err := ToUseCaseRequest(expertID, month, duration)
	if err != nil {
		h.logger.Warn("GET /experts/{id}/available-dates - Invalid month: %v", err)
		handlers.RespondBadRequest(w, msgInvalidMonth)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		handlers.RespondUsecaseError(w, h.logger, "GET /experts/{id}/available-dates", err, handlers.Messages{
			NotFound:   msgExpertNotFound,
			Validation: msgInvalidDuration,
		})
		return
	}

	h.logger.Info("GET /experts/{id}/available-dates - Dates retrieved: expert_id=%d, month=%s, dates_count=%d",
		expertID, result.Month, len(result.Dates))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
