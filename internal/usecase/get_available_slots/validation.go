package get_available_slots

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest валидирует входные данные запроса и подставляет длительность по умолчанию
func validateRequest(req *Request) error {
	if req.ExpertID <= 0 {
		return fmt.Errorf("%w: expertID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.DurationMinutes == 0 {
		req.DurationMinutes = domain.AllowedSessionDurations[0]
	}

	if !domain.IsAllowedSessionDuration(req.DurationMinutes) {
		return fmt.Errorf("%w: duration must be one of %v minutes", ErrInvalidInput, domain.AllowedSessionDurations)
	}

	return nil
}

// bookedIntervals интервалы активных сессий
func bookedIntervals(sessions []*domain.Session) []domain.BookedInterval {
	intervals := make([]domain.BookedInterval, 0, len(sessions))
	for _, s := range sessions {
		if !s.IsActive() {
			continue
		}
		intervals = append(intervals, s.Interval())
	}
	return intervals
}
