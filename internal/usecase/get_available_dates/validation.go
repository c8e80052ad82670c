package get_available_dates

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest валидирует входные данные запроса и подставляет длительность по умолчанию
func validateRequest(req *Request) error {
	if req.ExpertID <= 0 {
		return fmt.Errorf("%w: expertID must be positive", ErrInvalidInput)
	}

	if req.Year < 2000 || req.Year > 9999 {
		return fmt.Errorf("%w: year %d is out of range", ErrInvalidInput, req.Year)
	}

	if req.Month < time.January || req.Month > time.December {
		return fmt.Errorf("%w: month %d is out of range", ErrInvalidInput, req.Month)
	}

	if req.DurationMinutes == 0 {
		req.DurationMinutes = domain.AllowedSessionDurations[0]
	}

	if !domain.IsAllowedSessionDuration(req.DurationMinutes) {
		return fmt.Errorf("%w: duration must be one of %v minutes", ErrInvalidInput, domain.AllowedSessionDurations)
	}

	return nil
}

// groupByDate раскладывает активные сессии по датам (domain.DateFormat)
func groupByDate(sessions []*domain.Session) map[string][]domain.BookedInterval {
	result := make(map[string][]domain.BookedInterval)
	for _, s := range sessions {
		if !s.IsActive() {
			continue
		}
		key := s.ScheduledDate.Format(domain.DateFormat)
		result[key] = append(result[key], s.Interval())
	}
	return result
}

func formatDates(dates []time.Time) []string {
	result := make([]string, 0, len(dates))
	for _, d := range dates {
		result = append(result, d.Format(domain.DateFormat))
	}
	return result
}

func parseDates(values []string) ([]time.Time, error) {
	result := make([]time.Time, 0, len(values))
	for _, v := range values {
		d, err := time.Parse(domain.DateFormat, v)
		if err != nil {
			return nil, err
		}
		result = append(result, d)
	}
	return result, nil
}
