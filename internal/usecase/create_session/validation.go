package create_session

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ClientID <= 0 {
		return fmt.Errorf("%w: clientID must be positive", ErrInvalidInput)
	}

	if req.ExpertID <= 0 {
		return fmt.Errorf("%w: expertID must be positive", ErrInvalidInput)
	}

	if req.ClientID == req.ExpertID {
		return ErrSelfBooking
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if !domain.IsAllowedSessionDuration(req.DurationMinutes) {
		return fmt.Errorf("%w: duration must be one of %v minutes", ErrInvalidInput, domain.AllowedSessionDurations)
	}

	return nil
}

// validateDate проверяет, что дата не раньше сегодняшней в часовом поясе эксперта
func validateDate(expert *domain.Expert, date, now time.Time) error {
	loc, err := expert.Location()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if scheduling.CalendarDate(date).Before(scheduling.CalendarDate(now.In(loc))) {
		return ErrInvalidDate
	}

	return nil
}

// findConflict ищет активную сессию, пересекающуюся с [start, start+duration).
// Точное совпадение начала - тот же случай, что ловит уникальный индекс.
func findConflict(start types.TimeString, durationMinutes int, sessions []*domain.Session) *domain.Session {
	s := start.Minutes()
	e := s + durationMinutes

	for _, session := range sessions {
		if !session.IsActive() {
			continue
		}

		interval := session.Interval()
		if domain.Overlaps(s, e, interval.Start.Minutes(), interval.EndMinutes()) {
			return session
		}
	}

	return nil
}

// creditsToUse сколько кредитов списать: не больше баланса и не больше цены
func creditsToUse(balance, price float64) float64 {
	if balance <= 0 {
		return 0
	}
	if balance < price {
		return scheduling.RoundMoney(balance)
	}
	return price
}
