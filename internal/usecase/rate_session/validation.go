package rate_session

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID <= 0 {
		return fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d", ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}

	if utf8.RuneCountInString(req.Review) > domain.MaxReviewLength {
		return fmt.Errorf("%w: review is longer than %d characters", ErrInvalidInput, domain.MaxReviewLength)
	}

	return nil
}
