package scheduling

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrInvalidDuration длительность не из допустимого набора
	ErrInvalidDuration = fmt.Errorf("%w: scheduling: invalid session duration", domain.ErrValidation)

	// ErrInvalidWindow окно доступности или перерыв с некорректными границами
	ErrInvalidWindow = fmt.Errorf("%w: scheduling: invalid time window", domain.ErrValidation)

	// ErrInvalidTimezone у эксперта указан неизвестный часовой пояс
	ErrInvalidTimezone = fmt.Errorf("%w: scheduling: invalid timezone", domain.ErrValidation)
)
