package get_available_dates

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrExpertNotFound возвращается, когда эксперт не найден
	ErrExpertNotFound = fmt.Errorf("%w: expert not found", domain.ErrNotFound)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: get_available_dates", domain.ErrInternal)
)
