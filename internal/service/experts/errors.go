package experts

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrExpertNotFound возвращается, когда эксперт не найден
	ErrExpertNotFound = fmt.Errorf("%w: expert not found", domain.ErrNotFound)

	// ErrInvalidSchedule возвращается при некорректном расписании
	ErrInvalidSchedule = fmt.Errorf("%w: invalid schedule", domain.ErrValidation)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: experts service", domain.ErrInternal)
)
