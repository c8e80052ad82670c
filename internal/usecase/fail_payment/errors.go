package fail_payment

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: fail_payment: session not found", domain.ErrNotFound)

	// ErrInvalidState возвращается для сессий в конечном статусе
	ErrInvalidState = fmt.Errorf("%w: fail_payment: session is closed", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: fail_payment: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: fail_payment", domain.ErrInternal)
)
