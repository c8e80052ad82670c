package cancel_session

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: cancel_session: session not found", domain.ErrNotFound)

	// ErrCannotCancel возвращается, когда сессия уже завершена, отменена или возвращена
	ErrCannotCancel = fmt.Errorf("%w: cancel_session: session cannot be cancelled", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: cancel_session: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: cancel_session", domain.ErrInternal)
)
