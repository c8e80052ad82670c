package confirm_session

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: confirm_session: session not found", domain.ErrNotFound)

	// ErrInvalidState возвращается, когда сессия уже завершена, отменена или возвращена
	ErrInvalidState = fmt.Errorf("%w: confirm_session: session cannot be confirmed", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: confirm_session: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: confirm_session", domain.ErrInternal)
)
