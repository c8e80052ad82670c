package complete_session

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: complete_session: session not found", domain.ErrNotFound)

	// ErrNotConfirmed возвращается, когда сессия не в статусе confirmed
	ErrNotConfirmed = fmt.Errorf("%w: complete_session: only confirmed sessions can be completed", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: complete_session: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: complete_session", domain.ErrInternal)
)
