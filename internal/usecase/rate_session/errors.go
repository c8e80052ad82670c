package rate_session

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: rate_session: session not found", domain.ErrNotFound)

	// ErrNotCompleted возвращается, когда сессия еще не завершена
	ErrNotCompleted = fmt.Errorf("%w: rate_session: only completed sessions can be rated", domain.ErrInvalidState)

	// ErrAlreadyRated возвращается при повторной оценке
	ErrAlreadyRated = fmt.Errorf("%w: rate_session: session is already rated", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: rate_session: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: rate_session", domain.ErrInternal)
)
