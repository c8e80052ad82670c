package sessions

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: session not found", domain.ErrNotFound)

	// ErrAccessDenied возвращается, когда пользователь запрашивает чужую историю
	ErrAccessDenied = fmt.Errorf("%w: access denied", domain.ErrForbidden)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = fmt.Errorf("%w: sessions service", domain.ErrInternal)
)
