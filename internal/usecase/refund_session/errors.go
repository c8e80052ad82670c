package refund_session

import (
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

var (
	// ErrSessionNotFound возвращается, когда сессия не найдена
	ErrSessionNotFound = fmt.Errorf("%w: refund_session: session not found", domain.ErrNotFound)

	// ErrCannotRefund возвращается для сессий в конечном статусе
	ErrCannotRefund = fmt.Errorf("%w: refund_session: session cannot be refunded", domain.ErrInvalidState)

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: refund_session: invalid input data", domain.ErrValidation)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = fmt.Errorf("%w: refund_session", domain.ErrInternal)
)
