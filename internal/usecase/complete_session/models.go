package complete_session

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request завершение сессии экспертом, администратором или периодической задачей
type Request struct {
	SessionID int64
	Actor     domain.Actor
}

// Response завершенная сессия
type Response struct {
	Session *domain.Session
}
