package confirm_session

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request подтверждение сессии после успешной оплаты
type Request struct {
	SessionID int64
	Actor     domain.Actor
}

// Response подтвержденная сессия. AlreadyConfirmed - повторный вызов, ничего не изменилось.
type Response struct {
	Session          *domain.Session
	AlreadyConfirmed bool
}
