package cancel_session

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request отмена сессии клиентом, экспертом или администратором
type Request struct {
	SessionID int64
	Actor     domain.Actor
	Reason    string
}

// Response отмененная сессия и сумма, зачисленная клиенту на баланс
type Response struct {
	Session        *domain.Session
	RefundAmount   float64
	RefundFraction float64
}
