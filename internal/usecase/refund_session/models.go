package refund_session

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request возврат платежа администратором или платежным провайдером
type Request struct {
	SessionID int64
	Actor     domain.Actor
	Reason    string
}

// Response возвращенная сессия.
// ReversedAmount - отмененный платеж, CreditsReturned - кредиты, вернувшиеся на баланс.
type Response struct {
	Session         *domain.Session
	ReversedAmount  float64
	CreditsReturned float64
}
