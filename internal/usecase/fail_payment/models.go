package fail_payment

import "github.com/m04kA/SMC-ConsultationService/internal/domain"

// Request сообщение платежного провайдера о неуспешной оплате
type Request struct {
	SessionID int64
	Actor     domain.Actor
	Reason    string
}

// Response сессия после отметки о неуспешной оплате
type Response struct {
	Session *domain.Session
}
