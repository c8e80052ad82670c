package cancel_session

import (
	"fmt"
	"unicode/utf8"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.SessionID <= 0 {
		return fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	if utf8.RuneCountInString(req.Reason) > domain.MaxCancellationReasonLength {
		return fmt.Errorf("%w: reason is longer than %d characters", ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	return nil
}

// refundBase сумма, которую клиент фактически внес за сессию.
// До поступления оплаты это только списанные кредиты.
func refundBase(session *domain.Session) float64 {
	if session.HasCapturedPayment() {
		return session.Price
	}
	return session.Metadata.UserCreditsUsed
}

// recipients участники, которых нужно уведомить об отмене
func recipients(session *domain.Session, cancelledBy domain.ActorRole) []int64 {
	switch cancelledBy {
	case domain.RoleClient:
		return []int64{session.ExpertID}
	case domain.RoleExpert:
		return []int64{session.ClientID}
	default:
		return []int64{session.ClientID, session.ExpertID}
	}
}
