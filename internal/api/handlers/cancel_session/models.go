package cancel_session

import (
	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	cancelSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/cancel_session"
)

// CancelSessionRequest HTTP request model, тело необязательно
type CancelSessionRequest struct {
	Reason *string `json:"reason,omitempty" validate:"omitempty,max=500"`
}

// CancelSessionResponse HTTP response model
type CancelSessionResponse struct {
	Session        *models.SessionResponse `json:"session"`
	RefundAmount   float64                 `json:"refundAmount"`
	RefundFraction float64                 `json:"refundFraction"`
}

// ToUseCaseRequest конвертирует HTTP request в модель use case
func (r *CancelSessionRequest) ToUseCaseRequest(sessionID int64, actor domain.Actor) *cancelSession.Request {
	reason := ""
	if r.Reason != nil {
		reason = *r.Reason
	}

	return &cancelSession.Request{
		SessionID: sessionID,
		Actor:     actor,
		Reason:    reason,
	}
}

func FromUseCaseResponse(resp *cancelSession.Response) *CancelSessionResponse {
	return &CancelSessionResponse{
		Session:        models.FromDomainSession(resp.Session),
		RefundAmount:   resp.RefundAmount,
		RefundFraction: resp.RefundFraction,
	}
}
