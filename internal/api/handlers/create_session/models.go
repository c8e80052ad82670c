package create_session

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	createSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/create_session"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// CreateSessionRequest HTTP request model. Клиент берется из X-User-ID.
type CreateSessionRequest struct {
	ExpertID        int64  `json:"expertId" validate:"required,gt=0"`
	Date            string `json:"date" validate:"required,date"` // "2026-10-19"
	Time            string `json:"time" validate:"required,clock"` // "10:00"
	DurationMinutes int    `json:"durationMinutes" validate:"required,oneof=30 60 90 120"`
	UseCredits      bool   `json:"useCredits"`
}

// CreateSessionResponse HTTP response model
type CreateSessionResponse struct {
	Session   *models.SessionResponse `json:"session"`
	AmountDue float64                 `json:"amountDue"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateSessionRequest) ToUseCaseRequest(clientID int64) (*createSession.Request, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	startTime, err := types.NewTimeStringFromString(r.Time)
	if err != nil {
		return nil, err
	}

	return &createSession.Request{
		ClientID:        clientID,
		ExpertID:        r.ExpertID,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: r.DurationMinutes,
		UseCredits:      r.UseCredits,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createSession.Response) *CreateSessionResponse {
	return &CreateSessionResponse{
		Session:   models.FromDomainSession(resp.Session),
		AmountDue: resp.AmountDue,
	}
}
