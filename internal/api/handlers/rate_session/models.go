package rate_session

import (
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	rateSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/rate_session"
)

// RateSessionRequest HTTP request model
type RateSessionRequest struct {
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review,omitempty" validate:"max=2000"`
}

// RateSessionResponse HTTP response model
type RateSessionResponse struct {
	Session      *models.SessionResponse `json:"session"`
	ExpertRating float64                 `json:"expertRating"`
	ReviewCount  int                     `json:"reviewCount"`
}

func FromUseCaseResponse(resp *rateSession.Response) *RateSessionResponse {
	return &RateSessionResponse{
		Session:      models.FromDomainSession(resp.Session),
		ExpertRating: resp.ExpertRating,
		ReviewCount:  resp.ReviewCount,
	}
}
