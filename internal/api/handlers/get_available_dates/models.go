package get_available_dates

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	getAvailableDates "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_dates"
)

const monthFormat = "2006-01"

// AvailableDatesResponse HTTP response model
type AvailableDatesResponse struct {
	ExpertID        int64    `json:"expertId"`
	Month           string   `json:"month"`
	DurationMinutes int      `json:"durationMinutes"`
	Dates           []string `json:"dates"`
}

func FromUseCaseResponse(resp *getAvailableDates.Response) *AvailableDatesResponse {
	dates := make([]string, len(resp.Dates))
	for i, d := range resp.Dates {
		dates[i] = d.Format(domain.DateFormat)
	}

	return &AvailableDatesResponse{
		ExpertID:        resp.ExpertID,
		Month:           resp.Month,
		DurationMinutes: resp.DurationMinutes,
		Dates:           dates,
	}
}

// ToUseCaseRequest month в формате YYYY-MM
func ToUseCaseRequest(expertID int64, month string, durationMinutes int) (*getAvailableDates.Request, error) {
	m, err := time.Parse(monthFormat, month)
	if err != nil {
		return nil, err
	}

	return &getAvailableDates.Request{
		ExpertID:        expertID,
		Year:            m.Year(),
		Month:           m.Month(),
		DurationMinutes: durationMinutes,
	}, nil
}
