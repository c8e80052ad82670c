package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-ConsultationService/internal/usecase/get_available_slots"
)

// AvailableSlotsResponse HTTP response model
type AvailableSlotsResponse struct {
	ExpertID        int64           `json:"expertId"`
	Date            string          `json:"date"`
	DurationMinutes int             `json:"durationMinutes"`
	Timezone        string          `json:"timezone"`
	Slots           []AvailableSlot `json:"slots"`
}

// AvailableSlot модель временного слота
type AvailableSlot struct {
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *AvailableSlotsResponse {
	slots := make([]AvailableSlot, len(resp.Slots))
	for i, slot := range resp.Slots {
		slots[i] = AvailableSlot{
			StartTime: slot.Start.String(),
			EndTime:   slot.End.String(),
		}
	}

	return &AvailableSlotsResponse{
		ExpertID:        resp.ExpertID,
		Date:            resp.Date.Format(domain.DateFormat),
		DurationMinutes: resp.DurationMinutes,
		Timezone:        resp.Timezone,
		Slots:           slots,
	}
}

// ToUseCaseRequest создает запрос use case из query параметров
func ToUseCaseRequest(expertID int64, dateStr string, durationMinutes int) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		ExpertID:        expertID,
		Date:            date,
		DurationMinutes: durationMinutes,
	}, nil
}
