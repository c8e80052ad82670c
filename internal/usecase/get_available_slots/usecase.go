package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
)

// UseCase use case для получения доступных слотов эксперта на дату
type UseCase struct {
	sessionRepo  SessionRepository
	expertRepo   ExpertRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	expertRepo ExpertRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		expertRepo:   expertRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: expert=%d, date=%s, duration=%d",
		req.ExpertID, req.Date.Format(domain.DateFormat), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()
	date := scheduling.CalendarDate(req.Date)

	// 3. Получаем эксперта
	expert, err := uc.expertRepo.GetByID(ctx, req.ExpertID)
	if err != nil {
		if errors.Is(err, expertRepo.ErrExpertNotFound) {
			uc.logger.Warn("GetAvailableSlots: expert id=%d not found", req.ExpertID)
			return nil, ErrExpertNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get expert id=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: failed to get expert: %v", ErrInternal, err)
	}

	response := &Response{
		ExpertID:        expert.ID,
		Date:            date,
		DurationMinutes: req.DurationMinutes,
		Timezone:        expert.Timezone,
		Slots:           []domain.Slot{},
	}

	// 4. Эксперт, не принимающий клиентов, не предлагает слотов
	if !expert.IsBookable() {
		uc.logger.Info("GetAvailableSlots: expert id=%d is not bookable", expert.ID)
		return response, nil
	}

	// 5. Получаем активные сессии на эту дату
	sessions, err := uc.sessionRepo.GetActiveByExpertAndDates(ctx, expert.ID, date, date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to get sessions: %v", ErrInternal, err)
	}

	// 6. Вычисляем слоты
	slots, err := scheduling.ComputeSlots(expert, date, req.DurationMinutes, bookedIntervals(sessions), now)
	if err != nil {
		// расписание эксперта проверяется при сохранении, сюда попадают только битые данные
		uc.logger.Error("GetAvailableSlots: failed to compute slots for expert id=%d: %v", expert.ID, err)
		return nil, fmt.Errorf("%w: failed to compute slots: %v", ErrInternal, err)
	}
	response.Slots = slots

	uc.logger.Info("GetAvailableSlots: found %d slots for expert=%d, date=%s",
		len(slots), expert.ID, date.Format(domain.DateFormat))

	return response, nil
}
