package get_available_dates

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
)

// UseCase use case для получения дат месяца со свободными слотами
type UseCase struct {
	sessionRepo  SessionRepository
	expertRepo   ExpertRepository
	cache        DatesCache
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	expertRepo ExpertRepository,
	cache DatesCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		expertRepo:   expertRepo,
		cache:        cache,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступных дат.
// Результат кэшируется по (эксперт, месяц, длительность); ошибки кэша не прерывают запрос.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableDates: expert=%d, month=%04d-%02d, duration=%d",
		req.ExpertID, req.Year, int(req.Month), req.DurationMinutes)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableDates: validation failed: %v", err)
		return nil, err
	}

	first := time.Date(req.Year, req.Month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)
	month := first.Format(domain.MonthFormat)

	// 2. Получаем эксперта
	expert, err := uc.expertRepo.GetByID(ctx, req.ExpertID)
	if err != nil {
		if errors.Is(err, expertRepo.ErrExpertNotFound) {
			uc.logger.Warn("GetAvailableDates: expert id=%d not found", req.ExpertID)
			return nil, ErrExpertNotFound
		}
		uc.logger.Error("GetAvailableDates: failed to get expert id=%d: %v", req.ExpertID, err)
		return nil, fmt.Errorf("%w: failed to get expert: %v", ErrInternal, err)
	}

	response := &Response{
		ExpertID:        expert.ID,
		Month:           month,
		DurationMinutes: req.DurationMinutes,
		Dates:           []time.Time{},
	}

	if !expert.IsBookable() {
		uc.logger.Info("GetAvailableDates: expert id=%d is not bookable", expert.ID)
		return response, nil
	}

	// 3. Пробуем кэш
	cached, ok, err := uc.cache.GetDates(ctx, expert.ID, month, req.DurationMinutes)
	if err != nil {
		uc.logger.Warn("GetAvailableDates: cache lookup failed: %v", err)
	}
	if ok {
		dates, err := parseDates(cached)
		if err == nil {
			response.Dates = dates
			return response, nil
		}
		uc.logger.Warn("GetAvailableDates: ignoring malformed cache entry: %v", err)
	}

	// 4. Активные сессии за месяц
	sessions, err := uc.sessionRepo.GetActiveByExpertAndDates(ctx, expert.ID, first, last)
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to get sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to get sessions: %v", ErrInternal, err)
	}

	// 5. Вычисляем даты
	dates, err := scheduling.ComputeAvailableDates(expert, req.Year, req.Month, req.DurationMinutes,
		groupByDate(sessions), uc.timeProvider.Now())
	if err != nil {
		uc.logger.Error("GetAvailableDates: failed to compute dates for expert id=%d: %v", expert.ID, err)
		return nil, fmt.Errorf("%w: failed to compute dates: %v", ErrInternal, err)
	}
	response.Dates = dates

	// 6. Сохраняем в кэш
	if err := uc.cache.SetDates(ctx, expert.ID, month, req.DurationMinutes, formatDates(dates)); err != nil {
		uc.logger.Warn("GetAvailableDates: failed to store dates in cache: %v", err)
	}

	uc.logger.Info("GetAvailableDates: found %d dates for expert=%d, month=%s", len(dates), expert.ID, month)

	return response, nil
}
