package experts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	"github.com/m04kA/SMC-ConsultationService/internal/service/experts/models"
)

// Service сервис расписаний экспертов
type Service struct {
	expertRepo ExpertRepository
	cache      AvailabilityCache
	txManager  TransactionManager
	logger     Logger
}

// NewService создает новый экземпляр сервиса экспертов
func NewService(
	expertRepo ExpertRepository,
	cache AvailabilityCache,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		expertRepo: expertRepo,
		cache:      cache,
		txManager:  txManager,
		logger:     logger,
	}
}

// GetSchedule публичное расписание эксперта
func (s *Service) GetSchedule(ctx context.Context, expertID int64) (*models.ScheduleResponse, error) {
	s.logger.Info("GetSchedule: fetching schedule of expert id=%d", expertID)

	if expertID <= 0 {
		return nil, fmt.Errorf("%w: expertID must be positive", ErrInvalidInput)
	}

	expert, err := s.expertRepo.GetByID(ctx, expertID)
	if err != nil {
		if errors.Is(err, expertRepo.ErrExpertNotFound) {
			s.logger.Warn("GetSchedule: expert id=%d not found", expertID)
			return nil, ErrExpertNotFound
		}
		s.logger.Error("GetSchedule: repository error for expert id=%d: %v", expertID, err)
		return nil, fmt.Errorf("%w: GetSchedule - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainExpert(expert), nil
}

// UpdateSchedule заменяет окна доступности, шаг слотов и перерывы эксперта.
// Доступно самому эксперту и администраторам. Уже созданные сессии не затрагиваются.
func (s *Service) UpdateSchedule(ctx context.Context, req *models.UpdateScheduleRequest) (*models.ScheduleResponse, error) {
	s.logger.Info("UpdateSchedule: expert id=%d, timezone=%s, slot=%d, days=%d, breaks=%d by %s:%d",
		req.ExpertID, req.Timezone, req.SlotDurationMinutes, len(req.Availability), len(req.BreakTimes),
		req.Actor.Role, req.Actor.ID)

	// 1. Проверяем права
	if err := domain.Authorize(req.Actor, domain.Parties{ExpertID: req.ExpertID}, domain.CapManageSchedule); err != nil {
		s.logger.Warn("UpdateSchedule: %v", err)
		return nil, err
	}

	// 2. Конвертируем и валидируем расписание
	schedule, err := req.ToDomainSchedule()
	if err != nil {
		s.logger.Warn("UpdateSchedule: invalid request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if err := normalizeSchedule(schedule); err != nil {
		s.logger.Warn("UpdateSchedule: %v", err)
		return nil, err
	}

	// 3. Заменяем расписание в транзакции
	var updated *domain.Expert
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.expertRepo.GetByID(txCtx, req.ExpertID); err != nil {
			if errors.Is(err, expertRepo.ErrExpertNotFound) {
				s.logger.Warn("UpdateSchedule: expert id=%d not found", req.ExpertID)
				return ErrExpertNotFound
			}
			return fmt.Errorf("%w: failed to get expert: %w", ErrInternal, err)
		}

		if err := s.expertRepo.ReplaceSchedule(txCtx, schedule); err != nil {
			return fmt.Errorf("%w: failed to replace schedule: %w", ErrInternal, err)
		}

		expert, err := s.expertRepo.GetByID(txCtx, req.ExpertID)
		if err != nil {
			return fmt.Errorf("%w: failed to reload expert: %w", ErrInternal, err)
		}
		updated = expert
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInternal) {
			s.logger.Error("UpdateSchedule: expert id=%d: %v", req.ExpertID, err)
		}
		return nil, err
	}

	// 4. Закэшированные даты больше не соответствуют расписанию
	if err := s.cache.Invalidate(ctx, req.ExpertID); err != nil {
		s.logger.Warn("UpdateSchedule: failed to invalidate availability cache of expert id=%d: %v", req.ExpertID, err)
	}

	s.logger.Info("UpdateSchedule: successfully updated schedule of expert id=%d", req.ExpertID)
	return models.FromDomainExpert(updated), nil
}
