package complete_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase use case завершения сессии
type UseCase struct {
	sessionRepo  SessionRepository
	expertRepo   ExpertRepository
	notifier     Notifier
	metrics      EventRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	expertRepo ExpertRepository,
	notifier Notifier,
	metrics EventRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		expertRepo:   expertRepo,
		notifier:     notifier,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute переводит confirmed сессию в completed и начисляет эксперту
// заработок из снимка комиссии, сохраненного при бронировании
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CompleteSession: session=%d, actor=%s:%d", req.SessionID, req.Actor.Role, req.Actor.ID)

	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	var result *domain.Session

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем сессию с блокировкой
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("CompleteSession: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("CompleteSession: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}

		// 2. Проверяем права и статус
		if err := domain.Authorize(req.Actor, session.Parties(), domain.CapComplete); err != nil {
			uc.logger.Warn("CompleteSession: %v", err)
			return err
		}

		if !session.CanBeCompleted() {
			uc.logger.Warn("CompleteSession: session id=%d is %s", session.ID, session.Status)
			return fmt.Errorf("%w: status %s", ErrNotConfirmed, session.Status)
		}

		// 3. Переход
		session.Status = domain.StatusCompleted
		session.CompletedAt = ptr.Ptr(uc.timeProvider.Now().UTC())

		if err := uc.sessionRepo.Update(txCtx, session); err != nil {
			uc.logger.Error("CompleteSession: failed to update session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to update session: %w", ErrInternal, err)
		}

		// 4. Статистика эксперта по снимку комиссии
		if err := uc.expertRepo.AddCompletedSession(txCtx, session.ExpertID, session.Metadata.ExpertCommission); err != nil {
			uc.logger.Error("CompleteSession: failed to update stats of expert id=%d: %v", session.ExpertID, err)
			return fmt.Errorf("%w: failed to update expert stats: %w", ErrInternal, err)
		}

		result = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CompleteSession: session id=%d completed, expert id=%d earned %.2f",
		result.ID, result.ExpertID, result.Metadata.ExpertCommission)
	uc.metrics.IncBookingEvent(metrics.EventCompleted)

	event := notifier.NewEvent(notifier.EventRateSession, notifier.ChannelInApp, result.ClientID, result.ID,
		map[string]interface{}{"expertId": result.ExpertID})
	if !uc.notifier.Enqueue(event) {
		uc.logger.Warn("CompleteSession: rate request for session id=%d dropped", result.ID)
	}

	return &Response{Session: result}, nil
}
