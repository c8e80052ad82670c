package cancel_session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase use case отмены сессии
type UseCase struct {
	sessionRepo  SessionRepository
	expertRepo   ExpertRepository
	accountRepo  AccountRepository
	ledgerRepo   LedgerRepository
	policy       scheduling.CancellationPolicy
	notifier     Notifier
	cache        AvailabilityCache
	metrics      EventRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	expertRepo ExpertRepository,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	policy scheduling.CancellationPolicy,
	notifier Notifier,
	cache AvailabilityCache,
	metrics EventRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		expertRepo:   expertRepo,
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		policy:       policy,
		notifier:     notifier,
		cache:        cache,
		metrics:      metrics,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет pending или confirmed сессию.
// Возврат считается по политике отмены от времени до начала сессии
// и зачисляется на кредитный баланс клиента.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelSession: session=%d, actor=%s:%d", req.SessionID, req.Actor.Role, req.Actor.ID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CancelSession: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	var (
		result      *domain.Session
		refund      float64
		fraction    float64
		cancelledBy domain.ActorRole
	)

	// 2. Переход и возврат в одной транзакции
	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем сессию с блокировкой
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("CancelSession: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("CancelSession: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}

		// 2.2. Проверяем права и статус
		if err := domain.Authorize(req.Actor, session.Parties(), domain.CapCancel); err != nil {
			uc.logger.Warn("CancelSession: %v", err)
			return err
		}

		if !session.CanBeCancelled() {
			uc.logger.Warn("CancelSession: session id=%d is %s", session.ID, session.Status)
			return fmt.Errorf("%w: status %s", ErrCannotCancel, session.Status)
		}

		cancelledBy = domain.EffectiveRole(req.Actor, session.Parties())

		// 2.3. Сумма возврата
		hours := scheduling.HoursUntil(session.StartsAt, now)
		fraction = uc.policy.RefundFraction(hours)
		refund = uc.policy.RefundAmount(refundBase(session), hours)

		// 2.4. Переход в cancelled
		session.Status = domain.StatusCancelled
		session.CancelledAt = ptr.Ptr(now.UTC())
		session.CancelledByRole = ptr.Ptr(cancelledBy)
		if req.Actor.ID > 0 {
			session.CancelledBy = ptr.Ptr(req.Actor.ID)
		}
		if reason := strings.TrimSpace(req.Reason); reason != "" {
			session.CancelReason = ptr.Ptr(reason)
		}

		if err := uc.sessionRepo.Update(txCtx, session); err != nil {
			uc.logger.Error("CancelSession: failed to update session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to update session: %w", ErrInternal, err)
		}

		// 2.5. Возврат на баланс клиента
		if refund > 0 {
			if err := uc.accountRepo.Credit(txCtx, session.ClientID, refund); err != nil {
				uc.logger.Error("CancelSession: failed to credit %.2f to user id=%d: %v", refund, session.ClientID, err)
				return fmt.Errorf("%w: failed to credit refund: %w", ErrInternal, err)
			}
			if _, err := uc.ledgerRepo.Create(txCtx, domain.NewLedgerEntry(session, domain.LedgerRefund, refund)); err != nil {
				uc.logger.Error("CancelSession: failed to write ledger entry: %v", err)
				return fmt.Errorf("%w: failed to write ledger entry: %w", ErrInternal, err)
			}
		}

		// 2.6. Отмены клиентом учитываются в статистике эксперта
		if cancelledBy == domain.RoleClient {
			if err := uc.expertRepo.AddCancelledSession(txCtx, session.ExpertID); err != nil {
				uc.logger.Error("CancelSession: failed to update stats of expert id=%d: %v", session.ExpertID, err)
				return fmt.Errorf("%w: failed to update expert stats: %w", ErrInternal, err)
			}
		}

		result = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CancelSession: session id=%d cancelled by %s, refund=%.2f (fraction %.1f)",
		result.ID, cancelledBy, refund, fraction)
	uc.metrics.IncBookingEvent(metrics.EventCancelled)

	// 3. Уведомления и освободившийся слот
	payload := map[string]interface{}{
		"date":        result.ScheduledDate.Format(domain.DateFormat),
		"time":        result.ScheduledTime.String(),
		"cancelledBy": string(cancelledBy),
		"refund":      refund,
	}
	if result.CancelReason != nil {
		payload["reason"] = *result.CancelReason
	}
	for _, recipient := range recipients(result, cancelledBy) {
		event := notifier.NewEvent(notifier.EventSessionCancelled, notifier.ChannelInApp, recipient, result.ID, payload)
		if !uc.notifier.Enqueue(event) {
			uc.logger.Warn("CancelSession: notification to user id=%d dropped", recipient)
		}
	}

	if err := uc.cache.Invalidate(ctx, result.ExpertID); err != nil {
		uc.logger.Warn("CancelSession: failed to invalidate availability cache of expert id=%d: %v", result.ExpertID, err)
	}

	return &Response{Session: result, RefundAmount: refund, RefundFraction: fraction}, nil
}
