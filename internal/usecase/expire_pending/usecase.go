package expire_pending

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

// UseCase отмена неоплаченных заявок, которые держат слот дольше ttl
type UseCase struct {
	sessionRepo  SessionRepository
	accountRepo  AccountRepository
	ledgerRepo   LedgerRepository
	notifier     Notifier
	cache        AvailabilityCache
	metrics      EventRecorder
	txManager    TransactionManager
	ttl          time.Duration
	batchSize    int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	accountRepo AccountRepository,
	ledgerRepo LedgerRepository,
	notifier Notifier,
	cache AvailabilityCache,
	metrics EventRecorder,
	txManager TransactionManager,
	ttl time.Duration,
	batchSize int,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		accountRepo:  accountRepo,
		ledgerRepo:   ledgerRepo,
		notifier:     notifier,
		cache:        cache,
		metrics:      metrics,
		txManager:    txManager,
		ttl:          ttl,
		batchSize:    batchSize,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отменяет от имени системы pending сессии без оплаты, созданные раньше now-ttl
// или уже начавшиеся. Списанные при бронировании кредиты возвращаются полностью.
// Каждая сессия обрабатывается в своей транзакции.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now().UTC()

	sessions, err := uc.sessionRepo.ListStalePending(ctx, now.Add(-uc.ttl), now, uc.batchSize)
	if err != nil {
		uc.logger.Error("ExpirePending: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	resp := &Response{Found: len(sessions)}

	for _, stale := range sessions {
		if ctx.Err() != nil {
			return resp, ctx.Err()
		}

		expired, err := uc.expire(ctx, stale.ID, now)
		switch {
		case err == nil:
			resp.Expired++
			uc.afterExpire(ctx, expired)
		case errors.Is(err, errNotStale):
			uc.logger.Warn("ExpirePending: skip session id=%d: %v", stale.ID, err)
		default:
			resp.Failed++
			uc.logger.Error("ExpirePending: failed to expire session id=%d: %v", stale.ID, err)
		}
	}

	if resp.Found > 0 {
		uc.logger.Info("ExpirePending: expired %d of %d sessions, failed=%d", resp.Expired, resp.Found, resp.Failed)
	}

	return resp, nil
}

func (uc *UseCase) expire(ctx context.Context, id int64, now time.Time) (*domain.Session, error) {
	var result *domain.Session

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Перечитываем с блокировкой: оплата могла прийти после выборки
		session, err := uc.sessionRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				return fmt.Errorf("%w: not found", errNotStale)
			}
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}
		if session.Status != domain.StatusPending || session.HasCapturedPayment() {
			return fmt.Errorf("%w: status=%s payment=%s", errNotStale, session.Status, session.PaymentStatus)
		}

		// 2. Переход в cancelled от имени системы
		session.Status = domain.StatusCancelled
		session.CancelledAt = ptr.Ptr(now)
		session.CancelledByRole = ptr.Ptr(domain.RoleSystem)
		session.CancelReason = ptr.Ptr(ExpireReason)

		if err := uc.sessionRepo.Update(txCtx, session); err != nil {
			return fmt.Errorf("%w: failed to update session: %w", ErrInternal, err)
		}

		// 3. Кредиты, списанные при бронировании, возвращаются полностью
		if credits := session.Metadata.UserCreditsUsed; credits > 0 {
			if err := uc.accountRepo.Credit(txCtx, session.ClientID, credits); err != nil {
				return fmt.Errorf("%w: failed to credit %.2f: %w", ErrInternal, credits, err)
			}
			if _, err := uc.ledgerRepo.Create(txCtx, domain.NewLedgerEntry(session, domain.LedgerRefund, credits)); err != nil {
				return fmt.Errorf("%w: failed to write ledger entry: %w", ErrInternal, err)
			}
		}

		result = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (uc *UseCase) afterExpire(ctx context.Context, session *domain.Session) {
	uc.logger.Info("ExpirePending: session id=%d cancelled, credits returned=%.2f",
		session.ID, session.Metadata.UserCreditsUsed)
	uc.metrics.IncBookingEvent(metrics.EventCancelled)

	payload := map[string]interface{}{
		"date":        session.ScheduledDate.Format(domain.DateFormat),
		"time":        session.ScheduledTime.String(),
		"cancelledBy": string(domain.RoleSystem),
		"refund":      session.Metadata.UserCreditsUsed,
		"reason":      ExpireReason,
	}
	for _, recipient := range []int64{session.ClientID, session.ExpertID} {
		event := notifier.NewEvent(notifier.EventSessionCancelled, notifier.ChannelInApp, recipient, session.ID, payload)
		if !uc.notifier.Enqueue(event) {
			uc.logger.Warn("ExpirePending: notification to user id=%d dropped", recipient)
		}
	}

	if err := uc.cache.Invalidate(ctx, session.ExpertID); err != nil {
		uc.logger.Warn("ExpirePending: failed to invalidate availability cache of expert id=%d: %v", session.ExpertID, err)
	}
}
