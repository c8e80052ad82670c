package refund_session

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
)

// UseCase use case возврата платежа
type UseCase struct {
	sessionRepo  SessionRepository
	accountRepo  AccountRepository
	ledgerRepo   LedgerRepository
	notifier     Notifier
	cache        AvailabilityCache
	metrics      EventRecorder
	txManager    TransactionManager
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
		logger:       logger,
	}
}

// Execute переводит незавершенную сессию в refunded: захваченный платеж
// сторнируется, списанные кредиты возвращаются на баланс клиента
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("RefundSession: session=%d, actor=%s:%d, reason=%q", req.SessionID, req.Actor.Role, req.Actor.ID, req.Reason)

	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	var (
		result   *domain.Session
		reversed float64
		credits  float64
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем сессию с блокировкой
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("RefundSession: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("RefundSession: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}

		// 2. Проверяем права и статус
		if err := domain.Authorize(req.Actor, session.Parties(), domain.CapRefund); err != nil {
			uc.logger.Warn("RefundSession: %v", err)
			return err
		}

		if session.IsTerminal() {
			uc.logger.Warn("RefundSession: session id=%d is %s", session.ID, session.Status)
			return fmt.Errorf("%w: status %s", ErrCannotRefund, session.Status)
		}

		// 3. Суммы считаются до смены статуса оплаты
		credits = session.Metadata.UserCreditsUsed
		if session.HasCapturedPayment() {
			reversed = scheduling.RoundMoney(session.Price - credits)
		}

		session.Status = domain.StatusRefunded
		session.PaymentStatus = domain.PaymentRefunded

		if err := uc.sessionRepo.Update(txCtx, session); err != nil {
			uc.logger.Error("RefundSession: failed to update session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to update session: %w", ErrInternal, err)
		}

		// 4. Сторно платежа
		if reversed > 0 {
			if _, err := uc.ledgerRepo.Create(txCtx, domain.NewLedgerEntry(session, domain.LedgerReversal, reversed)); err != nil {
				uc.logger.Error("RefundSession: failed to write reversal entry: %v", err)
				return fmt.Errorf("%w: failed to write ledger entry: %w", ErrInternal, err)
			}
		}

		// 5. Возврат кредитов
		if credits > 0 {
			if err := uc.accountRepo.Credit(txCtx, session.ClientID, credits); err != nil {
				uc.logger.Error("RefundSession: failed to return %.2f credits to user id=%d: %v", credits, session.ClientID, err)
				return fmt.Errorf("%w: failed to return credits: %w", ErrInternal, err)
			}
			if _, err := uc.ledgerRepo.Create(txCtx, domain.NewLedgerEntry(session, domain.LedgerRefund, credits)); err != nil {
				uc.logger.Error("RefundSession: failed to write refund entry: %v", err)
				return fmt.Errorf("%w: failed to write ledger entry: %w", ErrInternal, err)
			}
		}

		result = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("RefundSession: session id=%d refunded, reversed=%.2f, credits=%.2f", result.ID, reversed, credits)
	uc.metrics.IncBookingEvent(metrics.EventRefunded)

	event := notifier.NewEvent(notifier.EventSessionRefunded, notifier.ChannelEmail, result.ClientID, result.ID,
		map[string]interface{}{
			"reversed": reversed,
			"credits":  credits,
			"currency": result.Currency,
			"reason":   req.Reason,
		})
	if !uc.notifier.Enqueue(event) {
		uc.logger.Warn("RefundSession: notification for session id=%d dropped", result.ID)
	}

	if err := uc.cache.Invalidate(ctx, result.ExpertID); err != nil {
		uc.logger.Warn("RefundSession: failed to invalidate availability cache of expert id=%d: %v", result.ExpertID, err)
	}

	return &Response{Session: result, ReversedAmount: reversed, CreditsReturned: credits}, nil
}
