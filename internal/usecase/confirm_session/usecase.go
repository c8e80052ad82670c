package confirm_session

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

// UseCase use case подтверждения сессии
type UseCase struct {
	sessionRepo SessionRepository
	ledgerRepo  LedgerRepository
	notifier    Notifier
	metrics     EventRecorder
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	sessionRepo SessionRepository,
	ledgerRepo LedgerRepository,
	notifier Notifier,
	metrics EventRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo: sessionRepo,
		ledgerRepo:  ledgerRepo,
		notifier:    notifier,
		metrics:     metrics,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute переводит сессию в confirmed и отмечает оплату.
// Повторное подтверждение уже подтвержденной сессии ничего не меняет:
// платежный провайдер может прислать событие несколько раз.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmSession: session=%d, actor=%s:%d", req.SessionID, req.Actor.Role, req.Actor.ID)

	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	var (
		result  *domain.Session
		already bool
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Получаем сессию с блокировкой
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("ConfirmSession: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("ConfirmSession: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}

		// 2. Проверяем права. Оплату подтверждает только система,
		// эксперт и администратор могут лишь принять уже оплаченную сессию
		capability := domain.CapConfirm
		if req.Actor.Role != domain.RoleSystem && session.HasCapturedPayment() {
			capability = domain.CapAccept
		}
		if err := domain.Authorize(req.Actor, session.Parties(), capability); err != nil {
			uc.logger.Warn("ConfirmSession: %v", err)
			return err
		}

		// 3. Идемпотентность
		if session.Status == domain.StatusConfirmed {
			uc.logger.Info("ConfirmSession: session id=%d already confirmed", session.ID)
			result, already = session, true
			return nil
		}

		if session.Status != domain.StatusPending {
			uc.logger.Warn("ConfirmSession: session id=%d is %s", session.ID, session.Status)
			return fmt.Errorf("%w: status %s", ErrInvalidState, session.Status)
		}

		// 4. Переход и запись о поступлении оплаты
		captured := !session.HasCapturedPayment()
		session.Status = domain.StatusConfirmed
		session.PaymentStatus = domain.PaymentPaid

		if err := uc.sessionRepo.Update(txCtx, session); err != nil {
			uc.logger.Error("ConfirmSession: failed to update session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to update session: %w", ErrInternal, err)
		}

		if captured {
			amount := scheduling.RoundMoney(session.Price - session.Metadata.UserCreditsUsed)
			if _, err := uc.ledgerRepo.Create(txCtx, domain.NewLedgerEntry(session, domain.LedgerCapture, amount)); err != nil {
				uc.logger.Error("ConfirmSession: failed to write ledger entry: %v", err)
				return fmt.Errorf("%w: failed to write ledger entry: %w", ErrInternal, err)
			}
		}

		result = session
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !already {
		uc.logger.Info("ConfirmSession: session id=%d confirmed", result.ID)
		uc.metrics.IncBookingEvent(metrics.EventConfirmed)

		event := notifier.NewEvent(notifier.EventSessionConfirmed, notifier.ChannelInApp, result.ClientID, result.ID,
			map[string]interface{}{
				"date": result.ScheduledDate.Format(domain.DateFormat),
				"time": result.ScheduledTime.String(),
			})
		if !uc.notifier.Enqueue(event) {
			uc.logger.Warn("ConfirmSession: notification for session id=%d dropped", result.ID)
		}
	}

	return &Response{Session: result, AlreadyConfirmed: already}, nil
}
