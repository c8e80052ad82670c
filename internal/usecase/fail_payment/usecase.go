package fail_payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// UseCase use case отметки неуспешной оплаты
type UseCase struct {
	sessionRepo SessionRepository
	notifier    Notifier
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(sessionRepo SessionRepository, notifier Notifier, txManager TransactionManager, logger Logger) *UseCase {
	return &UseCase{
		sessionRepo: sessionRepo,
		notifier:    notifier,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выставляет paymentStatus = failed, статус сессии не меняется.
// Клиент может оплатить повторно, тогда придет подтверждение.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FailPayment: session=%d, reason=%q", req.SessionID, req.Reason)

	if req.SessionID <= 0 {
		return nil, fmt.Errorf("%w: sessionID must be positive", ErrInvalidInput)
	}

	var (
		result  *domain.Session
		changed bool
	)

	err := uc.txManager.Do(ctx, func(txCtx context.Context) error {
		session, err := uc.sessionRepo.GetByID(txCtx, req.SessionID)
		if err != nil {
			if errors.Is(err, sessionRepo.ErrSessionNotFound) {
				uc.logger.Warn("FailPayment: session id=%d not found", req.SessionID)
				return ErrSessionNotFound
			}
			uc.logger.Error("FailPayment: failed to get session id=%d: %v", req.SessionID, err)
			return fmt.Errorf("%w: failed to get session: %w", ErrInternal, err)
		}

		// отказ платежа приходит от того же участника, что и подтверждение
		if err := domain.Authorize(req.Actor, session.Parties(), domain.CapConfirm); err != nil {
			uc.logger.Warn("FailPayment: %v", err)
			return err
		}

		if session.IsTerminal() {
			uc.logger.Warn("FailPayment: session id=%d is %s", session.ID, session.Status)
			return fmt.Errorf("%w: status %s", ErrInvalidState, session.Status)
		}

		result = session
		if session.PaymentStatus == domain.PaymentFailed {
			return nil
		}

		session.PaymentStatus = domain.PaymentFailed
		if err := uc.sessionRepo.Update(txCtx, session); err != nil {
			uc.logger.Error("FailPayment: failed to update session id=%d: %v", session.ID, err)
			return fmt.Errorf("%w: failed to update session: %w", ErrInternal, err)
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		uc.logger.Info("FailPayment: session id=%d payment marked failed", result.ID)
		event := notifier.NewEvent(notifier.EventPaymentFailed, notifier.ChannelEmail, result.ClientID, result.ID,
			map[string]interface{}{"reason": req.Reason, "price": result.Price, "currency": result.Currency})
		if !uc.notifier.Enqueue(event) {
			uc.logger.Warn("FailPayment: notification for session id=%d dropped", result.ID)
		}
	}

	return &Response{Session: result}, nil
}
