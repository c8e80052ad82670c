package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_session"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fail_payment"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/refund_session"
)

// Handler переводит события платежей в операции над сессиями от имени системы
type Handler struct {
	confirm ConfirmUseCase
	fail    FailPaymentUseCase
	refund  RefundUseCase
	logger  Logger
}

// NewHandler создает обработчик событий платежей
func NewHandler(confirm ConfirmUseCase, fail FailPaymentUseCase, refund RefundUseCase, logger Logger) *Handler {
	return &Handler{confirm: confirm, fail: fail, refund: refund, logger: logger}
}

// Handle обрабатывает одно сообщение. Возвращает true, если сообщение нужно подтвердить (ack).
// Повторять имеет смысл только внутренние ошибки: остальные не исправятся от повторной доставки.
func (h *Handler) Handle(ctx context.Context, routingKey string, body []byte) bool {
	var event Event
	if err := json.Unmarshal(body, &event); err != nil {
		h.logger.Error("Payments: malformed %s message dropped: %v", routingKey, err)
		return true
	}
	if event.SessionID <= 0 {
		h.logger.Error("Payments: %s message without sessionId dropped", routingKey)
		return true
	}

	h.logger.Info("Payments: %s session=%d, payment=%s", routingKey, event.SessionID, event.PaymentID)

	err := h.dispatch(ctx, routingKey, event)
	switch {
	case err == nil:
		return true
	case errors.Is(err, domain.ErrInternal):
		h.logger.Error("Payments: %s for session id=%d failed, will retry: %v", routingKey, event.SessionID, err)
		return false
	default:
		h.logger.Warn("Payments: %s for session id=%d rejected: %v", routingKey, event.SessionID, err)
		return true
	}
}

func (h *Handler) dispatch(ctx context.Context, routingKey string, event Event) error {
	switch routingKey {
	case RoutingCaptured:
		_, err := h.confirm.Execute(ctx, &confirm_session.Request{
			SessionID: event.SessionID,
			Actor:     domain.SystemActor,
		})
		return err
	case RoutingFailed:
		_, err := h.fail.Execute(ctx, &fail_payment.Request{
			SessionID: event.SessionID,
			Actor:     domain.SystemActor,
			Reason:    event.Reason,
		})
		return err
	case RoutingRefunded:
		_, err := h.refund.Execute(ctx, &refund_session.Request{
			SessionID: event.SessionID,
			Actor:     domain.SystemActor,
			Reason:    event.Reason,
		})
		return err
	default:
		return fmt.Errorf("%w: unknown routing key %q", domain.ErrValidation, routingKey)
	}
}
