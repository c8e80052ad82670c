package payments

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_session"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fail_payment"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/refund_session"
)

// ConfirmUseCase подтверждение сессии после оплаты
type ConfirmUseCase interface {
	Execute(ctx context.Context, req *confirm_session.Request) (*confirm_session.Response, error)
}

// FailPaymentUseCase отметка о неуспешной оплате
type FailPaymentUseCase interface {
	Execute(ctx context.Context, req *fail_payment.Request) (*fail_payment.Response, error)
}

// RefundUseCase возврат платежа
type RefundUseCase interface {
	Execute(ctx context.Context, req *refund_session.Request) (*refund_session.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
