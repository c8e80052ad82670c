package refund_session

import (
	"context"

	refundSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/refund_session"
)

type RefundSessionUseCase interface {
	Execute(ctx context.Context, req *refundSession.Request) (*refundSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
