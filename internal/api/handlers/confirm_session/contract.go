package confirm_session

import (
	"context"

	confirmSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/confirm_session"
)

type ConfirmSessionUseCase interface {
	Execute(ctx context.Context, req *confirmSession.Request) (*confirmSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
