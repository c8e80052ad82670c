package complete_session

import (
	"context"

	completeSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_session"
)

type CompleteSessionUseCase interface {
	Execute(ctx context.Context, req *completeSession.Request) (*completeSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
