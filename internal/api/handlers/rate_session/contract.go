package rate_session

import (
	"context"

	rateSession "github.com/m04kA/SMC-ConsultationService/internal/usecase/rate_session"
)

type RateSessionUseCase interface {
	Execute(ctx context.Context, req *rateSession.Request) (*rateSession.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
