package complete_elapsed

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_session"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	ListDueForCompletion(ctx context.Context, now time.Time, limit int) ([]*domain.Session, error)
}

// Completer завершение одной сессии
type Completer interface {
	Execute(ctx context.Context, req *complete_session.Request) (*complete_session.Response, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
