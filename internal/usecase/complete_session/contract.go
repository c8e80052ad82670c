package complete_session

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
}

// ExpertRepository статистика эксперта
type ExpertRepository interface {
	AddCompletedSession(ctx context.Context, id int64, earnings float64) error
}

// Notifier очередь исходящих уведомлений
type Notifier interface {
	Enqueue(event notifier.Event) bool
}

// EventRecorder счетчик событий бронирования
type EventRecorder interface {
	IncBookingEvent(event string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
