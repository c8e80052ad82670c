package confirm_session

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	Update(ctx context.Context, session *domain.Session) error
}

// LedgerRepository интерфейс журнала денежных операций
type LedgerRepository interface {
	Create(ctx context.Context, entry *domain.LedgerEntry) (*domain.LedgerEntry, error)
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

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
