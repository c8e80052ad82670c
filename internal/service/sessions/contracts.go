package sessions

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	List(ctx context.Context, filter domain.SessionsFilter) ([]*domain.Session, error)
}

// LedgerRepository интерфейс журнала расчетов
type LedgerRepository interface {
	ListBySession(ctx context.Context, sessionID int64) ([]*domain.LedgerEntry, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
