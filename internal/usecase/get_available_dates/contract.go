package get_available_dates

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// SessionRepository интерфейс репозитория сессий
type SessionRepository interface {
	GetActiveByExpertAndDates(ctx context.Context, expertID int64, from, to time.Time) ([]*domain.Session, error)
}

// ExpertRepository интерфейс репозитория экспертов
type ExpertRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Expert, error)
}

// DatesCache кэш доступных дат по месяцам
type DatesCache interface {
	GetDates(ctx context.Context, expertID int64, month string, duration int) ([]string, bool, error)
	SetDates(ctx context.Context, expertID int64, month string, duration int, dates []string) error
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
