package experts

import (
	"context"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
)

// ExpertRepository интерфейс репозитория экспертов
type ExpertRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Expert, error)
	ReplaceSchedule(ctx context.Context, schedule *domain.ExpertSchedule) error
}

// AvailabilityCache кэш доступных дат
type AvailabilityCache interface {
	Invalidate(ctx context.Context, expertID int64) error
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
