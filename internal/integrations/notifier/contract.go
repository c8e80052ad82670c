package notifier

import "context"

// Publisher доставляет событие во внешнюю систему уведомлений
type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// ResultRecorder счетчик результатов доставки (published/dropped/failed)
type ResultRecorder interface {
	IncNotification(result string)
}
