package jobs

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_elapsed"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/expire_pending"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/send_reminders"
)

// CompleteElapsedUseCase завершение прошедших сессий
type CompleteElapsedUseCase interface {
	Execute(ctx context.Context) (*complete_elapsed.Response, error)
}

// SendRemindersUseCase напоминания о ближайших сессиях
type SendRemindersUseCase interface {
	Execute(ctx context.Context) (*send_reminders.Response, error)
}

// ExpirePendingUseCase отмена неоплаченных заявок
type ExpirePendingUseCase interface {
	Execute(ctx context.Context) (*expire_pending.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
	Printf(format string, v ...interface{})
}

// Jobs периодические задачи сервиса. Каждый запуск ограничен timeout.
type Jobs struct {
	completeElapsed CompleteElapsedUseCase
	sendReminders   SendRemindersUseCase
	expirePending   ExpirePendingUseCase
	timeout         time.Duration
	logger          Logger
}

// NewJobs создает набор задач
func NewJobs(
	completeElapsed CompleteElapsedUseCase,
	sendReminders SendRemindersUseCase,
	expirePending ExpirePendingUseCase,
	timeout time.Duration,
	logger Logger,
) *Jobs {
	return &Jobs{
		completeElapsed: completeElapsed,
		sendReminders:   sendReminders,
		expirePending:   expirePending,
		timeout:         timeout,
		logger:          logger,
	}
}

// CompleteElapsedSessions завершает подтвержденные сессии, время которых вышло
func (j *Jobs) CompleteElapsedSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	resp, err := j.completeElapsed.Execute(ctx)
	if err != nil {
		j.logger.Error("Jobs.CompleteElapsedSessions: %v", err)
		return
	}
	if resp.Failed > 0 {
		j.logger.Error("Jobs.CompleteElapsedSessions: %d sessions left confirmed after errors", resp.Failed)
	}
}

// SendReminders рассылает напоминания
func (j *Jobs) SendReminders() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if _, err := j.sendReminders.Execute(ctx); err != nil {
		j.logger.Error("Jobs.SendReminders: %v", err)
	}
}

// ExpirePendingSessions освобождает слоты неоплаченных заявок
func (j *Jobs) ExpirePendingSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	resp, err := j.expirePending.Execute(ctx)
	if err != nil {
		j.logger.Error("Jobs.ExpirePendingSessions: %v", err)
		return
	}
	if resp.Failed > 0 {
		j.logger.Error("Jobs.ExpirePendingSessions: %d sessions still hold their slots after errors", resp.Failed)
	}
}
