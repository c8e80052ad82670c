package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
)

// Scheduler запускает задачи по cron расписаниям
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger Logger

	completeElapsedSchedule string
	remindersSchedule       string
	expirePendingSchedule   string
}

// NewScheduler создает планировщик. Паника в задаче перехватывается,
// а запуск, пришедшийся на еще работающий предыдущий, пропускается.
func NewScheduler(jobs *Jobs, completeElapsedSchedule, remindersSchedule, expirePendingSchedule string, logger Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)
	c := cron.New(cron.WithChain(
		cron.Recover(cronLogger),
		cron.SkipIfStillRunning(cronLogger),
	))

	return &Scheduler{
		cron:                    c,
		jobs:                    jobs,
		logger:                  logger,
		completeElapsedSchedule: completeElapsedSchedule,
		remindersSchedule:       remindersSchedule,
		expirePendingSchedule:   expirePendingSchedule,
	}
}

// Start регистрирует задачи и запускает планировщик.
// Некорректное расписание возвращает ошибку до запуска.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.completeElapsedSchedule, s.jobs.CompleteElapsedSessions); err != nil {
		return fmt.Errorf("schedule complete elapsed job %q: %w", s.completeElapsedSchedule, err)
	}
	s.logger.Info("Scheduler: complete elapsed job scheduled (%s)", s.completeElapsedSchedule)

	if _, err := s.cron.AddFunc(s.remindersSchedule, s.jobs.SendReminders); err != nil {
		return fmt.Errorf("schedule reminders job %q: %w", s.remindersSchedule, err)
	}
	s.logger.Info("Scheduler: reminders job scheduled (%s)", s.remindersSchedule)

	if _, err := s.cron.AddFunc(s.expirePendingSchedule, s.jobs.ExpirePendingSessions); err != nil {
		return fmt.Errorf("schedule expire pending job %q: %w", s.expirePendingSchedule, err)
	}
	s.logger.Info("Scheduler: expire pending job scheduled (%s)", s.expirePendingSchedule)

	s.cron.Start()
	return nil
}

// Stop останавливает планировщик. Контекст завершается, когда закончатся запущенные задачи.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
