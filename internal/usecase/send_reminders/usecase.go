package send_reminders

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
)

// UseCase напоминания о подтвержденных сессиях, которые скоро начнутся
type UseCase struct {
	sessionRepo  SessionRepository
	notifier     Notifier
	metrics      EventRecorder
	lead         time.Duration
	batchSize    int
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case.
// lead - за сколько до начала сессии напоминать, batchSize - сколько сессий брать за проход.
func NewUseCase(
	sessionRepo SessionRepository,
	notifier Notifier,
	metrics EventRecorder,
	lead time.Duration,
	batchSize int,
	logger Logger,
) *UseCase {
	return &UseCase{
		sessionRepo:  sessionRepo,
		notifier:     notifier,
		metrics:      metrics,
		lead:         lead,
		batchSize:    batchSize,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute отправляет по одному напоминанию клиенту и эксперту каждой сессии,
// начинающейся в ближайшие lead. Отметка reminder_sent_at ставится условно,
// поэтому пересекающиеся проходы не дублируют напоминания.
func (uc *UseCase) Execute(ctx context.Context) (*Response, error) {
	now := uc.timeProvider.Now().UTC()
	until := now.Add(uc.lead)

	sessions, err := uc.sessionRepo.ListDueForReminder(ctx, now, until, uc.batchSize)
	if err != nil {
		uc.logger.Error("SendReminders: failed to list sessions: %v", err)
		return nil, fmt.Errorf("%w: failed to list sessions: %v", ErrInternal, err)
	}

	resp := &Response{Found: len(sessions)}

	for _, session := range sessions {
		marked, err := uc.sessionRepo.MarkReminderSent(ctx, session.ID, now)
		if err != nil {
			uc.logger.Error("SendReminders: failed to mark session id=%d: %v", session.ID, err)
			continue
		}
		if !marked {
			continue
		}

		payload := map[string]interface{}{
			"startsAt": session.StartsAt.UTC().Format(time.RFC3339),
			"date":     session.ScheduledDate.Format(domain.DateFormat),
			"time":     session.ScheduledTime.String(),
		}
		for _, recipient := range []int64{session.ClientID, session.ExpertID} {
			event := notifier.NewEvent(notifier.EventSessionReminder, notifier.ChannelInApp, recipient, session.ID, payload)
			if !uc.notifier.Enqueue(event) {
				uc.logger.Warn("SendReminders: reminder to user id=%d for session id=%d dropped", recipient, session.ID)
			}
		}

		resp.Reminded++
		uc.metrics.IncBookingEvent(metrics.EventReminded)
	}

	if resp.Found > 0 {
		uc.logger.Info("SendReminders: reminded %d of %d sessions starting before %s",
			resp.Reminded, resp.Found, until.Format(time.RFC3339))
	}

	return resp, nil
}
