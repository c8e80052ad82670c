package send_reminders

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fakes"
)

var testNow = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func confirmedAt(id int64, startsIn time.Duration) *domain.Session {
	return &domain.Session{
		ID:       id,
		ClientID: 100 + id,
		ExpertID: 7,
		StartsAt: testNow.Add(startsIn),
		Status:   domain.StatusConfirmed,
	}
}

func TestExecute_RemindsOnceWithinLead(t *testing.T) {
	pending := confirmedAt(3, 30*time.Minute)
	pending.Status = domain.StatusPending

	sessions := fakes.NewSessions(
		confirmedAt(1, 30*time.Minute),
		confirmedAt(2, 3*time.Hour),
		pending,
	)
	n := &fakes.Notifier{}
	uc := NewUseCase(sessions, n, &fakes.Events{}, time.Hour, 100, fakes.Logger{})
	uc.timeProvider = fakes.Clock{At: testNow}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Reminded)
	assert.Equal(t, []notifier.EventType{notifier.EventSessionReminder}, n.Sent(101))
	assert.Equal(t, []notifier.EventType{notifier.EventSessionReminder}, n.Sent(7))
	assert.NotNil(t, sessions.Get(1).ReminderSentAt)
	assert.Nil(t, sessions.Get(2).ReminderSentAt)

	// второй проход ничего не отправляет
	resp, err = uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Zero(t, resp.Reminded)
	assert.Len(t, n.Events, 2)
}

func TestExecute_RespectsBatchSize(t *testing.T) {
	sessions := fakes.NewSessions(
		confirmedAt(1, 10*time.Minute),
		confirmedAt(2, 20*time.Minute),
		confirmedAt(3, 30*time.Minute),
	)
	uc := NewUseCase(sessions, &fakes.Notifier{}, &fakes.Events{}, time.Hour, 2, fakes.Logger{})
	uc.timeProvider = fakes.Clock{At: testNow}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Reminded)

	resp, err = uc.Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Reminded)
}
