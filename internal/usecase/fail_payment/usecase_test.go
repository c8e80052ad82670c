package fail_payment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fakes"
)

func session(status domain.SessionStatus, payment domain.PaymentStatus) *domain.Session {
	return &domain.Session{ID: 1, ClientID: 101, ExpertID: 7, Price: 50, Status: status, PaymentStatus: payment}
}

func TestExecute_MarksPaymentFailed(t *testing.T) {
	sessions := fakes.NewSessions(session(domain.StatusPending, domain.PaymentPending))
	n := &fakes.Notifier{}
	uc := NewUseCase(sessions, n, &fakes.TxManager{}, fakes.Logger{})

	resp, err := uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.SystemActor, Reason: "card declined"})
	require.NoError(t, err)

	assert.Equal(t, domain.StatusPending, resp.Session.Status)
	assert.Equal(t, domain.PaymentFailed, sessions.Get(1).PaymentStatus)
	assert.Equal(t, []notifier.EventType{notifier.EventPaymentFailed}, n.Sent(101))
}

func TestExecute_RepeatedFailureIsQuiet(t *testing.T) {
	sessions := fakes.NewSessions(session(domain.StatusPending, domain.PaymentFailed))
	n := &fakes.Notifier{}
	uc := NewUseCase(sessions, n, &fakes.TxManager{}, fakes.Logger{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.SystemActor})
	require.NoError(t, err)

	assert.Zero(t, sessions.Updates)
	assert.Empty(t, n.Events)
}

func TestExecute_RejectsClosedSessions(t *testing.T) {
	for _, status := range domain.TerminalStatuses {
		sessions := fakes.NewSessions(session(status, domain.PaymentPaid))
		uc := NewUseCase(sessions, &fakes.Notifier{}, &fakes.TxManager{}, fakes.Logger{})

		_, err := uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.SystemActor})

		assert.ErrorIs(t, err, domain.ErrInvalidState, status)
	}
}

func TestExecute_ClientCannotReportPayment(t *testing.T) {
	sessions := fakes.NewSessions(session(domain.StatusPending, domain.PaymentPending))
	uc := NewUseCase(sessions, &fakes.Notifier{}, &fakes.TxManager{}, fakes.Logger{})

	_, err := uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.Actor{ID: 101, Role: domain.RoleClient}})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}
