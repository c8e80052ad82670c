package refund_session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fakes"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
)

type fixture struct {
	sessions *fakes.Sessions
	accounts *fakes.Accounts
	ledger   *fakes.Ledger
	notifier *fakes.Notifier
	events   *fakes.Events
	uc       *UseCase
}

func newFixture(s *domain.Session) *fixture {
	f := &fixture{
		sessions: fakes.NewSessions(s),
		accounts: fakes.NewAccounts(),
		ledger:   &fakes.Ledger{},
		notifier: &fakes.Notifier{},
		events:   &fakes.Events{},
	}
	f.uc = NewUseCase(f.sessions, f.accounts, f.ledger, f.notifier, &fakes.Cache{}, f.events, &fakes.TxManager{}, fakes.Logger{})
	return f
}

func session(status domain.SessionStatus, payment domain.PaymentStatus, credits float64) *domain.Session {
	return &domain.Session{
		ID:            1,
		ClientID:      101,
		ExpertID:      7,
		Price:         100,
		Status:        status,
		PaymentStatus: payment,
		Metadata:      domain.SessionMetadata{ExpertCommission: 80, PlatformCommission: 20, UserCreditsUsed: credits},
	}
}

func TestExecute_ReversesCapturedPaymentAndReturnsCredits(t *testing.T) {
	f := newFixture(session(domain.StatusConfirmed, domain.PaymentPaid, 30))

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.Actor{ID: 1, Role: domain.RoleAdmin}, Reason: "chargeback"})
	require.NoError(t, err)

	assert.Equal(t, 70.0, resp.ReversedAmount)
	assert.Equal(t, 30.0, resp.CreditsReturned)
	assert.Equal(t, 30.0, f.accounts.Balances[101])

	stored := f.sessions.Get(1)
	assert.Equal(t, domain.StatusRefunded, stored.Status)
	assert.Equal(t, domain.PaymentRefunded, stored.PaymentStatus)

	assert.Equal(t, []domain.LedgerEntryType{domain.LedgerReversal, domain.LedgerRefund}, f.ledger.Types())
	assert.Equal(t, []notifier.EventType{notifier.EventSessionRefunded}, f.notifier.Sent(101))
	assert.Equal(t, 1, f.events.Count(metrics.EventRefunded))
}

func TestExecute_UnpaidSessionHasNothingToReverse(t *testing.T) {
	f := newFixture(session(domain.StatusPending, domain.PaymentPending, 0))

	resp, err := f.uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.SystemActor})
	require.NoError(t, err)

	assert.Zero(t, resp.ReversedAmount)
	assert.Empty(t, f.ledger.Entries)
	assert.Equal(t, domain.StatusRefunded, f.sessions.Get(1).Status)
}

func TestExecute_Rejections(t *testing.T) {
	t.Run("terminal session", func(t *testing.T) {
		for _, status := range domain.TerminalStatuses {
			f := newFixture(session(status, domain.PaymentPaid, 0))

			_, err := f.uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.SystemActor})
			assert.ErrorIs(t, err, ErrCannotRefund)
		}
	})

	t.Run("expert cannot refund", func(t *testing.T) {
		f := newFixture(session(domain.StatusConfirmed, domain.PaymentPaid, 0))

		_, err := f.uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.Actor{ID: 7, Role: domain.RoleExpert}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("client cannot refund", func(t *testing.T) {
		f := newFixture(session(domain.StatusConfirmed, domain.PaymentPaid, 0))

		_, err := f.uc.Execute(context.Background(), &Request{SessionID: 1, Actor: domain.Actor{ID: 101, Role: domain.RoleClient}})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		assert.Equal(t, domain.StatusConfirmed, f.sessions.Get(1).Status)
	})
}
