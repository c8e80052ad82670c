package create_session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	sessionRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/session"
	"github.com/m04kA/SMC-ConsultationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
	"github.com/m04kA/SMC-ConsultationService/pkg/metrics"
	"github.com/m04kA/SMC-ConsultationService/pkg/txmanager"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var (
	// пятница
	testNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	// понедельник
	testMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

const (
	clientID = int64(101)
	expID    = int64(7)
)

type fakeSessions struct {
	active    []*domain.Session
	createErr error
	created   []*domain.Session
}

func (f *fakeSessions) Create(_ context.Context, s *domain.Session) (*domain.Session, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	s.ID = int64(len(f.created) + 1)
	f.created = append(f.created, s)
	return s, nil
}

func (f *fakeSessions) GetActiveByExpertAndDates(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Session, error) {
	return f.active, nil
}

type fakeExperts struct {
	expert *domain.Expert
}

func (f *fakeExperts) GetByID(_ context.Context, id int64) (*domain.Expert, error) {
	if f.expert == nil || f.expert.ID != id {
		return nil, expertRepo.ErrExpertNotFound
	}
	return f.expert, nil
}

type fakeAccounts struct {
	balance float64
	debited []float64
}

func (f *fakeAccounts) GetByUserID(_ context.Context, userID int64) (*domain.ClientAccount, error) {
	return &domain.ClientAccount{UserID: userID, CreditBalance: f.balance}, nil
}

func (f *fakeAccounts) Debit(_ context.Context, _ int64, amount float64) error {
	f.debited = append(f.debited, amount)
	f.balance -= amount
	return nil
}

type fakeLedger struct {
	entries []*domain.LedgerEntry
}

func (f *fakeLedger) Create(_ context.Context, e *domain.LedgerEntry) (*domain.LedgerEntry, error) {
	f.entries = append(f.entries, e)
	return e, nil
}

type fakeNotifier struct {
	events []notifier.Event
}

func (f *fakeNotifier) Enqueue(e notifier.Event) bool {
	f.events = append(f.events, e)
	return true
}

type fakeCache struct {
	invalidated []int64
}

func (f *fakeCache) Invalidate(_ context.Context, expertID int64) error {
	f.invalidated = append(f.invalidated, expertID)
	return nil
}

type eventCounter map[string]int

func (c eventCounter) IncBookingEvent(event string) { c[event]++ }

type fakeTxManager struct {
	err error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if m.err != nil {
		return m.err
	}
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fixture struct {
	sessions *fakeSessions
	experts  *fakeExperts
	accounts *fakeAccounts
	ledger   *fakeLedger
	notifier *fakeNotifier
	cache    *fakeCache
	events   eventCounter
	tx       *fakeTxManager
	uc       *UseCase
}

func newExpert() *domain.Expert {
	return &domain.Expert{
		ID:                  expID,
		HourlyRate:          100,
		Currency:            "USD",
		Timezone:            "UTC",
		SlotDurationMinutes: 30,
		Availability: domain.WeeklyAvailability{
			time.Monday: {{Start: "09:00", End: "12:00"}},
		},
		IsApproved:         true,
		IsAcceptingClients: true,
	}
}

func newFixture() *fixture {
	f := &fixture{
		sessions: &fakeSessions{},
		experts:  &fakeExperts{expert: newExpert()},
		accounts: &fakeAccounts{},
		ledger:   &fakeLedger{},
		notifier: &fakeNotifier{},
		cache:    &fakeCache{},
		events:   eventCounter{},
		tx:       &fakeTxManager{},
	}
	f.uc = NewUseCase(f.sessions, f.experts, f.accounts, f.ledger, scheduling.NewCommissionEngine(0.20), "USD",
		f.notifier, f.cache, f.events, f.tx, nopLogger{})
	f.uc.timeProvider = fixedTime{now: testNow}
	return f
}

func validRequest() *Request {
	return &Request{
		ClientID:        clientID,
		ExpertID:        expID,
		Date:            testMonday,
		StartTime:       "10:00",
		DurationMinutes: 30,
	}
}

func activeSession(id int64, start types.TimeString, duration int) *domain.Session {
	end, _ := start.AddMinutes(duration)
	return &domain.Session{
		ID:              id,
		ExpertID:        expID,
		ScheduledDate:   testMonday,
		ScheduledTime:   start,
		EndTime:         end,
		DurationMinutes: duration,
		Status:          domain.StatusConfirmed,
	}
}

func TestExecute_CreatesPendingSession(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	s := resp.Session
	assert.Equal(t, domain.StatusPending, s.Status)
	assert.Equal(t, domain.PaymentPending, s.PaymentStatus)
	assert.Equal(t, 50.0, s.Price)
	assert.Equal(t, 40.0, s.Metadata.ExpertCommission)
	assert.Equal(t, 10.0, s.Metadata.PlatformCommission)
	assert.Equal(t, 50.0, resp.AmountDue)
	assert.Equal(t, types.TimeString("10:30"), s.EndTime)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), s.StartsAt)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 30, 0, 0, time.UTC), s.EndsAt)

	require.Len(t, f.ledger.entries, 1)
	assert.Equal(t, domain.LedgerCharge, f.ledger.entries[0].Type)
	assert.Equal(t, 50.0, f.ledger.entries[0].Amount)
	assert.Equal(t, 40.0, f.ledger.entries[0].ExpertCommission)

	require.Len(t, f.notifier.events, 2)
	assert.Equal(t, notifier.EventBookingRequested, f.notifier.events[0].Type)
	assert.Equal(t, expID, f.notifier.events[0].RecipientID)
	assert.Equal(t, notifier.EventBookingConfirmation, f.notifier.events[1].Type)
	assert.Equal(t, notifier.ChannelEmail, f.notifier.events[1].Channel)
	assert.Equal(t, clientID, f.notifier.events[1].RecipientID)

	assert.Equal(t, []int64{expID}, f.cache.invalidated)
	assert.Equal(t, 1, f.events[metrics.EventCreated])
}

func TestExecute_ExactSlotTakenIsConflict(t *testing.T) {
	f := newFixture()
	f.sessions.active = []*domain.Session{activeSession(1, "10:00", 30)}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.sessions.created)
	assert.Empty(t, f.notifier.events)
	assert.Equal(t, 1, f.events[metrics.EventConflict])
}

func TestExecute_OverlappingSessionIsConflict(t *testing.T) {
	f := newFixture()
	f.sessions.active = []*domain.Session{activeSession(1, "09:30", 60)}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestExecute_AdjacentSessionIsNotConflict(t *testing.T) {
	f := newFixture()
	f.sessions.active = []*domain.Session{activeSession(1, "09:00", 60), activeSession(2, "10:30", 30)}

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err)
}

func TestExecute_UniqueIndexViolationIsConflict(t *testing.T) {
	f := newFixture()
	f.sessions.createErr = sessionRepo.ErrSlotTaken

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.ledger.entries)
}

func TestExecute_SerializationFailureIsConflict(t *testing.T) {
	f := newFixture()
	f.tx.err = fmt.Errorf("%w: commit: could not serialize access", txmanager.ErrSerialization)

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_Credits(t *testing.T) {
	tests := []struct {
		name          string
		balance       float64
		wantUsed      float64
		wantDue       float64
		wantPayStatus domain.PaymentStatus
	}{
		{name: "partial", balance: 20, wantUsed: 20, wantDue: 30, wantPayStatus: domain.PaymentPending},
		{name: "covers whole price", balance: 120, wantUsed: 50, wantDue: 0, wantPayStatus: domain.PaymentPaid},
		{name: "empty balance", balance: 0, wantUsed: 0, wantDue: 50, wantPayStatus: domain.PaymentPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.accounts.balance = tt.balance
			req := validRequest()
			req.UseCredits = true

			resp, err := f.uc.Execute(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantUsed, resp.Session.Metadata.UserCreditsUsed)
			assert.Equal(t, tt.wantDue, resp.AmountDue)
			assert.Equal(t, tt.wantPayStatus, resp.Session.PaymentStatus)
			if tt.wantUsed > 0 {
				assert.Equal(t, []float64{tt.wantUsed}, f.accounts.debited)
			} else {
				assert.Empty(t, f.accounts.debited)
			}
		})
	}
}

func TestExecute_CreditsIgnoredWithoutFlag(t *testing.T) {
	f := newFixture()
	f.accounts.balance = 500

	resp, err := f.uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, 50.0, resp.AmountDue)
	assert.Empty(t, f.accounts.debited)
}

func TestExecute_ExpertPreconditions(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		f.experts.expert = nil

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("not approved", func(t *testing.T) {
		f := newFixture()
		f.experts.expert.IsApproved = false

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, domain.ErrInsufficientState)
	})

	t.Run("not accepting clients", func(t *testing.T) {
		f := newFixture()
		f.experts.expert.IsAcceptingClients = false

		_, err := f.uc.Execute(context.Background(), validRequest())
		assert.ErrorIs(t, err, ErrExpertNotBookable)
	})
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name   string
		modify func(r *Request)
	}{
		{name: "self booking", modify: func(r *Request) { r.ClientID = expID }},
		{name: "unsupported duration", modify: func(r *Request) { r.DurationMinutes = 45 }},
		{name: "malformed time", modify: func(r *Request) { r.StartTime = "25:00" }},
		{name: "past date", modify: func(r *Request) { r.Date = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC) }},
		{name: "outside window", modify: func(r *Request) { r.StartTime = "08:00" }},
		{name: "off the slot grid", modify: func(r *Request) { r.StartTime = "10:15" }},
		{name: "no availability that day", modify: func(r *Request) { r.Date = time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }},
		{name: "does not fit the window", modify: func(r *Request) { r.StartTime = "11:30"; r.DurationMinutes = 60 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.modify(req)

			_, err := f.uc.Execute(context.Background(), req)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, f.sessions.created)
			assert.Empty(t, f.notifier.events)
		})
	}
}

func TestExecute_InternalErrorKeepsKind(t *testing.T) {
	f := newFixture()
	boom := errors.New("connection reset")
	f.sessions.createErr = boom

	_, err := f.uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, domain.ErrInternal)
	assert.ErrorIs(t, err, boom)
}
