package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	expertRepo "github.com/m04kA/SMC-ConsultationService/internal/infra/storage/expert"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var (
	testNow    = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	testMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

type fakeSessions struct {
	sessions []*domain.Session
	err      error
}

func (f *fakeSessions) GetActiveByExpertAndDates(_ context.Context, _ int64, _, _ time.Time) ([]*domain.Session, error) {
	return f.sessions, f.err
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

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newUseCase(expert *domain.Expert, sessions *fakeSessions) *UseCase {
	uc := NewUseCase(sessions, &fakeExperts{expert: expert}, nopLogger{})
	uc.timeProvider = fixedTime{now: testNow}
	return uc
}

func mondayExpert() *domain.Expert {
	return &domain.Expert{
		ID:                  7,
		Timezone:            "UTC",
		SlotDurationMinutes: 60,
		Availability: domain.WeeklyAvailability{
			time.Monday: {{Start: "09:00", End: "12:00"}},
		},
		IsApproved:         true,
		IsAcceptingClients: true,
	}
}

func starts(slots []domain.Slot) []types.TimeString {
	result := make([]types.TimeString, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.Start)
	}
	return result
}

func TestExecute_FreeMorning(t *testing.T) {
	uc := newUseCase(mondayExpert(), &fakeSessions{})

	resp, err := uc.Execute(context.Background(), &Request{ExpertID: 7, Date: testMonday, DurationMinutes: 60})
	require.NoError(t, err)

	assert.Equal(t, []domain.Slot{
		{Start: "09:00", End: "10:00"},
		{Start: "10:00", End: "11:00"},
		{Start: "11:00", End: "12:00"},
	}, resp.Slots)
}

func TestExecute_SkipsBookedAndInactiveSessions(t *testing.T) {
	sessions := &fakeSessions{sessions: []*domain.Session{
		{ID: 1, ScheduledTime: "10:00", DurationMinutes: 60, Status: domain.StatusConfirmed},
		{ID: 2, ScheduledTime: "11:00", DurationMinutes: 60, Status: domain.StatusCancelled},
	}}
	uc := newUseCase(mondayExpert(), sessions)

	resp, err := uc.Execute(context.Background(), &Request{ExpertID: 7, Date: testMonday, DurationMinutes: 60})
	require.NoError(t, err)

	assert.Equal(t, []types.TimeString{"09:00", "11:00"}, starts(resp.Slots))
}

func TestExecute_DefaultDuration(t *testing.T) {
	uc := newUseCase(mondayExpert(), &fakeSessions{})

	resp, err := uc.Execute(context.Background(), &Request{ExpertID: 7, Date: testMonday})
	require.NoError(t, err)

	assert.Equal(t, 30, resp.DurationMinutes)
	assert.Len(t, resp.Slots, 3)
}

func TestExecute_NotBookableExpertHasNoSlots(t *testing.T) {
	expert := mondayExpert()
	expert.IsAcceptingClients = false
	uc := newUseCase(expert, &fakeSessions{})

	resp, err := uc.Execute(context.Background(), &Request{ExpertID: 7, Date: testMonday, DurationMinutes: 60})
	require.NoError(t, err)

	assert.Empty(t, resp.Slots)
}

func TestExecute_Errors(t *testing.T) {
	t.Run("unknown expert", func(t *testing.T) {
		uc := newUseCase(mondayExpert(), &fakeSessions{})
		_, err := uc.Execute(context.Background(), &Request{ExpertID: 8, Date: testMonday, DurationMinutes: 60})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("bad duration", func(t *testing.T) {
		uc := newUseCase(mondayExpert(), &fakeSessions{})
		_, err := uc.Execute(context.Background(), &Request{ExpertID: 7, Date: testMonday, DurationMinutes: 45})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("storage failure", func(t *testing.T) {
		uc := newUseCase(mondayExpert(), &fakeSessions{err: errors.New("timeout")})
		_, err := uc.Execute(context.Background(), &Request{ExpertID: 7, Date: testMonday, DurationMinutes: 60})
		assert.ErrorIs(t, err, domain.ErrInternal)
	})
}
