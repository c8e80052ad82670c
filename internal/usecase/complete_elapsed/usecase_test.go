package complete_elapsed

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/complete_session"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fakes"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type stubCompleter struct {
	calls  []complete_session.Request
	errFor map[int64]error
}

func (s *stubCompleter) Execute(_ context.Context, req *complete_session.Request) (*complete_session.Response, error) {
	s.calls = append(s.calls, *req)
	if err, ok := s.errFor[req.SessionID]; ok {
		return nil, err
	}
	return &complete_session.Response{}, nil
}

func session(id int64, status domain.SessionStatus, endsAgo time.Duration) *domain.Session {
	return &domain.Session{ID: id, ClientID: 101, ExpertID: 7, Status: status, EndsAt: testNow.Add(-endsAgo)}
}

func TestExecute_CompletesElapsedAsSystem(t *testing.T) {
	sessions := fakes.NewSessions(
		session(1, domain.StatusConfirmed, time.Hour),
		session(2, domain.StatusConfirmed, -time.Hour), // еще идет
		session(3, domain.StatusPending, time.Hour),
		session(4, domain.StatusConfirmed, 0),
	)
	completer := &stubCompleter{}
	uc := NewUseCase(sessions, completer, 50, fakes.Logger{})
	uc.timeProvider = fakes.Clock{At: testNow}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Response{Found: 2, Completed: 2}, resp)
	require.Len(t, completer.calls, 2)
	assert.Equal(t, int64(1), completer.calls[0].SessionID)
	assert.Equal(t, int64(4), completer.calls[1].SessionID)
	assert.Equal(t, domain.SystemActor, completer.calls[0].Actor)
}

func TestExecute_ContinuesAfterFailure(t *testing.T) {
	sessions := fakes.NewSessions(
		session(1, domain.StatusConfirmed, time.Hour),
		session(2, domain.StatusConfirmed, time.Hour),
		session(3, domain.StatusConfirmed, time.Hour),
	)
	completer := &stubCompleter{errFor: map[int64]error{
		1: complete_session.ErrNotConfirmed,
		2: fmt.Errorf("%w: db down", complete_session.ErrInternal),
	}}
	uc := NewUseCase(sessions, completer, 50, fakes.Logger{})
	uc.timeProvider = fakes.Clock{At: testNow}

	resp, err := uc.Execute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Response{Found: 3, Completed: 1, Failed: 1}, resp)
}

type failingSessions struct{}

func (failingSessions) ListDueForCompletion(context.Context, time.Time, int) ([]*domain.Session, error) {
	return nil, errors.New("connection refused")
}

func TestExecute_ListError(t *testing.T) {
	uc := NewUseCase(failingSessions{}, &stubCompleter{}, 50, fakes.Logger{})

	_, err := uc.Execute(context.Background())
	assert.ErrorIs(t, err, domain.ErrInternal)
}
