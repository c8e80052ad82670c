package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/service/sessions/models"
	"github.com/m04kA/SMC-ConsultationService/internal/usecase/fakes"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

func newSession(id, clientID, expertID int64, status domain.SessionStatus) *domain.Session {
	return &domain.Session{
		ID:              id,
		ClientID:        clientID,
		ExpertID:        expertID,
		ScheduledDate:   time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		ScheduledTime:   types.TimeString("10:00"),
		EndTime:         types.TimeString("11:00"),
		DurationMinutes: 60,
		StartsAt:        time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC),
		EndsAt:          time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC),
		Price:           100,
		Currency:        "USD",
		Status:          status,
		PaymentStatus:   domain.PaymentPending,
	}
}

func newService() (*Service, *fakes.Ledger) {
	sessions := fakes.NewSessions(
		newSession(1, 101, 7, domain.StatusPending),
		newSession(2, 101, 8, domain.StatusCompleted),
		newSession(3, 102, 7, domain.StatusConfirmed),
	)
	ledger := &fakes.Ledger{}
	return NewService(sessions, ledger, fakes.Logger{}), ledger
}

func TestGetByID_Access(t *testing.T) {
	tests := []struct {
		name  string
		actor domain.Actor
		err   error
	}{
		{"client", domain.Actor{ID: 101, Role: domain.RoleClient}, nil},
		{"expert", domain.Actor{ID: 7, Role: domain.RoleExpert}, nil},
		{"admin", domain.Actor{ID: 1, Role: domain.RoleAdmin}, nil},
		{"stranger", domain.Actor{ID: 555, Role: domain.RoleClient}, domain.ErrForbidden},
		{"other expert", domain.Actor{ID: 8, Role: domain.RoleExpert}, domain.ErrForbidden},
	}

	svc, _ := newService()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.GetByID(context.Background(), 1, tt.actor)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), resp.ID)
			assert.Equal(t, "2026-10-19", resp.ScheduledDate)
			assert.Equal(t, "10:00", resp.ScheduledTime)
			assert.Equal(t, "2026-10-19T10:00:00Z", resp.StartsAt)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newService()

	_, err := svc.GetByID(context.Background(), 99, domain.Actor{ID: 1, Role: domain.RoleAdmin})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestList(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()

	resp, err := svc.List(ctx, &models.ListSessionsRequest{
		Actor:  domain.Actor{ID: 101, Role: domain.RoleClient},
		UserID: 101,
		As:     "client",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 2)

	status := "confirmed"
	resp, err = svc.List(ctx, &models.ListSessionsRequest{
		Actor:  domain.Actor{ID: 7, Role: domain.RoleExpert},
		UserID: 7,
		As:     "expert",
		Status: &status,
	})
	require.NoError(t, err)
	require.Len(t, resp.Sessions, 1)
	assert.Equal(t, int64(3), resp.Sessions[0].ID)
}

func TestList_Rejections(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	bogus := "archived"

	_, err := svc.List(ctx, &models.ListSessionsRequest{
		Actor: domain.Actor{ID: 102, Role: domain.RoleClient}, UserID: 101, As: "client",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.List(ctx, &models.ListSessionsRequest{
		Actor: domain.Actor{ID: 101, Role: domain.RoleClient}, UserID: 101, As: "admin",
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.List(ctx, &models.ListSessionsRequest{
		Actor: domain.Actor{ID: 101, Role: domain.RoleClient}, UserID: 101, As: "client", Status: &bogus,
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	resp, err := svc.List(ctx, &models.ListSessionsRequest{
		Actor: domain.Actor{ID: 1, Role: domain.RoleAdmin}, UserID: 101, As: "client",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Sessions, 2)
}

func TestLedger(t *testing.T) {
	svc, ledger := newService()
	ctx := context.Background()

	session := newSession(1, 101, 7, domain.StatusPending)
	_, _ = ledger.Create(ctx, domain.NewLedgerEntry(session, domain.LedgerCharge, 100))
	_, _ = ledger.Create(ctx, domain.NewLedgerEntry(newSession(3, 102, 7, domain.StatusConfirmed), domain.LedgerCharge, 100))

	resp, err := svc.Ledger(ctx, 1, domain.Actor{ID: 101, Role: domain.RoleClient})
	require.NoError(t, err)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "charge", resp.Entries[0].Type)

	_, err = svc.Ledger(ctx, 1, domain.Actor{ID: 102, Role: domain.RoleClient})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListSessionsRequest_LimitClamped(t *testing.T) {
	req := &models.ListSessionsRequest{UserID: 1, As: "client", Limit: 10_000}
	filter, err := req.ToDomainFilter()
	require.NoError(t, err)
	assert.Equal(t, models.MaxListLimit, filter.Limit)

	req.Limit = 0
	filter, err = req.ToDomainFilter()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultListLimit, filter.Limit)
}
