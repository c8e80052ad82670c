package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/pkg/ptr"
)

func TestSession_StatePredicates(t *testing.T) {
	tests := []struct {
		status      SessionStatus
		active      bool
		terminal    bool
		completable bool
	}{
		{StatusPending, true, false, false},
		{StatusConfirmed, true, false, true},
		{StatusCompleted, false, true, false},
		{StatusCancelled, false, true, false},
		{StatusRefunded, false, true, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			s := &Session{Status: tt.status}
			assert.Equal(t, tt.active, s.IsActive())
			assert.Equal(t, tt.active, s.CanBeCancelled())
			assert.Equal(t, tt.terminal, s.IsTerminal())
			assert.Equal(t, tt.completable, s.CanBeCompleted())
		})
	}
}

func TestSession_CanBeRated(t *testing.T) {
	s := &Session{Status: StatusCompleted}
	assert.True(t, s.CanBeRated())

	s.Rating = ptr.Ptr(5)
	assert.False(t, s.CanBeRated())

	assert.False(t, (&Session{Status: StatusConfirmed}).CanBeRated())
}

func TestBreakTime_AppliesTo(t *testing.T) {
	everyDay := BreakTime{Start: "12:00", End: "13:00"}
	weekdays := BreakTime{Start: "12:00", End: "13:00", Weekdays: []time.Weekday{time.Monday, time.Friday}}

	assert.True(t, everyDay.AppliesTo(time.Sunday))
	assert.True(t, weekdays.AppliesTo(time.Friday))
	assert.False(t, weekdays.AppliesTo(time.Tuesday))
}

func TestParseWeekday(t *testing.T) {
	day, err := ParseWeekday(" Monday ")
	require.NoError(t, err)
	assert.Equal(t, time.Monday, day)
	assert.Equal(t, "monday", WeekdayName(day))

	_, err = ParseWeekday("funday")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestNewLedgerEntry_CopiesSnapshot(t *testing.T) {
	s := &Session{
		ID: 7, ClientID: 1, ExpertID: 2, Currency: "USD",
		Metadata: SessionMetadata{ExpertCommission: 40, PlatformCommission: 10, UserCreditsUsed: 5},
	}

	e := NewLedgerEntry(s, LedgerCharge, 45)

	assert.Equal(t, int64(7), e.SessionID)
	assert.Equal(t, LedgerCharge, e.Type)
	assert.Equal(t, 45.0, e.Amount)
	assert.Equal(t, 40.0, e.ExpertCommission)
	assert.Equal(t, 10.0, e.PlatformCommission)
	assert.Equal(t, 5.0, e.CreditsUsed)
}

func TestOverlaps(t *testing.T) {
	assert.True(t, Overlaps(600, 660, 630, 690))
	assert.False(t, Overlaps(600, 660, 660, 720), "touching intervals do not overlap")
	assert.False(t, Overlaps(540, 600, 600, 660))
	assert.True(t, Overlaps(540, 720, 600, 660))
}
