package scheduling

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

var (
	// пятница
	testNow = time.Date(2026, 10, 16, 10, 0, 0, 0, time.UTC)
	// понедельник
	testMonday = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
)

func mondayExpert(step int, windows ...domain.TimeRange) *domain.Expert {
	return &domain.Expert{
		ID:                  1,
		HourlyRate:          100,
		Currency:            "USD",
		Timezone:            "UTC",
		SlotDurationMinutes: step,
		Availability:        domain.WeeklyAvailability{time.Monday: windows},
		IsApproved:          true,
		IsAcceptingClients:  true,
	}
}

func slotStarts(slots []domain.Slot) []string {
	result := make([]string, 0, len(slots))
	for _, s := range slots {
		result = append(result, s.Start.String()+"-"+s.End.String())
	}
	return result
}

func TestComputeSlots(t *testing.T) {
	nineToNoon := domain.TimeRange{Start: "09:00", End: "12:00"}

	tests := []struct {
		name     string
		expert   *domain.Expert
		date     time.Time
		duration int
		booked   []domain.BookedInterval
		want     []string
	}{
		{
			name:     "free morning",
			expert:   mondayExpert(60, nineToNoon),
			date:     testMonday,
			duration: 60,
			want:     []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"},
		},
		{
			name:     "existing booking removes its slot",
			expert:   mondayExpert(60, nineToNoon),
			date:     testMonday,
			duration: 60,
			booked:   []domain.BookedInterval{{Start: "10:00", DurationMinutes: 60}},
			want:     []string{"09:00-10:00", "11:00-12:00"},
		},
		{
			name:     "booking overlapping partially",
			expert:   mondayExpert(30, nineToNoon),
			date:     testMonday,
			duration: 60,
			booked:   []domain.BookedInterval{{Start: "10:30", DurationMinutes: 30}},
			want:     []string{"09:00-10:00", "09:30-10:30", "11:00-12:00"},
		},
		{
			name:     "no windows on weekday",
			expert:   mondayExpert(60, nineToNoon),
			date:     testMonday.AddDate(0, 0, 1),
			duration: 60,
			want:     []string{},
		},
		{
			name:     "window shorter than duration",
			expert:   mondayExpert(30, domain.TimeRange{Start: "09:00", End: "09:45"}),
			date:     testMonday,
			duration: 60,
			want:     []string{},
		},
		{
			name:     "trailing remainder dropped",
			expert:   mondayExpert(60, domain.TimeRange{Start: "09:00", End: "11:30"}),
			date:     testMonday,
			duration: 60,
			want:     []string{"09:00-10:00", "10:00-11:00"},
		},
		{
			name:     "longer duration than step",
			expert:   mondayExpert(30, domain.TimeRange{Start: "09:00", End: "11:00"}),
			date:     testMonday,
			duration: 90,
			want:     []string{"09:00-10:30", "09:30-11:00"},
		},
		{
			name:     "several windows sorted",
			expert:   mondayExpert(60, domain.TimeRange{Start: "14:00", End: "16:00"}, domain.TimeRange{Start: "09:00", End: "10:00"}),
			date:     testMonday,
			duration: 60,
			want:     []string{"09:00-10:00", "14:00-15:00", "15:00-16:00"},
		},
		{
			name:     "past date",
			expert:   mondayExpert(60, nineToNoon),
			date:     time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC),
			duration: 60,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots, err := ComputeSlots(tt.expert, tt.date, tt.duration, tt.booked, testNow)
			require.NoError(t, err)
			assert.Equal(t, tt.want, slotStarts(slots))
		})
	}
}

func TestComputeSlots_BreakTimes(t *testing.T) {
	expert := mondayExpert(60, domain.TimeRange{Start: "09:00", End: "14:00"})
	expert.BreakTimes = []domain.BreakTime{
		{Start: "12:00", End: "13:00", Weekdays: []time.Weekday{time.Monday}},
		{Start: "09:00", End: "10:00", Weekdays: []time.Weekday{time.Tuesday}},
	}

	slots, err := ComputeSlots(expert, testMonday, 60, nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00", "11:00-12:00", "13:00-14:00"}, slotStarts(slots))
}

func TestComputeSlots_WindowEndingAtMidnightFromStorage(t *testing.T) {
	base, err := time.Parse("15:04:05", "00:00:00")
	require.NoError(t, err)

	var end types.TimeString
	require.NoError(t, end.Scan(base.Add(24*time.Hour)))

	expert := mondayExpert(60, domain.TimeRange{Start: "22:00", End: end})
	slots, err := ComputeSlots(expert, testMonday, 60, nil, testNow)
	require.NoError(t, err)

	assert.Equal(t, []string{"22:00-23:00", "23:00-24:00"}, slotStarts(slots))
}

func TestComputeSlots_TodayDropsStartedSlots(t *testing.T) {
	expert := mondayExpert(30, domain.TimeRange{Start: "09:00", End: "12:00"})
	now := time.Date(2026, 10, 19, 10, 15, 0, 0, time.UTC)

	slots, err := ComputeSlots(expert, testMonday, 60, nil, now)
	require.NoError(t, err)

	assert.Equal(t, []string{"10:30-11:30", "11:00-12:00"}, slotStarts(slots))
}

func TestComputeSlots_TodayIsExpertLocalDate(t *testing.T) {
	expert := mondayExpert(60, domain.TimeRange{Start: "09:00", End: "12:00"})
	expert.Timezone = "Asia/Tokyo"
	// 23:30 UTC воскресенья = 08:30 понедельника в Токио
	now := time.Date(2026, 10, 18, 23, 30, 0, 0, time.UTC)

	slots, err := ComputeSlots(expert, testMonday, 60, nil, now)
	require.NoError(t, err)
	assert.Len(t, slots, 3)

	// 01:30 UTC понедельника = 10:30 в Токио
	now = time.Date(2026, 10, 19, 1, 30, 0, 0, time.UTC)
	slots, err = ComputeSlots(expert, testMonday, 60, nil, now)
	require.NoError(t, err)
	assert.Equal(t, []string{"11:00-12:00"}, slotStarts(slots))
}

func TestComputeSlots_InvariantsHold(t *testing.T) {
	expert := mondayExpert(15, domain.TimeRange{Start: "08:00", End: "12:00"}, domain.TimeRange{Start: "13:00", End: "18:30"})
	expert.BreakTimes = []domain.BreakTime{{Start: "10:00", End: "10:45"}}
	booked := []domain.BookedInterval{{Start: "14:00", DurationMinutes: 90}, {Start: "08:15", DurationMinutes: 30}}

	for _, duration := range domain.AllowedSessionDurations {
		slots, err := ComputeSlots(expert, testMonday, duration, booked, testNow)
		require.NoError(t, err)

		for _, s := range slots {
			start, end := s.Start.Minutes(), s.End.Minutes()
			assert.Equal(t, duration, end-start)

			inWindow := false
			for _, w := range expert.WindowsFor(time.Monday) {
				if start >= w.Start.Minutes() && end <= w.End.Minutes() {
					inWindow = true
				}
			}
			assert.True(t, inWindow, "slot %s outside windows", s.Start)

			for _, b := range expert.BreakTimes {
				assert.False(t, domain.Overlaps(start, end, b.Start.Minutes(), b.End.Minutes()), "slot %s overlaps break", s.Start)
			}
			for _, b := range booked {
				assert.False(t, domain.Overlaps(start, end, b.Start.Minutes(), b.EndMinutes()), "slot %s overlaps booking", s.Start)
			}
		}
	}
}

func TestComputeSlots_Errors(t *testing.T) {
	_, err := ComputeSlots(mondayExpert(60), testMonday, 0, nil, testNow)
	assert.ErrorIs(t, err, ErrInvalidDuration)

	bad := mondayExpert(60)
	bad.Timezone = "Mars/Olympus"
	_, err = ComputeSlots(bad, testMonday, 60, nil, testNow)
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	overnight := mondayExpert(60, domain.TimeRange{Start: "22:00", End: "02:00"})
	_, err = ComputeSlots(overnight, testMonday, 60, nil, testNow)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestComputeAvailableDates(t *testing.T) {
	expert := mondayExpert(60, domain.TimeRange{Start: "09:00", End: "10:00"})
	booked := map[string][]domain.BookedInterval{
		"2026-11-09": {{Start: "09:00", DurationMinutes: 60}},
	}

	dates, err := ComputeAvailableDates(expert, 2026, time.November, 60, booked, testNow)
	require.NoError(t, err)

	got := make([]string, 0, len(dates))
	for _, d := range dates {
		got = append(got, d.Format(domain.DateFormat))
	}
	assert.Equal(t, []string{"2026-11-02", "2026-11-16", "2026-11-23", "2026-11-30"}, got)
}

func TestIsOfferedStart(t *testing.T) {
	expert := mondayExpert(30, domain.TimeRange{Start: "09:00", End: "11:00"})

	ok, err := IsOfferedStart(expert, testMonday, "09:30", 60, testNow)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsOfferedStart(expert, testMonday, "09:10", 60, testNow)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = IsOfferedStart(expert, testMonday, "10:30", 60, testNow)
	require.NoError(t, err)
	assert.False(t, ok, "would end after the window")
}

func TestSessionBounds(t *testing.T) {
	expert := mondayExpert(60)
	expert.Timezone = "Europe/Berlin"

	startsAt, endsAt, err := SessionBounds(expert, testMonday, types.TimeString("10:00"), 90)
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC), startsAt.UTC())
	assert.Equal(t, 90*time.Minute, endsAt.Sub(startsAt))
}
