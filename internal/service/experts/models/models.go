package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// TimeRange окно доступности "HH:MM"-"HH:MM"
type TimeRange struct {
	Start string `json:"start" validate:"required,clock"`
	End   string `json:"end" validate:"required,clock"`
}

// BreakTime перерыв. Пустой weekdays - каждый день.
type BreakTime struct {
	Start    string   `json:"start" validate:"required,clock"`
	End      string   `json:"end" validate:"required,clock"`
	Weekdays []string `json:"weekdays,omitempty"`
}

// Request модели

// UpdateScheduleRequest полная замена расписания эксперта
type UpdateScheduleRequest struct {
	Actor               domain.Actor           `json:"-"`
	ExpertID            int64                  `json:"-"`
	Timezone            string                 `json:"timezone"`            // IANA, пусто = UTC
	SlotDurationMinutes int                    `json:"slotDurationMinutes"` // 15, 30 или 60, 0 = по умолчанию
	Availability        map[string][]TimeRange `json:"availability" validate:"dive,dive"`
	BreakTimes          []BreakTime            `json:"breakTimes,omitempty" validate:"dive"`
}

// ToDomainSchedule конвертирует request в domain модель.
// Проверяет только формат: дни недели и время HH:MM.
func (r *UpdateScheduleRequest) ToDomainSchedule() (*domain.ExpertSchedule, error) {
	schedule := &domain.ExpertSchedule{
		ExpertID:            r.ExpertID,
		Timezone:            r.Timezone,
		SlotDurationMinutes: r.SlotDurationMinutes,
		Availability:        make(domain.WeeklyAvailability, len(r.Availability)),
		BreakTimes:          make([]domain.BreakTime, 0, len(r.BreakTimes)),
	}

	for name, windows := range r.Availability {
		day, err := domain.ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		for _, w := range windows {
			start, end, err := parseRange(w.Start, w.End)
			if err != nil {
				return nil, err
			}
			schedule.Availability[day] = append(schedule.Availability[day], domain.TimeRange{Start: start, End: end})
		}
	}

	for _, b := range r.BreakTimes {
		start, end, err := parseRange(b.Start, b.End)
		if err != nil {
			return nil, err
		}
		breakTime := domain.BreakTime{Start: start, End: end}
		for _, name := range b.Weekdays {
			day, err := domain.ParseWeekday(name)
			if err != nil {
				return nil, err
			}
			breakTime.Weekdays = append(breakTime.Weekdays, day)
		}
		schedule.BreakTimes = append(schedule.BreakTimes, breakTime)
	}

	return schedule, nil
}

func parseRange(start, end string) (types.TimeString, types.TimeString, error) {
	s, err := types.NewTimeStringFromString(start)
	if err != nil {
		return "", "", fmt.Errorf("%w: start %q: %v", domain.ErrValidation, start, err)
	}
	e, err := types.NewTimeStringFromString(end)
	if err != nil {
		return "", "", fmt.Errorf("%w: end %q: %v", domain.ErrValidation, end, err)
	}
	return s, e, nil
}

// Response модели

// ScheduleResponse расписание и публичный профиль эксперта
type ScheduleResponse struct {
	ExpertID            int64                  `json:"expertId"`
	DisplayName         string                 `json:"displayName"`
	HourlyRate          float64                `json:"hourlyRate"`
	Currency            string                 `json:"currency"`
	Timezone            string                 `json:"timezone"`
	SlotDurationMinutes int                    `json:"slotDurationMinutes"`
	IsBookable          bool                   `json:"isBookable"`
	Availability        map[string][]TimeRange `json:"availability"`
	BreakTimes          []BreakTime            `json:"breakTimes"`
	Rating              float64                `json:"rating"`
	ReviewCount         int                    `json:"reviewCount"`
	CompletedSessions   int                    `json:"completedSessions"`
}

// FromDomainExpert конвертирует domain модель в DTO
func FromDomainExpert(e *domain.Expert) *ScheduleResponse {
	if e == nil {
		return nil
	}

	resp := &ScheduleResponse{
		ExpertID:            e.ID,
		DisplayName:         e.DisplayName,
		HourlyRate:          e.HourlyRate,
		Currency:            e.Currency,
		Timezone:            e.Timezone,
		SlotDurationMinutes: e.SlotDurationMinutes,
		IsBookable:          e.IsBookable(),
		Availability:        make(map[string][]TimeRange, len(e.Availability)),
		BreakTimes:          make([]BreakTime, 0, len(e.BreakTimes)),
		Rating:              e.Stats.Rating,
		ReviewCount:         e.Stats.ReviewCount,
		CompletedSessions:   e.Stats.CompletedSessions,
	}

	days := make([]time.Weekday, 0, len(e.Availability))
	for day := range e.Availability {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })

	for _, day := range days {
		windows := make([]TimeRange, 0, len(e.Availability[day]))
		for _, w := range e.Availability[day] {
			windows = append(windows, TimeRange{Start: w.Start.String(), End: w.End.String()})
		}
		resp.Availability[domain.WeekdayName(day)] = windows
	}

	for _, b := range e.BreakTimes {
		breakTime := BreakTime{Start: b.Start.String(), End: b.End.String()}
		for _, day := range b.Weekdays {
			breakTime.Weekdays = append(breakTime.Weekdays, domain.WeekdayName(day))
		}
		resp.BreakTimes = append(resp.BreakTimes, breakTime)
	}

	return resp
}
