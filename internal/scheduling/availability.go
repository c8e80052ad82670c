package scheduling

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// ComputeSlots возвращает слоты эксперта на дату для запрошенной длительности.
//
// Кандидаты генерируются внутри каждого окна доступности дня недели с шагом
// SlotDurationMinutes эксперта, пока start+duration <= конец окна. Остаток окна,
// не кратный шагу, отбрасывается. Затем отсеиваются кандидаты, пересекающиеся
// с перерывами этого дня и с занятыми интервалами (полуоткрытые интервалы).
// Для текущей даты (в часовом поясе эксперта) отсеиваются уже начавшиеся слоты,
// прошедшая дата дает пустой список.
func ComputeSlots(
	expert *domain.Expert,
	date time.Time,
	durationMinutes int,
	booked []domain.BookedInterval,
	now time.Time,
) ([]domain.Slot, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: %d minutes", ErrInvalidDuration, durationMinutes)
	}

	loc, err := expert.Location()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}
	nowLocal := now.In(loc)
	day := CalendarDate(date)

	if day.Before(CalendarDate(nowLocal)) {
		return []domain.Slot{}, nil
	}

	windows := expert.WindowsFor(day.Weekday())
	if len(windows) == 0 {
		return []domain.Slot{}, nil
	}

	step := expert.SlotDurationMinutes
	if step <= 0 {
		step = domain.DefaultSlotDurationMinutes
	}

	breaks := expert.BreaksFor(day.Weekday())

	// Для сегодняшней даты слот должен начинаться не раньше текущей минуты
	earliest := -1
	if sameDay(day, nowLocal) {
		earliest = nowLocal.Hour()*60 + nowLocal.Minute()
		if nowLocal.Second() > 0 || nowLocal.Nanosecond() > 0 {
			earliest++
		}
	}

	seen := make(map[int]struct{})
	starts := make([]int, 0)

	for _, w := range windows {
		winStart, winEnd, err := rangeMinutes(w.Start, w.End)
		if err != nil {
			return nil, err
		}

		for start := winStart; start+durationMinutes <= winEnd; start += step {
			end := start + durationMinutes

			if start < earliest {
				continue
			}
			if overlapsBreak(start, end, breaks) {
				continue
			}
			if overlapsBooked(start, end, booked) {
				continue
			}
			if _, dup := seen[start]; dup {
				continue
			}
			seen[start] = struct{}{}
			starts = append(starts, start)
		}
	}

	sort.Ints(starts)

	slots := make([]domain.Slot, 0, len(starts))
	for _, start := range starts {
		s, err := types.FromMinutes(start)
		if err != nil {
			return nil, err
		}
		e, err := types.FromMinutes(start + durationMinutes)
		if err != nil {
			return nil, err
		}
		slots = append(slots, domain.Slot{Start: s, End: e})
	}

	return slots, nil
}

// ComputeAvailableDates возвращает даты месяца, в которые есть хотя бы один слот.
// bookedByDate индексируется датой в формате domain.DateFormat.
func ComputeAvailableDates(
	expert *domain.Expert,
	year int,
	month time.Month,
	durationMinutes int,
	bookedByDate map[string][]domain.BookedInterval,
	now time.Time,
) ([]time.Time, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	dates := make([]time.Time, 0)

	for day := first; day.Month() == month; day = day.AddDate(0, 0, 1) {
		slots, err := ComputeSlots(expert, day, durationMinutes, bookedByDate[day.Format(domain.DateFormat)], now)
		if err != nil {
			return nil, err
		}
		if len(slots) > 0 {
			dates = append(dates, day)
		}
	}

	return dates, nil
}

// IsOfferedStart проверяет, что start совпадает с началом одного из слотов,
// которые эксперт предлагает на дату без учета существующих бронирований
func IsOfferedStart(expert *domain.Expert, date time.Time, start types.TimeString, durationMinutes int, now time.Time) (bool, error) {
	slots, err := ComputeSlots(expert, date, durationMinutes, nil, now)
	if err != nil {
		return false, err
	}
	for _, s := range slots {
		if s.Start == start {
			return true, nil
		}
	}
	return false, nil
}

// SessionBounds возвращает абсолютные моменты начала и конца сессии
// в часовом поясе эксперта
func SessionBounds(expert *domain.Expert, date time.Time, start types.TimeString, durationMinutes int) (time.Time, time.Time, error) {
	loc, err := expert.Location()
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %v", ErrInvalidTimezone, err)
	}
	startsAt, err := start.On(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return startsAt, startsAt.Add(time.Duration(durationMinutes) * time.Minute), nil
}

// CalendarDate отбрасывает время и часовой пояс, оставляя дату в UTC
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ValidateWindow проверяет, что start < end. Окна через полночь не поддерживаются.
func ValidateWindow(start, end types.TimeString) error {
	_, _, err := rangeMinutes(start, end)
	return err
}

func rangeMinutes(start, end types.TimeString) (int, int, error) {
	s, e := start.Minutes(), end.Minutes()
	if s < 0 || e < 0 {
		return 0, 0, fmt.Errorf("%w: %q-%q", ErrInvalidWindow, start, end)
	}
	if e <= s {
		return 0, 0, fmt.Errorf("%w: end %s must be after start %s", ErrInvalidWindow, end, start)
	}
	return s, e, nil
}

func overlapsBreak(start, end int, breaks []domain.BreakTime) bool {
	for _, b := range breaks {
		bs, be := b.Start.Minutes(), b.End.Minutes()
		if bs < 0 || be < 0 {
			continue
		}
		if domain.Overlaps(start, end, bs, be) {
			return true
		}
	}
	return false
}

func overlapsBooked(start, end int, booked []domain.BookedInterval) bool {
	for _, b := range booked {
		bs := b.Start.Minutes()
		if bs < 0 {
			continue
		}
		if domain.Overlaps(start, end, bs, bs+b.DurationMinutes) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
