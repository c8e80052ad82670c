package experts

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ConsultationService/internal/domain"
	"github.com/m04kA/SMC-ConsultationService/internal/scheduling"
)

// normalizeSchedule проставляет значения по умолчанию, сортирует окна
// и проверяет расписание целиком
func normalizeSchedule(schedule *domain.ExpertSchedule) error {
	if schedule.Timezone == "" {
		schedule.Timezone = domain.DefaultTimezone
	}
	if _, err := time.LoadLocation(schedule.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", ErrInvalidSchedule, schedule.Timezone)
	}

	if schedule.SlotDurationMinutes == 0 {
		schedule.SlotDurationMinutes = domain.DefaultSlotDurationMinutes
	}
	if !domain.IsAllowedSlotDuration(schedule.SlotDurationMinutes) {
		return fmt.Errorf("%w: slotDurationMinutes must be one of %v", ErrInvalidSchedule, domain.AllowedSlotDurations)
	}

	for day, windows := range schedule.Availability {
		if len(windows) > domain.MaxWindowsPerDay {
			return fmt.Errorf("%w: at most %d windows per day, %s has %d",
				ErrInvalidSchedule, domain.MaxWindowsPerDay, domain.WeekdayName(day), len(windows))
		}

		for _, w := range windows {
			if err := scheduling.ValidateWindow(w.Start, w.End); err != nil {
				return fmt.Errorf("%w: %s: %v", ErrInvalidSchedule, domain.WeekdayName(day), err)
			}
		}

		sort.Slice(windows, func(i, j int) bool {
			return windows[i].Start.Minutes() < windows[j].Start.Minutes()
		})
		for i := 1; i < len(windows); i++ {
			if windows[i].Start.Minutes() < windows[i-1].End.Minutes() {
				return fmt.Errorf("%w: %s: window %s-%s overlaps %s-%s", ErrInvalidSchedule, domain.WeekdayName(day),
					windows[i].Start, windows[i].End, windows[i-1].Start, windows[i-1].End)
			}
		}
	}

	if len(schedule.BreakTimes) > domain.MaxBreakTimes {
		return fmt.Errorf("%w: at most %d break times", ErrInvalidSchedule, domain.MaxBreakTimes)
	}
	for _, b := range schedule.BreakTimes {
		if err := scheduling.ValidateWindow(b.Start, b.End); err != nil {
			return fmt.Errorf("%w: break: %v", ErrInvalidSchedule, err)
		}
	}

	return nil
}
