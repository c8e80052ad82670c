package domain

// Допустимые значения длительности и шага слотов (минуты)
var (
	AllowedSessionDurations = []int{30, 60, 90, 120}
	AllowedSlotDurations    = []int{15, 30, 60}
)

// Default values
const (
	DefaultSlotDurationMinutes    = 30
	DefaultPlatformCommissionRate = 0.20
	DefaultTimezone               = "UTC"
)

// Business validation constants
const (
	MinRating                   = 1
	MaxRating                   = 5
	MaxReviewLength             = 2000
	MaxCancellationReasonLength = 500
	MaxWindowsPerDay            = 12
	MaxBreakTimes               = 20
)

// Time format constants
const (
	TimeFormat  = "15:04"      // HH:MM
	DateFormat  = "2006-01-02" // YYYY-MM-DD
	MonthFormat = "2006-01"    // YYYY-MM
)

// ActiveStatuses статусы, которые занимают слот эксперта.
// Те же статусы перечислены в условии частичного уникального индекса sessions_active_slot_uidx.
var ActiveStatuses = []SessionStatus{
	StatusPending,
	StatusConfirmed,
}

// TerminalStatuses статусы, из которых нет переходов
var TerminalStatuses = []SessionStatus{
	StatusCompleted,
	StatusCancelled,
	StatusRefunded,
}

// IsAllowedSessionDuration проверяет длительность сессии
func IsAllowedSessionDuration(minutes int) bool {
	return containsInt(AllowedSessionDurations, minutes)
}

// IsAllowedSlotDuration проверяет шаг сетки слотов
func IsAllowedSlotDuration(minutes int) bool {
	return containsInt(AllowedSlotDurations, minutes)
}

func containsInt(values []int, v int) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}
