package get_available_dates

import "time"

// Request модель запроса доступных дат месяца
type Request struct {
	ExpertID        int64
	Year            int
	Month           time.Month
	DurationMinutes int // 0 - минимальная допустимая длительность
}

// Response даты месяца, в которые есть хотя бы один свободный слот
type Response struct {
	ExpertID        int64
	Month           string // YYYY-MM
	DurationMinutes int
	Dates           []time.Time
}
