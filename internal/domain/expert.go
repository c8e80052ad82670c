package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// TimeRange wall-clock interval [Start, End) within a day
type TimeRange struct {
	Start types.TimeString
	End   types.TimeString
}

// BreakTime recurring exclusion from availability.
// An empty Weekdays list means the break applies every day.
type BreakTime struct {
	Start    types.TimeString
	End      types.TimeString
	Weekdays []time.Weekday
}

// AppliesTo returns true if the break is active on the weekday
func (b BreakTime) AppliesTo(day time.Weekday) bool {
	if len(b.Weekdays) == 0 {
		return true
	}
	for _, d := range b.Weekdays {
		if d == day {
			return true
		}
	}
	return false
}

// WeeklyAvailability maps a weekday to its ordered availability windows
type WeeklyAvailability map[time.Weekday][]TimeRange

// ExpertStats running statistics maintained by session lifecycle side effects
type ExpertStats struct {
	TotalSessions     int
	CompletedSessions int
	CancelledSessions int
	TotalEarnings     float64
	Rating            float64 // 0-5, mean of ReviewCount ratings
	ReviewCount       int
}

// Expert represents a consultant that can be booked.
// ID is the account ID of the expert.
type Expert struct {
	ID                  int64
	DisplayName         string
	HourlyRate          float64
	Currency            string
	Timezone            string
	SlotDurationMinutes int
	Availability        WeeklyAvailability
	BreakTimes          []BreakTime
	IsApproved          bool
	IsAcceptingClients  bool
	Stats               ExpertStats
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// IsBookable returns true if clients may book the expert
func (e *Expert) IsBookable() bool {
	return e.IsApproved && e.IsAcceptingClients
}

// WindowsFor returns availability windows for the weekday
func (e *Expert) WindowsFor(day time.Weekday) []TimeRange {
	if e.Availability == nil {
		return nil
	}
	return e.Availability[day]
}

// BreaksFor returns break rules active on the weekday
func (e *Expert) BreaksFor(day time.Weekday) []BreakTime {
	var result []BreakTime
	for _, b := range e.BreakTimes {
		if b.AppliesTo(day) {
			result = append(result, b)
		}
	}
	return result
}

// Location returns the expert's time zone, UTC if not set
func (e *Expert) Location() (*time.Location, error) {
	if e.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(e.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", e.Timezone, err)
	}
	return loc, nil
}

// ExpertSchedule editable part of the expert profile
type ExpertSchedule struct {
	ExpertID            int64
	Timezone            string
	SlotDurationMinutes int
	Availability        WeeklyAvailability
	BreakTimes          []BreakTime
}

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ParseWeekday parses a weekday name (Sunday..Saturday, case-insensitive)
func ParseWeekday(name string) (time.Weekday, error) {
	day, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: unknown weekday %q", ErrValidation, name)
	}
	return day, nil
}

// WeekdayName returns the lowercase weekday name used in the API
func WeekdayName(day time.Weekday) string {
	return strings.ToLower(day.String())
}
