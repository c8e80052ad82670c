package domain

import "github.com/m04kA/SMC-ConsultationService/pkg/types"

// Slot represents a bookable [Start, End) interval
type Slot struct {
	Start types.TimeString
	End   types.TimeString
}

// DurationMinutes returns the slot length in minutes
func (s Slot) DurationMinutes() int {
	return s.End.Minutes() - s.Start.Minutes()
}

// BookedInterval interval already taken by an active session
type BookedInterval struct {
	Start           types.TimeString
	DurationMinutes int
}

// EndMinutes returns the end of the interval in minutes from midnight
func (b BookedInterval) EndMinutes() int {
	return b.Start.Minutes() + b.DurationMinutes
}

// Overlaps checks half-open intersection of [aStart, aEnd) and [bStart, bEnd), all in minutes
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && bStart < aEnd
}
