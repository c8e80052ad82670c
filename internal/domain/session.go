package domain

import (
	"time"

	"github.com/m04kA/SMC-ConsultationService/pkg/types"
)

// SessionStatus represents the lifecycle status of a consultation session
type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusConfirmed SessionStatus = "confirmed"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
	StatusRefunded  SessionStatus = "refunded"
)

// IsValid returns true for a known status
func (s SessionStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusRefunded:
		return true
	}
	return false
}

// PaymentStatus represents the payment state of a session
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
	PaymentFailed   PaymentStatus = "failed"
)

// SessionMetadata снимок расчетов на момент бронирования.
// Не пересчитывается при изменении ставки комиссии.
type SessionMetadata struct {
	ExpertCommission   float64
	PlatformCommission float64
	UserCreditsUsed    float64
}

// Session represents a booked consultation between a client and an expert
type Session struct {
	ID       int64
	ClientID int64
	ExpertID int64

	ScheduledDate   time.Time        // календарная дата в часовом поясе эксперта
	ScheduledTime   types.TimeString // начало, HH:MM
	EndTime         types.TimeString // конец, HH:MM
	DurationMinutes int

	// Абсолютные моменты начала и конца, вычисленные в часовом поясе эксперта
	StartsAt time.Time
	EndsAt   time.Time

	Price    float64
	Currency string

	Status        SessionStatus
	PaymentStatus PaymentStatus
	Metadata      SessionMetadata

	Rating     *int
	Review     *string
	ReviewedAt *time.Time

	CancelReason    *string
	CancelledBy     *int64
	CancelledByRole *ActorRole
	CancelledAt     *time.Time

	CompletedAt    *time.Time
	ReminderSentAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the session occupies the expert's slot
func (s *Session) IsActive() bool {
	return s.Status == StatusPending || s.Status == StatusConfirmed
}

// IsTerminal returns true if no further transitions are possible
func (s *Session) IsTerminal() bool {
	return s.Status == StatusCompleted || s.Status == StatusCancelled || s.Status == StatusRefunded
}

// CanBeCancelled returns true if the session can be cancelled
func (s *Session) CanBeCancelled() bool {
	return s.IsActive()
}

// CanBeCompleted returns true if the session can be marked completed
func (s *Session) CanBeCompleted() bool {
	return s.Status == StatusConfirmed
}

// CanBeRated returns true if the session is completed and has no rating yet
func (s *Session) CanBeRated() bool {
	return s.Status == StatusCompleted && s.Rating == nil
}

// HasCapturedPayment returns true if money was actually collected for the session
func (s *Session) HasCapturedPayment() bool {
	return s.PaymentStatus == PaymentPaid
}

// Parties returns the session participants for access checks
func (s *Session) Parties() Parties {
	return Parties{ClientID: s.ClientID, ExpertID: s.ExpertID}
}

// Interval returns the booked interval occupied by the session
func (s *Session) Interval() BookedInterval {
	return BookedInterval{Start: s.ScheduledTime, DurationMinutes: s.DurationMinutes}
}

// SessionsFilter фильтр для списка сессий
type SessionsFilter struct {
	ClientID *int64
	ExpertID *int64
	Status   *SessionStatus
	From     *time.Time // по scheduled_date, включительно
	To       *time.Time // по scheduled_date, включительно
	Limit    int
	Offset   int
}
