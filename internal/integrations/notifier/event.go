package notifier

import (
	"time"

	"github.com/google/uuid"
)

// Channel канал доставки
type Channel string

const (
	ChannelInApp Channel = "notification"
	ChannelEmail Channel = "email"
)

// EventType тип уведомления
type EventType string

const (
	EventBookingRequested    EventType = "booking_requested"
	EventBookingConfirmation EventType = "booking_confirmation"
	EventSessionConfirmed    EventType = "session_confirmed"
	EventPaymentFailed       EventType = "payment_failed"
	EventRateSession         EventType = "rate_session"
	EventSessionCancelled    EventType = "session_cancelled"
	EventSessionRefunded     EventType = "session_refunded"
	EventReviewReceived      EventType = "review_received"
	EventSessionReminder     EventType = "session_reminder"
)

// Event исходящее уведомление. ID позволяет получателю отбрасывать дубликаты.
type Event struct {
	ID          uuid.UUID              `json:"id"`
	Type        EventType              `json:"type"`
	Channel     Channel                `json:"channel"`
	RecipientID int64                  `json:"recipientId"`
	SessionID   int64                  `json:"sessionId"`
	Payload     map[string]interface{} `json:"payload,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
}

// NewEvent создает событие с новым ID
func NewEvent(eventType EventType, channel Channel, recipientID, sessionID int64, payload map[string]interface{}) Event {
	return Event{
		ID:          uuid.New(),
		Type:        eventType,
		Channel:     channel,
		RecipientID: recipientID,
		SessionID:   sessionID,
		Payload:     payload,
		CreatedAt:   time.Now().UTC(),
	}
}

// RoutingKey ключ маршрутизации в topic exchange: channel.type
func (e Event) RoutingKey() string {
	return string(e.Channel) + "." + string(e.Type)
}
