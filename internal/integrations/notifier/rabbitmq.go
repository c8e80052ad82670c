package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AMQPPublisher публикует события в topic exchange RabbitMQ
type AMQPPublisher struct {
	conn     *amqp.Connection
	exchange string

	mu sync.Mutex
	ch *amqp.Channel
}

// NewAMQPPublisher подключается к брокеру и объявляет durable topic exchange
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(10 * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp declare exchange %s: %w", exchange, err)
	}

	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish отправляет событие как persistent JSON сообщение
func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// канал закрывается брокером после ошибки, открываем заново
	if p.ch == nil || p.ch.IsClosed() {
		ch, err := p.conn.Channel()
		if err != nil {
			return fmt.Errorf("amqp reopen channel: %w", err)
		}
		p.ch = ch
	}

	return p.ch.PublishWithContext(ctx, p.exchange, event.RoutingKey(), false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID.String(),
		Timestamp:    event.CreatedAt,
		Type:         string(event.Type),
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.ch != nil {
		_ = p.ch.Close()
	}
	return p.conn.Close()
}

// LoggingPublisher используется без брокера: событие только пишется в лог
type LoggingPublisher struct {
	logger Logger
}

func NewLoggingPublisher(logger Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(_ context.Context, event Event) error {
	p.logger.Info("Notifier: publish skipped (no broker): id=%s, key=%s, recipient=%d, session=%d",
		event.ID, event.RoutingKey(), event.RecipientID, event.SessionID)
	return nil
}

func (p *LoggingPublisher) Close() error {
	return nil
}

// NewPublisher возвращает AMQPPublisher, а при пустом url логирующий fallback
func NewPublisher(url, exchange string, logger Logger) (Publisher, error) {
	if url == "" {
		return NewLoggingPublisher(logger), nil
	}
	return NewAMQPPublisher(url, exchange)
}
