package payments

import (
	"context"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	prefetchCount  = 10
	handleTimeout  = 30 * time.Second
	consumerTag    = "consultation-service"
	exchangeKind   = "topic"
	dialTimeoutSec = 10
)

// Consumer читает события платежей из очереди RabbitMQ
type Consumer struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	logger  Logger
}

// NewConsumer подключается к брокеру
func NewConsumer(url string, logger Logger) (*Consumer, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{Dial: amqp.DefaultDial(dialTimeoutSec * time.Second)})
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}

	if err := channel.Qos(prefetchCount, 0, false); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("amqp qos: %w", err)
	}

	return &Consumer{conn: conn, channel: channel, logger: logger}, nil
}

// Consume объявляет exchange и durable очередь, привязывает ключи и обрабатывает
// сообщения до отмены ctx или закрытия канала брокером
func (c *Consumer) Consume(ctx context.Context, exchange, queue string, handler *Handler) error {
	if err := c.channel.ExchangeDeclare(exchange, exchangeKind, true, false, false, false, nil); err != nil {
		return fmt.Errorf("amqp declare exchange %s: %w", exchange, err)
	}

	q, err := c.channel.QueueDeclare(queue, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp declare queue %s: %w", queue, err)
	}

	for _, key := range RoutingKeys {
		if err := c.channel.QueueBind(q.Name, key, exchange, false, nil); err != nil {
			return fmt.Errorf("amqp bind %s to %s: %w", key, q.Name, err)
		}
	}

	deliveries, err := c.channel.ConsumeWithContext(ctx, q.Name, consumerTag, false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("amqp consume %s: %w", q.Name, err)
	}

	c.logger.Info("Payments: consuming queue %s from exchange %s", q.Name, exchange)

	for {
		select {
		case <-ctx.Done():
			return nil
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("amqp deliveries channel closed")
			}

			handleCtx, cancel := context.WithTimeout(ctx, handleTimeout)
			ack := handler.Handle(handleCtx, d.RoutingKey, d.Body)
			cancel()

			if ack {
				err = d.Ack(false)
			} else {
				err = d.Nack(false, true)
			}
			if err != nil {
				c.logger.Error("Payments: failed to settle delivery %d: %v", d.DeliveryTag, err)
			}
		}
	}
}

// Close закрывает канал и соединение
func (c *Consumer) Close() error {
	if c.channel != nil {
		_ = c.channel.Close()
	}
	return c.conn.Close()
}
