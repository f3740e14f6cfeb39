package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/pkg/logctx"
)

// amqpChannel is the part of *amqp.Channel the dispatcher uses.
type amqpChannel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// RabbitMQDispatcher publishes e-mail/SMS messages to a durable queue on the default exchange.
type RabbitMQDispatcher struct {
	conn  *amqp.Connection
	queue string
	log   *zap.SugaredLogger

	// amqp channels are not safe for concurrent publishing
	mu sync.Mutex
	ch amqpChannel
}

func NewRabbitMQDispatcher(url, queue string, log *zap.SugaredLogger) (*RabbitMQDispatcher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	d := newRabbitMQDispatcher(ch, queue, log)
	d.conn = conn
	return d, nil
}

func newRabbitMQDispatcher(ch amqpChannel, queue string, log *zap.SugaredLogger) *RabbitMQDispatcher {
	return &RabbitMQDispatcher{ch: ch, queue: queue, log: log}
}

func (d *RabbitMQDispatcher) Deliver(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	pub := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		MessageId:    msg.NotificationID,
		Timestamp:    msg.OccurredAt,
		Headers: amqp.Table{
			"payment_id": msg.PaymentID,
			"channel":    string(msg.Channel),
			"trigger":    string(msg.Trigger),
		},
	}
	d.mu.Lock()
	err = d.ch.Publish("", d.queue, false, false, pub)
	d.mu.Unlock()
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	logctx.FromCtx(ctx, d.log).Debugw("notification_published", "queue", d.queue, "notification_id", msg.NotificationID)
	return nil
}

func (d *RabbitMQDispatcher) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	var firstErr error
	if d.ch != nil {
		firstErr = d.ch.Close()
	}
	if d.conn != nil {
		if err := d.conn.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
