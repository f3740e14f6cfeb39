package notification

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fatflowers/paygate/pkg/config"
	"github.com/fatflowers/paygate/pkg/logctx"
	"github.com/fatflowers/paygate/pkg/types"
)

// Message is the payload handed to a delivery channel.
type Message struct {
	NotificationID string                    `json:"notificationId"`
	PaymentID      string                    `json:"paymentId"`
	Channel        types.NotificationType    `json:"channel"`
	Trigger        types.NotificationTrigger `json:"trigger"`
	Text           string                    `json:"message"`
	Status         types.PaymentStatus       `json:"status"`
	PaymentMethod  types.PaymentMethod       `json:"paymentMethod"`
	Amount         string                    `json:"amount"`
	Currency       string                    `json:"currency"`
	WebhookURL     string                    `json:"-"`
	OccurredAt     time.Time                 `json:"occurredAt"`
}

// Dispatcher delivers one message on one channel.
type Dispatcher interface {
	Deliver(ctx context.Context, msg *Message) error
}

// LogDispatcher only logs; it stands in for an e-mail/SMS gateway.
type LogDispatcher struct {
	log *zap.SugaredLogger
}

func NewLogDispatcher(log *zap.SugaredLogger) *LogDispatcher {
	return &LogDispatcher{log: log}
}

func (d *LogDispatcher) Deliver(ctx context.Context, msg *Message) error {
	logctx.FromCtx(ctx, d.log).Infow("notification_delivered",
		"channel", msg.Channel, "trigger", msg.Trigger, "payment_id", msg.PaymentID, "message", msg.Text)
	return nil
}

// Router sends WEBHOOK messages to the webhook dispatcher and everything else to the broker.
type Router struct {
	webhook Dispatcher
	broker  Dispatcher
}

func NewRouter(webhook, broker Dispatcher) *Router {
	return &Router{webhook: webhook, broker: broker}
}

func (r *Router) Deliver(ctx context.Context, msg *Message) error {
	if msg.Channel == types.NotificationTypeWebhook {
		if msg.WebhookURL == "" {
			return fmt.Errorf("webhook notification without url")
		}
		return r.webhook.Deliver(ctx, msg)
	}
	return r.broker.Deliver(ctx, msg)
}

// BrokerDispatcher is a Dispatcher that owns a connection.
type BrokerDispatcher interface {
	Dispatcher
	Close() error
}

// NewBroker builds the e-mail/SMS dispatcher selected by notification.broker.
func NewBroker(cfg *config.Config, log *zap.SugaredLogger) (BrokerDispatcher, error) {
	switch cfg.Notification.Broker {
	case config.NotificationBrokerKafka:
		return NewKafkaDispatcher(cfg.Kafka.Brokers, cfg.Kafka.Topic, log)
	case config.NotificationBrokerRabbitMQ:
		return NewRabbitMQDispatcher(cfg.RabbitMQ.URL, cfg.RabbitMQ.Queue, log)
	case config.NotificationBrokerLog, "":
		return nopCloser{NewLogDispatcher(log)}, nil
	default:
		return nil, fmt.Errorf("unsupported notification broker: %s", cfg.Notification.Broker)
	}
}

type nopCloser struct{ Dispatcher }

func (nopCloser) Close() error { return nil }
