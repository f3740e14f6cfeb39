package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/fatflowers/paygate/pkg/logctx"
)

// KafkaDispatcher publishes e-mail/SMS messages to a topic consumed by the delivery gateways.
// Messages are keyed by payment id so one payment's events stay ordered.
type KafkaDispatcher struct {
	producer sarama.SyncProducer
	topic    string
	log      *zap.SugaredLogger
}

func NewKafkaDispatcher(brokers []string, topic string, log *zap.SugaredLogger) (*KafkaDispatcher, error) {
	cfg := sarama.NewConfig()
	cfg.Producer.Return.Successes = true
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Retry.Max = 5
	cfg.Producer.Idempotent = true
	cfg.Net.MaxOpenRequests = 1

	producer, err := sarama.NewSyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	return NewKafkaDispatcherWithProducer(producer, topic, log), nil
}

func NewKafkaDispatcherWithProducer(producer sarama.SyncProducer, topic string, log *zap.SugaredLogger) *KafkaDispatcher {
	return &KafkaDispatcher{producer: producer, topic: topic, log: log}
}

func (d *KafkaDispatcher) Deliver(ctx context.Context, msg *Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}
	partition, offset, err := d.producer.SendMessage(&sarama.ProducerMessage{
		Topic: d.topic,
		Key:   sarama.StringEncoder(msg.PaymentID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("channel"), Value: []byte(msg.Channel)},
			{Key: []byte("trigger"), Value: []byte(msg.Trigger)},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send notification to kafka: %w", err)
	}
	logctx.FromCtx(ctx, d.log).Debugw("notification_published", "topic", d.topic, "partition", partition, "offset", offset)
	return nil
}

func (d *KafkaDispatcher) Close() error {
	return d.producer.Close()
}
