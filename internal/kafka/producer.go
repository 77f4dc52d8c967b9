package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes CloudEvents to Kafka topics. One writer is shared across
// topics; the topic is set per message.
type Producer struct {
	writer *kafkago.Writer
	logger *zap.Logger
}

// NewProducer creates a Kafka producer for the given brokers.
func NewProducer(brokers []string, logger *zap.Logger) *Producer {
	writer := &kafkago.Writer{
		Addr:         kafkago.TCP(brokers...),
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
	}
	return &Producer{writer: writer, logger: logger}
}

// PublishEvent publishes a CloudEvent keyed by the owning entity's ID. The
// hash balancer routes equal keys to the same partition, so one entity's
// events are delivered in publish order.
func (p *Producer) PublishEvent(ctx context.Context, topic, key string, event CloudEvent) error {
	return p.Publish(ctx, topic, key, event)
}

// Publish marshals the value and writes it to the topic under the given key.
func (p *Producer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	msg, err := buildMessage(topic, key, value)
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to write message to %s: %w", topic, err)
	}

	p.logger.Debug("published message",
		zap.String("topic", topic),
		zap.String("key", key),
	)
	return nil
}

// Close closes the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

func buildMessage(topic, key string, value interface{}) (kafkago.Message, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("failed to marshal message: %w", err)
	}
	return kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: raw,
	}, nil
}
