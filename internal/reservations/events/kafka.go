package events

import (
	"context"
	"fmt"

	"tablebot/pkg/kafka"
	kafka_config "tablebot/pkg/kafka/config"
	kafka_middleware "tablebot/pkg/kafka/middleware"
	"tablebot/pkg/logger"
)

type kafkaPublisher struct {
	producer *kafka.Producer
	source   string
}

// NewKafkaPublisher publishes events to topic as JSON, keyed by customer.
func NewKafkaPublisher(cfg *kafka_config.Config, topic, source string, log *logger.Logger) (Publisher, error) {
	producer, err := kafka.NewProducer(cfg, topic, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka producer: %w", err)
	}
	if cfg.EnableMiddleware {
		producer.Use(kafka_middleware.LoggingProducerMiddleware(log))
	}
	return NewProducerPublisher(producer, source), nil
}

func NewProducerPublisher(producer *kafka.Producer, source string) Publisher {
	return &kafkaPublisher{producer: producer, source: source}
}

func (p *kafkaPublisher) Publish(ctx context.Context, event Event) error {
	builder := kafka.NewMessage().
		WithKey(event.Key).
		WithEventType(event.Type).
		WithSchemaVersion(SchemaVersion).
		WithSource(p.source).
		WithCorrelationID(event.CorrelationID).
		WithValue(event.Payload)
	if !event.OccurredAt.IsZero() {
		builder = builder.WithTimestamp(event.OccurredAt)
	}

	msg, err := builder.Build()
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Type, err)
	}
	return p.producer.Publish(ctx, msg)
}

func (p *kafkaPublisher) Close() error {
	return p.producer.Close()
}
