package event

import (
	"context"
	"fmt"
	"time"

	"github.com/jpashop/backend/internal/domain/shared"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Header names set on every Kafka message
const (
	HeaderEventType     = "event_type"
	HeaderAggregateType = "aggregate_type"
)

// MessageWriter is the subset of *kafka.Writer used by KafkaEventPublisher
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaEventPublisher forwards domain events to a Kafka topic. It subscribes
// to the in-memory bus as a wildcard handler. Messages are keyed by aggregate
// ID so that the events of one order stay in one partition.
type KafkaEventPublisher struct {
	writer     MessageWriter
	serializer *EventSerializer
	logger     *zap.Logger
}

// NewKafkaWriter creates a writer for topic on brokers
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// NewKafkaEventPublisher creates a publisher that writes through writer
func NewKafkaEventPublisher(writer MessageWriter, serializer *EventSerializer, logger *zap.Logger) *KafkaEventPublisher {
	return &KafkaEventPublisher{
		writer:     writer,
		serializer: serializer,
		logger:     logger,
	}
}

// Publish writes events as one batch
func (p *KafkaEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		value, err := p.serializer.Serialize(event)
		if err != nil {
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(event.AggregateID().String()),
			Value: value,
			Time:  event.OccurredAt(),
			Headers: []kafka.Header{
				{Key: HeaderEventType, Value: []byte(event.EventType())},
				{Key: HeaderAggregateType, Value: []byte(event.AggregateType())},
			},
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write %d events to kafka: %w", len(msgs), err)
	}

	p.logger.Debug("Events written to kafka", zap.Int("count", len(msgs)))
	return nil
}

// Handle publishes a single event received from the bus
func (p *KafkaEventPublisher) Handle(ctx context.Context, event shared.DomainEvent) error {
	return p.Publish(ctx, event)
}

// EventTypes returns nil so the publisher receives every event
func (p *KafkaEventPublisher) EventTypes() []string {
	return nil
}

// Close flushes pending messages and closes the writer
func (p *KafkaEventPublisher) Close() error {
	return p.writer.Close()
}

var (
	_ shared.EventPublisher = (*KafkaEventPublisher)(nil)
	_ shared.EventHandler   = (*KafkaEventPublisher)(nil)
)
