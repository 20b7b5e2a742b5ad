package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/events"
	"github.com/AasthaThakker/DhanRaksha-sub001/pkg/kafka"
)

// envelope is the wire format for published domain events. The payload
// carries the concrete event's exported fields.
type envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
}

// KafkaPublisher implements port.EventPublisher over the shared Kafka
// producer. Events are routed to topics by their event type; unmapped
// types go to the default topic.
type KafkaPublisher struct {
	producer     *kafka.Producer
	topicByType  map[string]string
	defaultTopic string
	logger       *slog.Logger
}

// NewKafkaPublisher creates a publisher. topicByType maps event types to
// topics; events with no mapping are published to defaultTopic.
func NewKafkaPublisher(producer *kafka.Producer, topicByType map[string]string, defaultTopic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer:     producer,
		topicByType:  topicByType,
		defaultTopic: defaultTopic,
		logger:       logger,
	}
}

// Publish serializes and publishes the given domain events. Events are
// keyed by aggregate ID so per-aggregate ordering is preserved within a
// partition.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	byTopic := make(map[string][]kafka.Message)

	for _, evt := range evts {
		payload, err := json.Marshal(evt)
		if err != nil {
			return fmt.Errorf("failed to marshal event %s: %w", evt.EventType(), err)
		}

		body, err := json.Marshal(envelope{
			EventID:       evt.EventID().String(),
			EventType:     evt.EventType(),
			AggregateID:   evt.AggregateID().String(),
			AggregateType: evt.AggregateType(),
			OccurredAt:    evt.OccurredAt(),
			Payload:       payload,
		})
		if err != nil {
			return fmt.Errorf("failed to marshal envelope for %s: %w", evt.EventType(), err)
		}

		topic := p.topicByType[evt.EventType()]
		if topic == "" {
			topic = p.defaultTopic
		}

		byTopic[topic] = append(byTopic[topic], kafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: body,
			Headers: map[string]string{
				"event_type": evt.EventType(),
			},
		})
	}

	for topic, msgs := range byTopic {
		if err := p.producer.Publish(ctx, topic, msgs...); err != nil {
			return fmt.Errorf("failed to publish to %s: %w", topic, err)
		}
		p.logger.Debug("published domain events",
			slog.String("topic", topic),
			slog.Int("count", len(msgs)),
		)
	}

	return nil
}
