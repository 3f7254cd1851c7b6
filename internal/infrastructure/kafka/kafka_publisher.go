package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	nanoid "github.com/jaevor/go-nanoid"
	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DefaultKafkaPublisher routes entry events and suggestion events to their
// own topics, keyed by entry id so one entry's events stay ordered.
type DefaultKafkaPublisher struct {
	writer          messageWriter
	entryTopic      string
	suggestionTopic string
	newEventID      func() string
}

var (
	_ domain.PublisherPort  = (*DefaultKafkaPublisher)(nil)
	_ domain.EventPublisher = (*DefaultKafkaPublisher)(nil)
)

func NewDefaultKafkaPublisher(cfg config.KafkaService) (*DefaultKafkaPublisher, error) {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers()...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return newKafkaPublisher(writer, cfg.EntryTopic, cfg.SuggestionTopic)
}

func newKafkaPublisher(writer messageWriter, entryTopic, suggestionTopic string) (*DefaultKafkaPublisher, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to init event id generator: %w", err)
	}
	return &DefaultKafkaPublisher{
		writer:          writer,
		entryTopic:      entryTopic,
		suggestionTopic: suggestionTopic,
		newEventID:      idGenerator,
	}, nil
}

func (k *DefaultKafkaPublisher) Publish(ctx context.Context, topic string, msgs ...domain.Message) error {
	km := make([]kafka.Message, 0, len(msgs))
	now := time.Now()
	for _, m := range msgs {
		km = append(km, kafka.Message{
			Topic: topic,
			Key:   m.Key,
			Value: m.Value,
			Time:  now,
		})
	}
	if err := k.writer.WriteMessages(ctx, km...); err != nil {
		return fmt.Errorf("failed to write %d messages to %s: %w", len(km), topic, err)
	}
	return nil
}

func (k *DefaultKafkaPublisher) PublishConsensusEvent(ctx context.Context, event domain.ConsensusEvent) error {
	if event.ID == "" {
		event.ID = k.newEventID()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	v, err := json.Marshal(toWireEvent(event))
	if err != nil {
		return err
	}
	return k.Publish(ctx, k.topicFor(event.Type), domain.Message{Key: []byte(event.EntryID), Value: v})
}

func (k *DefaultKafkaPublisher) topicFor(eventType domain.EventType) string {
	switch eventType {
	case domain.EventSuggestionCreated, domain.EventSuggestionAccepted:
		return k.suggestionTopic
	default:
		return k.entryTopic
	}
}

func (k *DefaultKafkaPublisher) Close() error {
	return k.writer.Close()
}
