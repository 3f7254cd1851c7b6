package domain

import (
	"context"
	"time"
)

type Message struct {
	Key   []byte
	Value []byte
}

type PublisherPort interface {
	Publish(ctx context.Context, topic string, msgs ...Message) error
}

type EventType string

const (
	EventEntryCreated       EventType = "ENTRY_CREATED"
	EventEntryStatusChanged EventType = "ENTRY_STATUS_CHANGED"
	EventSuggestionCreated  EventType = "SUGGESTION_CREATED"
	EventSuggestionAccepted EventType = "SUGGESTION_ACCEPTED"
)

// ConsensusEvent is emitted after a consensus decision has been committed.
type ConsensusEvent struct {
	ID            string
	Type          EventType
	EntryID       string
	SuggestionID  string
	ContributorID string
	MerchantID    string
	OldStatus     string
	NewStatus     string
	Rate          float64
	OccurredAt    time.Time
}

// EventPublisher delivers committed consensus events. Delivery is best
// effort: the decision is already durable when it is called.
type EventPublisher interface {
	PublishConsensusEvent(ctx context.Context, event ConsensusEvent) error
}
