package kafka

import (
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
)

// ConsensusEvent is the JSON payload written to the event topics.
type ConsensusEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	EntryID       string    `json:"entry_id"`
	SuggestionID  string    `json:"suggestion_id,omitempty"`
	ContributorID string    `json:"contributor_id,omitempty"`
	MerchantID    string    `json:"merchant_id,omitempty"`
	OldStatus     string    `json:"old_status,omitempty"`
	NewStatus     string    `json:"new_status,omitempty"`
	Rate          float64   `json:"rate,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func toWireEvent(event domain.ConsensusEvent) ConsensusEvent {
	return ConsensusEvent{
		EventID:       event.ID,
		EventType:     string(event.Type),
		EntryID:       event.EntryID,
		SuggestionID:  event.SuggestionID,
		ContributorID: event.ContributorID,
		MerchantID:    event.MerchantID,
		OldStatus:     event.OldStatus,
		NewStatus:     event.NewStatus,
		Rate:          event.Rate,
		OccurredAt:    event.OccurredAt,
	}
}
