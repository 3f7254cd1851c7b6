package domain

import (
	"context"
	"time"
)

type SuggestionStatus string

const (
	SuggestionPending  SuggestionStatus = "pending"
	SuggestionAccepted SuggestionStatus = "accepted"
	SuggestionRejected SuggestionStatus = "rejected"
)

// AcceptanceNetScore is the net support at which a suggestion replaces the
// entry's rate.
const AcceptanceNetScore = 5

type RateSuggestion struct {
	ID           string
	EntryID      string
	AuthorID     string
	ProposedRate float64
	Reason       string
	Status       SuggestionStatus
	Upvotes      int64
	Downvotes    int64
	CreatedAt    time.Time
}

func (s *RateSuggestion) Tally() Tally {
	return Tally{Up: s.Upvotes, Down: s.Downvotes}
}

func (s *RateSuggestion) Score() int64 {
	return s.Upvotes - s.Downvotes
}

// ReadyForAcceptance is the acceptance rule; it only ever holds for a
// pending suggestion so acceptance fires once.
func (s *RateSuggestion) ReadyForAcceptance() bool {
	return s.Status == SuggestionPending && s.Score() >= AcceptanceNetScore
}

type SuggestionRepository interface {
	CreateSuggestion(ctx context.Context, suggestion *RateSuggestion) error
	GetSuggestionByID(ctx context.Context, suggestionID string) (*RateSuggestion, error)
	GetSuggestionForUpdate(ctx context.Context, suggestionID string) (*RateSuggestion, error)
	FindPendingByRate(ctx context.Context, entryID string, rate float64) (*RateSuggestion, error)
	FindPendingByAuthor(ctx context.Context, entryID, authorID string) (*RateSuggestion, error)
	ListPendingByEntryID(ctx context.Context, entryID string) ([]*RateSuggestion, error)
	ListPendingIDs(ctx context.Context) ([]string, error)
	UpdateVoteState(ctx context.Context, suggestion *RateSuggestion) error
	MarkAccepted(ctx context.Context, suggestionID string) error
}
