package votedto

import (
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
)

type EntryVoteResult struct {
	EntryID        string
	Upvotes        int64
	Downvotes      int64
	Status         domain.EntryStatus
	LastVerifiedAt *time.Time
	// UserVote is nil after a toggle-off.
	UserVote *domain.VoteType
}

type SuggestionVoteResult struct {
	SuggestionID string
	Upvotes      int64
	Downvotes    int64
	Score        int64
	Status       domain.SuggestionStatus
	Accepted     bool
	UserVote     *domain.VoteType
}

type ReconcileReport struct {
	Checked  int
	Repaired int
}
