package suggestiondto

import "github.com/LavaJover/shvark-cashback-service/internal/domain"

// ProposalResult is either a new suggestion or, when Consolidated is set, the
// existing suggestion for the same rate that received the caller's upvote.
type ProposalResult struct {
	Suggestion   *domain.RateSuggestion
	Consolidated bool
	Accepted     bool
}

type SuggestionView struct {
	Suggestion *domain.RateSuggestion
	Score      int64
	ViewerVote *domain.VoteType
}
