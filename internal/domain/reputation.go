package domain

// Reputation points per contribution kind.
const (
	EntryReputationPoints              int64 = 50
	CommentReputationPoints            int64 = 10
	AcceptedSuggestionReputationPoints int64 = 20
)

// ReputationFromHistory is the score a contributor should hold given their
// full contribution history. Incremental credits must always add up to it.
func ReputationFromHistory(h ContributionHistory) int64 {
	return h.Entries*EntryReputationPoints +
		h.Comments*CommentReputationPoints +
		h.AcceptedSuggestions*AcceptedSuggestionReputationPoints
}
