package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentityDefaultDisplayName(t *testing.T) {
	assert.Equal(t, "Jane", Identity{Email: "jane@example.com", DisplayName: "Jane"}.DefaultDisplayName())
	assert.Equal(t, "jane.doe", Identity{Email: "jane.doe@example.com"}.DefaultDisplayName())
	assert.Equal(t, "jane", Identity{Email: "jane@example.com", DisplayName: "  "}.DefaultDisplayName())
}

func TestReputationFromHistory(t *testing.T) {
	h := ContributionHistory{Entries: 2, Comments: 3, AcceptedSuggestions: 1}
	assert.Equal(t, int64(2*50+3*10+20), ReputationFromHistory(h))
	assert.Zero(t, ReputationFromHistory(ContributionHistory{}))
}

func TestSuggestionReadyForAcceptance(t *testing.T) {
	s := &RateSuggestion{Status: SuggestionPending, Upvotes: 5}
	assert.True(t, s.ReadyForAcceptance())

	s.Downvotes = 1
	assert.False(t, s.ReadyForAcceptance())

	s = &RateSuggestion{Status: SuggestionAccepted, Upvotes: 9}
	assert.False(t, s.ReadyForAcceptance(), "accepted suggestions never re-qualify")
}
