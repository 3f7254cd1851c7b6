package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextEntryStatus(t *testing.T) {
	tests := []struct {
		name  string
		from  EntryStatus
		tally Tally
		ok    bool
		want  EntryTransition
	}{
		{"pending below threshold", EntryPending, Tally{Up: 4}, false, EntryTransition{}},
		{"pending verifies at five", EntryPending, Tally{Up: 5}, true, EntryTransition{To: EntryVerified, StampVerified: true}},
		{"pending with a downvote stays", EntryPending, Tally{Up: 9, Down: 1}, false, EntryTransition{}},
		{"verified disputed by one downvote", EntryVerified, Tally{Up: 7, Down: 1}, true, EntryTransition{To: EntryDisputed}},
		{"verified stays verified", EntryVerified, Tally{Up: 6}, false, EntryTransition{}},
		{"verified with upvotes retracted stays", EntryVerified, Tally{Up: 2}, false, EntryTransition{}},
		{"disputed re-verifies", EntryDisputed, Tally{Up: 5}, true, EntryTransition{To: EntryVerified, StampVerified: true}},
		{"disputed stays while downvoted", EntryDisputed, Tally{Up: 8, Down: 1}, false, EntryTransition{}},
		{"disputed never returns to pending", EntryDisputed, Tally{}, false, EntryTransition{}},
		{"rejected ignores upvotes", EntryRejected, Tally{Up: 10}, false, EntryTransition{}},
		{"rejected ignores downvotes", EntryRejected, Tally{Down: 10}, false, EntryTransition{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NextEntryStatus(tt.from, tt.tally)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateCondition(t *testing.T) {
	assert.Equal(t, ConditionNone, EvaluateCondition(Tally{Up: 4}))
	assert.Equal(t, ConditionVerifiable, EvaluateCondition(Tally{Up: 5}))
	assert.Equal(t, ConditionDownvoted, EvaluateCondition(Tally{Up: 5, Down: 1}))
}
