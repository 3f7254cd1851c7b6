package domain

// Thresholds of the entry verification rule.
const (
	VerifyUpvoteThreshold = 5
)

// EntryCondition is what the counters say after a vote.
type EntryCondition string

const (
	ConditionNone       EntryCondition = "none"
	ConditionVerifiable EntryCondition = "verifiable"
	ConditionDownvoted  EntryCondition = "downvoted"
)

type entryTransitionKey struct {
	from EntryStatus
	cond EntryCondition
}

type EntryTransition struct {
	To EntryStatus
	// StampVerified sets last_verified_at to now.
	StampVerified bool
}

// EntryTransitions lists every automatic status change. Anything missing
// leaves the status unchanged: there is no way back from disputed to pending,
// and rejected is moderation-only.
var EntryTransitions = map[entryTransitionKey]EntryTransition{
	{EntryPending, ConditionVerifiable}:  {To: EntryVerified, StampVerified: true},
	{EntryDisputed, ConditionVerifiable}: {To: EntryVerified, StampVerified: true},
	{EntryVerified, ConditionDownvoted}:  {To: EntryDisputed},
}

// EvaluateCondition classifies the counters. Verifiable wins over downvoted
// since it requires zero downvotes.
func EvaluateCondition(t Tally) EntryCondition {
	switch {
	case t.Up >= VerifyUpvoteThreshold && t.Down == 0:
		return ConditionVerifiable
	case t.Down > 0:
		return ConditionDownvoted
	default:
		return ConditionNone
	}
}

// NextEntryStatus looks up the transition for the current status and the
// counters. ok is false when the status stays as it is.
func NextEntryStatus(from EntryStatus, t Tally) (EntryTransition, bool) {
	tr, ok := EntryTransitions[entryTransitionKey{from: from, cond: EvaluateCondition(t)}]
	return tr, ok
}
