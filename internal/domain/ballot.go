package domain

import "context"

type VoteType string

const (
	VoteUp   VoteType = "up"
	VoteDown VoteType = "down"
)

func ParseVoteType(s string) (VoteType, error) {
	switch VoteType(s) {
	case VoteUp, VoteDown:
		return VoteType(s), nil
	default:
		return "", InvalidInput("invalid vote type %q, must be 'up' or 'down'", s)
	}
}

// Tally is the pair of aggregate counters kept next to a voted subject.
type Tally struct {
	Up   int64
	Down int64
}

// Net is the support score of the subject.
func (t Tally) Net() int64 {
	return t.Up - t.Down
}

func (t Tally) add(v VoteType, delta int64) Tally {
	if v == VoteUp {
		t.Up += delta
	} else {
		t.Down += delta
	}
	return t
}

type BallotChange int

const (
	// BallotCast records a first vote by the voter.
	BallotCast BallotChange = iota
	// BallotRetracted removes the voter's vote; same type cast twice.
	BallotRetracted
	// BallotSwitched flips the voter's vote in place.
	BallotSwitched
)

// BallotOutcome describes how a single vote changes a subject.
type BallotOutcome struct {
	Change BallotChange
	Tally  Tally
	// Vote is the voter's vote afterwards, nil when retracted.
	Vote *VoteType
}

// Ballot computes the effect of a voter casting incoming on a subject whose
// counters are tally and on which the voter currently holds existing (nil for
// no vote). Shared by entry votes and rate-suggestion votes.
func Ballot(tally Tally, existing *VoteType, incoming VoteType) BallotOutcome {
	switch {
	case existing == nil:
		v := incoming
		return BallotOutcome{Change: BallotCast, Tally: tally.add(incoming, 1), Vote: &v}
	case *existing == incoming:
		return BallotOutcome{Change: BallotRetracted, Tally: tally.add(incoming, -1)}
	default:
		v := incoming
		return BallotOutcome{
			Change: BallotSwitched,
			Tally:  tally.add(*existing, -1).add(incoming, 1),
			Vote:   &v,
		}
	}
}

// BallotBox stores at most one vote per (subject, voter).
type BallotBox interface {
	GetVote(ctx context.Context, subjectID, voterID string) (*VoteType, error)
	InsertVote(ctx context.Context, subjectID, voterID string, vote VoteType) error
	UpdateVote(ctx context.Context, subjectID, voterID string, vote VoteType) error
	DeleteVote(ctx context.Context, subjectID, voterID string) error
	CountVotes(ctx context.Context, subjectID string) (Tally, error)
	GetVotesByVoter(ctx context.Context, voterID string, subjectIDs []string) (map[string]VoteType, error)
}
