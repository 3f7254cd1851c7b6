package votedto

type CastVoteInput struct {
	SubjectID     string
	ContributorID string
	VoteType      string
}
