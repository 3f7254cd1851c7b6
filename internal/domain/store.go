package domain

import "context"

// Repositories is a set of repositories bound to one transaction.
type Repositories interface {
	Contributors() ContributorRepository
	Cards() CardRepository
	Merchants() MerchantRepository
	Entries() EntryRepository
	EntryVotes() BallotBox
	Suggestions() SuggestionRepository
	SuggestionVotes() BallotBox
	Comments() CommentRepository
}

// Transactor runs fn atomically. fn may be invoked more than once when a
// concurrent writer on the same subject forces a retry, so it must not have
// side effects outside the repositories it is given.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, repos Repositories) error) error
	Repositories() Repositories
}

// ContributionLimiter throttles write-heavy operations per contributor.
type ContributionLimiter interface {
	Allow(ctx context.Context, key string, limit int) (bool, error)
}
