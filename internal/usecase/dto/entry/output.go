package entrydto

import "github.com/LavaJover/shvark-cashback-service/internal/domain"

type CreateEntryOutput struct {
	Entry           *domain.CashbackEntry
	Merchant        *domain.Merchant
	MerchantCreated bool
}

type EntryView struct {
	Entry    *domain.CashbackEntry
	Merchant *domain.Merchant
	// ViewerVote is nil when there is no viewer or they have not voted.
	ViewerVote *domain.VoteType
}

type CommentInput struct {
	EntryID       string
	ContributorID string
	Content       string
}
