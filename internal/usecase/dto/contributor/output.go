package contributordto

import "github.com/LavaJover/shvark-cashback-service/internal/domain"

type Profile struct {
	Contributor         *domain.Contributor
	TotalEntries        int64
	TotalComments       int64
	AcceptedSuggestions int64
}

type RecomputeReport struct {
	Checked  int
	Adjusted int
}
