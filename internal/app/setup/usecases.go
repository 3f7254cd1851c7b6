package setup

import (
	"fmt"

	"github.com/LavaJover/shvark-cashback-service/internal/usecase"
)

type UseCases struct {
	ContributorUsecase usecase.ContributorUsecase
	MerchantUsecase    usecase.MerchantUsecase
	EntryUsecase       usecase.EntryUsecase
	VoteUsecase        usecase.VoteUsecase
	SuggestionUsecase  usecase.SuggestionUsecase
	ReputationUsecase  usecase.ReputationUsecase
	CommentUsecase     usecase.CommentUsecase
}

func InitializeUseCases(deps *Dependencies) (*UseCases, error) {
	ucDeps := usecase.Dependencies{
		Store:   deps.Store,
		Limiter: deps.Limiter,
		Limits:  deps.Config.RateLimits,
		Metrics: deps.Metrics,
		Logger:  deps.Logger,
	}
	if deps.Publisher != nil {
		ucDeps.Publisher = deps.Publisher
	}

	suggestionUsecase, err := usecase.NewDefaultSuggestionUsecase(ucDeps)
	if err != nil {
		return nil, fmt.Errorf("suggestion usecase: %w", err)
	}

	return &UseCases{
		ContributorUsecase: usecase.NewDefaultContributorUsecase(ucDeps),
		MerchantUsecase:    usecase.NewDefaultMerchantUsecase(ucDeps),
		EntryUsecase:       usecase.NewDefaultEntryUsecase(ucDeps),
		VoteUsecase:        usecase.NewDefaultVoteUsecase(ucDeps),
		SuggestionUsecase:  suggestionUsecase,
		ReputationUsecase:  usecase.NewDefaultReputationUsecase(ucDeps),
		CommentUsecase:     usecase.NewDefaultCommentUsecase(ucDeps),
	}, nil
}
