package usecase

import (
	"context"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	contributordto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/contributor"
)

type ContributorUsecase interface {
	SyncContributor(ctx context.Context, identity domain.Identity) (*domain.Contributor, error)
	GetProfile(ctx context.Context, contributorID string) (*contributordto.Profile, error)
}

type DefaultContributorUsecase struct {
	consensus
}

func NewDefaultContributorUsecase(deps Dependencies) *DefaultContributorUsecase {
	return &DefaultContributorUsecase{consensus: newConsensus(deps)}
}

// SyncContributor creates the contributor on first contact and otherwise
// returns the stored record unchanged.
func (uc *DefaultContributorUsecase) SyncContributor(ctx context.Context, identity domain.Identity) (*domain.Contributor, error) {
	if err := requireID("contributor id", identity.ID); err != nil {
		return nil, err
	}

	var contributor *domain.Contributor
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		err := repos.Contributors().CreateContributorIfAbsent(ctx, &domain.Contributor{
			ID:          identity.ID,
			Email:       identity.Email,
			DisplayName: identity.DefaultDisplayName(),
			Role:        domain.RoleUser,
			CreatedAt:   uc.now(),
		})
		if err != nil {
			return err
		}
		contributor, err = repos.Contributors().GetContributorByID(ctx, identity.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return contributor, nil
}

func (uc *DefaultContributorUsecase) GetProfile(ctx context.Context, contributorID string) (*contributordto.Profile, error) {
	repo := uc.store.Repositories().Contributors()
	contributor, err := repo.GetContributorByID(ctx, contributorID)
	if err != nil {
		return nil, err
	}
	history, err := repo.GetContributionHistory(ctx, contributorID)
	if err != nil {
		return nil, err
	}
	return &contributordto.Profile{
		Contributor:         contributor,
		TotalEntries:        history.Entries,
		TotalComments:       history.Comments,
		AcceptedSuggestions: history.AcceptedSuggestions,
	}, nil
}
