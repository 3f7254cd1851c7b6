package usecase

import (
	"context"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	contributordto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/contributor"
)

type ReputationUsecase interface {
	Recompute(ctx context.Context, contributorID string) (int64, error)
	RecomputeAll(ctx context.Context) (*contributordto.RecomputeReport, error)
}

type DefaultReputationUsecase struct {
	consensus
}

func NewDefaultReputationUsecase(deps Dependencies) *DefaultReputationUsecase {
	return &DefaultReputationUsecase{consensus: newConsensus(deps)}
}

// Recompute derives the contributor's score from their history and stores it.
func (uc *DefaultReputationUsecase) Recompute(ctx context.Context, contributorID string) (int64, error) {
	score, _, err := uc.recompute(ctx, contributorID)
	return score, err
}

func (uc *DefaultReputationUsecase) RecomputeAll(ctx context.Context) (*contributordto.RecomputeReport, error) {
	ids, err := uc.store.Repositories().Contributors().ListContributorIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &contributordto.RecomputeReport{}
	for _, id := range ids {
		_, adjusted, err := uc.recompute(ctx, id)
		if err != nil {
			return report, err
		}
		report.Checked++
		if adjusted {
			report.Adjusted++
		}
	}
	uc.logger.Info("reputation recomputed", "checked", report.Checked, "adjusted", report.Adjusted)
	return report, nil
}

func (uc *DefaultReputationUsecase) recompute(ctx context.Context, contributorID string) (int64, bool, error) {
	var (
		score    int64
		previous int64
	)
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		// Lock first so a concurrent award cannot land between the
		// history count and the write.
		contributor, err := repos.Contributors().GetContributorForUpdate(ctx, contributorID)
		if err != nil {
			return err
		}
		history, err := repos.Contributors().GetContributionHistory(ctx, contributorID)
		if err != nil {
			return err
		}

		previous = contributor.ReputationScore
		score = domain.ReputationFromHistory(*history)
		if score == previous {
			return nil
		}
		return repos.Contributors().SetReputation(ctx, contributorID, score)
	})
	if err != nil {
		return 0, false, err
	}

	adjusted := score != previous
	if adjusted {
		uc.logger.Warn("reputation adjusted", "contributor_id", contributorID, "from", previous, "to", score)
	}
	return score, adjusted, nil
}
