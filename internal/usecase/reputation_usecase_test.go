package usecase

import (
	"context"
	"testing"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	entrydto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/entry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecomputeMatchesIncrementalCredits(t *testing.T) {
	f := newTestFixture(t)
	f.sync("alice", "bob")

	a := f.createEntry("alice", "SHOPPERS STOP", 2)
	f.createEntry("alice", "WESTSIDE", 3)
	_, err := f.comments.AddComment(f.ctx, &entrydto.CommentInput{EntryID: a.ID, ContributorID: "alice", Content: "works on weekends too"})
	require.NoError(t, err)

	s := f.propose(a.ID, "alice", 5).Suggestion
	for _, v := range f.voters(5) {
		f.voteSuggestion(s.ID, v, domain.VoteUp)
	}

	incremental := f.reputationOf("alice")
	assert.Equal(t, int64(2*50+10+20), incremental)

	score, err := f.reputation.Recompute(f.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, incremental, score)
	assert.Equal(t, incremental, f.reputationOf("alice"))

	score, err = f.reputation.Recompute(f.ctx, "bob")
	require.NoError(t, err)
	assert.Zero(t, score)
}

func TestRecomputeAllRepairsDrift(t *testing.T) {
	f := newTestFixture(t)
	f.sync("alice", "bob")
	f.createEntry("alice", "MAX FASHION", 2)
	f.createEntry("bob", "PANTALOONS", 2)

	require.NoError(t, f.store.Repositories().Contributors().SetReputation(f.ctx, "bob", 999))

	report, err := f.reputation.RecomputeAll(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Checked)
	assert.Equal(t, 1, report.Adjusted)
	assert.Equal(t, domain.EntryReputationPoints, f.reputationOf("bob"))
	assert.Equal(t, domain.EntryReputationPoints, f.reputationOf("alice"))
}

func TestRecomputeUnknownContributor(t *testing.T) {
	f := newTestFixture(t)
	_, err := f.reputation.Recompute(f.ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type callLog struct {
	calls []string
}

type loggingTransactor struct {
	domain.Transactor
	log *callLog
}

func (t loggingTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context, repos domain.Repositories) error) error {
	return t.Transactor.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		return fn(ctx, loggingRepositories{Repositories: repos, log: t.log})
	})
}

type loggingRepositories struct {
	domain.Repositories
	log *callLog
}

func (r loggingRepositories) Contributors() domain.ContributorRepository {
	return loggingContributors{ContributorRepository: r.Repositories.Contributors(), log: r.log}
}

type loggingContributors struct {
	domain.ContributorRepository
	log *callLog
}

func (c loggingContributors) GetContributorByID(ctx context.Context, id string) (*domain.Contributor, error) {
	c.log.calls = append(c.log.calls, "read")
	return c.ContributorRepository.GetContributorByID(ctx, id)
}

func (c loggingContributors) GetContributorForUpdate(ctx context.Context, id string) (*domain.Contributor, error) {
	c.log.calls = append(c.log.calls, "lock")
	return c.ContributorRepository.GetContributorForUpdate(ctx, id)
}

func (c loggingContributors) GetContributionHistory(ctx context.Context, id string) (*domain.ContributionHistory, error) {
	c.log.calls = append(c.log.calls, "history")
	return c.ContributorRepository.GetContributionHistory(ctx, id)
}

func (c loggingContributors) SetReputation(ctx context.Context, id string, score int64) error {
	c.log.calls = append(c.log.calls, "set")
	return c.ContributorRepository.SetReputation(ctx, id, score)
}

func TestRecomputeLocksContributorBeforeCounting(t *testing.T) {
	f := newTestFixture(t)
	f.sync("alice")
	f.createEntry("alice", "LIFESTYLE", 4)
	require.NoError(t, f.store.Repositories().Contributors().SetReputation(f.ctx, "alice", 7))

	log := &callLog{}
	uc := NewDefaultReputationUsecase(Dependencies{
		Store:   loggingTransactor{Transactor: f.store, log: log},
		Metrics: f.metrics,
	})

	score, err := uc.Recompute(f.ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, domain.EntryReputationPoints, score)
	assert.Equal(t, []string{"lock", "history", "set"}, log.calls)
}
