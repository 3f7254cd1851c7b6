package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/repository"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/storetest"
	entrydto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/entry"
	votedto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/vote"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ConsensusEvent
}

func (p *recordingPublisher) PublishConsensusEvent(_ context.Context, event domain.ConsensusEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) ofType(t domain.EventType) []domain.ConsensusEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []domain.ConsensusEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *repository.Store
	publisher *recordingPublisher
	metrics   *metrics.ConsensusMetrics

	contributors *DefaultContributorUsecase
	merchants    *DefaultMerchantUsecase
	entries      *DefaultEntryUsecase
	votes        *DefaultVoteUsecase
	suggestions  *DefaultSuggestionUsecase
	reputation   *DefaultReputationUsecase
	comments     *DefaultCommentUsecase
}

func newFixture(t *testing.T, limiter domain.ContributionLimiter, limits config.RateLimits) *fixture {
	t.Helper()

	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		store:     repository.NewStore(storetest.NewDB(t), repository.WithRetryBackoff(time.Millisecond)),
		publisher: &recordingPublisher{},
		metrics:   metrics.NewConsensusMetrics(prometheus.NewRegistry()),
	}
	deps := Dependencies{
		Store:     f.store,
		Publisher: f.publisher,
		Limiter:   limiter,
		Limits:    limits,
		Metrics:   f.metrics,
	}

	var err error
	f.contributors = NewDefaultContributorUsecase(deps)
	f.merchants = NewDefaultMerchantUsecase(deps)
	f.entries = NewDefaultEntryUsecase(deps)
	f.votes = NewDefaultVoteUsecase(deps)
	f.suggestions, err = NewDefaultSuggestionUsecase(deps)
	require.NoError(t, err)
	f.reputation = NewDefaultReputationUsecase(deps)
	f.comments = NewDefaultCommentUsecase(deps)

	require.NoError(t, f.store.Repositories().Cards().CreateCard(f.ctx, &domain.Card{
		ID:              "card-1",
		Slug:            "sbi-cashback",
		Name:            "SBI Cashback",
		Issuer:          "SBI",
		Network:         "visa",
		MaxCashbackRate: 5,
		Active:          true,
	}))
	return f
}

func newTestFixture(t *testing.T) *fixture {
	return newFixture(t, nil, config.RateLimits{})
}

func (f *fixture) sync(ids ...string) {
	f.t.Helper()
	for _, id := range ids {
		_, err := f.contributors.SyncContributor(f.ctx, domain.Identity{ID: id, Email: id + "@example.com"})
		require.NoError(f.t, err)
	}
}

func (f *fixture) voters(n int) []string {
	f.t.Helper()
	ids := make([]string, n)
	for i := range ids {
		ids[i] = fmt.Sprintf("voter-%d", i+1)
	}
	f.sync(ids...)
	return ids
}

func (f *fixture) createEntry(contributorID, statement string, rate float64) *domain.CashbackEntry {
	f.t.Helper()
	out, err := f.entries.CreateEntry(f.ctx, &entrydto.CreateEntryInput{
		CardID:        "card-1",
		ContributorID: contributorID,
		StatementName: statement,
		CashbackRate:  rate,
	})
	require.NoError(f.t, err)
	return out.Entry
}

func (f *fixture) voteEntry(entryID, voterID string, vote domain.VoteType) *votedto.EntryVoteResult {
	f.t.Helper()
	res, err := f.votes.CastEntryVote(f.ctx, &votedto.CastVoteInput{SubjectID: entryID, ContributorID: voterID, VoteType: string(vote)})
	require.NoError(f.t, err)
	return res
}

func (f *fixture) voteSuggestion(suggestionID, voterID string, vote domain.VoteType) *votedto.SuggestionVoteResult {
	f.t.Helper()
	res, err := f.suggestions.CastSuggestionVote(f.ctx, &votedto.CastVoteInput{SubjectID: suggestionID, ContributorID: voterID, VoteType: string(vote)})
	require.NoError(f.t, err)
	return res
}

func (f *fixture) entry(id string) *domain.CashbackEntry {
	f.t.Helper()
	e, err := f.store.Repositories().Entries().GetEntryByID(f.ctx, id)
	require.NoError(f.t, err)
	return e
}

func (f *fixture) reputationOf(id string) int64 {
	f.t.Helper()
	c, err := f.store.Repositories().Contributors().GetContributorByID(f.ctx, id)
	require.NoError(f.t, err)
	return c.ReputationScore
}
