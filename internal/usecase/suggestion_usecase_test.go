package usecase

import (
	"sync"
	"testing"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/ratelimit"
	suggestiondto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/suggestion"
	votedto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/vote"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) propose(entryID, contributorID string, rate float64) *suggestiondto.ProposalResult {
	f.t.Helper()
	res, err := f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: entryID, ContributorID: contributorID, ProposedRate: rate})
	require.NoError(f.t, err)
	return res
}

func TestProposeRateCreatesPendingSuggestion(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice")
	e := f.createEntry("author", "CROMA RETAIL", 2)

	res := f.propose(e.ID, "alice", 5)
	require.NotNil(t, res.Suggestion)
	assert.False(t, res.Consolidated)
	assert.False(t, res.Accepted)
	assert.Len(t, res.Suggestion.ID, 21)
	assert.Equal(t, domain.SuggestionPending, res.Suggestion.Status)
	assert.Zero(t, res.Suggestion.Upvotes)
	assert.Equal(t, "alice", res.Suggestion.AuthorID)

	require.Len(t, f.publisher.ofType(domain.EventSuggestionCreated), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SuggestionsProposedTotal.WithLabelValues("created")))
}

func TestProposeRateDeduplicates(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice", "bob", "carol")
	e := f.createEntry("author", "DMART READY", 1)

	first := f.propose(e.ID, "alice", 3)

	_, err := f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: e.ID, ContributorID: "alice", ProposedRate: 3})
	require.ErrorIs(t, err, domain.ErrDuplicateContribution)
	assert.Contains(t, err.Error(), "already suggested this rate")

	second := f.propose(e.ID, "bob", 3)
	assert.True(t, second.Consolidated)
	assert.Equal(t, first.Suggestion.ID, second.Suggestion.ID)
	assert.Equal(t, int64(1), second.Suggestion.Upvotes)

	_, err = f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: e.ID, ContributorID: "bob", ProposedRate: 3})
	require.ErrorIs(t, err, domain.ErrDuplicateContribution)
	assert.Contains(t, err.Error(), "already supported this suggestion")

	// A downvote is still a prior vote.
	f.voteSuggestion(first.Suggestion.ID, "carol", domain.VoteDown)
	_, err = f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: e.ID, ContributorID: "carol", ProposedRate: 3})
	require.ErrorIs(t, err, domain.ErrDuplicateContribution)

	_, err = f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: e.ID, ContributorID: "alice", ProposedRate: 4})
	require.ErrorIs(t, err, domain.ErrDuplicateContribution)
	assert.Contains(t, err.Error(), "pending suggestion for this entry")

	pending, err := f.suggestions.ListPendingSuggestions(f.ctx, e.ID, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, int64(0), pending[0].Score)
	require.NotNil(t, pending[0].ViewerVote)
	assert.Equal(t, domain.VoteUp, *pending[0].ViewerVote)
}

func TestProposeRateValidation(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author")
	e := f.createEntry("author", "RELIANCE TRENDS", 1)

	_, err := f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: e.ID, ContributorID: "author", ProposedRate: 120})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: "missing", ContributorID: "author", ProposedRate: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: e.ID, ContributorID: "ghost", ProposedRate: 2})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProposeRateIsThrottled(t *testing.T) {
	f := newFixture(t, ratelimit.NewInMemoryLimiter(time.Minute), config.RateLimits{SuggestionsPerWindow: 1})
	f.sync("author", "alice")
	a := f.createEntry("author", "TANISHQ", 1)
	b := f.createEntry("author", "TITAN EYE", 1)

	f.propose(a.ID, "alice", 2)
	_, err := f.suggestions.ProposeRate(f.ctx, &suggestiondto.ProposeRateInput{EntryID: b.ID, ContributorID: "alice", ProposedRate: 2})
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestSuggestionAcceptance(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice", "late")
	e := f.createEntry("author", "AJIO ONLINE", 2)
	s := f.propose(e.ID, "alice", 7).Suggestion
	voters := f.voters(5)

	for _, v := range voters[:4] {
		res := f.voteSuggestion(s.ID, v, domain.VoteUp)
		assert.False(t, res.Accepted)
		assert.Equal(t, domain.SuggestionPending, res.Status)
	}
	assert.Equal(t, 2.0, f.entry(e.ID).CashbackRate)

	res := f.voteSuggestion(s.ID, voters[4], domain.VoteUp)
	assert.True(t, res.Accepted)
	assert.Equal(t, domain.SuggestionAccepted, res.Status)
	assert.Equal(t, int64(5), res.Score)

	stored := f.entry(e.ID)
	assert.Equal(t, 7.0, stored.CashbackRate)
	assert.NotNil(t, stored.LastVerifiedAt)
	assert.Equal(t, domain.EntryPending, stored.Status)
	assert.Equal(t, domain.AcceptedSuggestionReputationPoints, f.reputationOf("alice"))

	accepted := f.publisher.ofType(domain.EventSuggestionAccepted)
	require.Len(t, accepted, 1)
	assert.Equal(t, s.ID, accepted[0].SuggestionID)
	assert.Equal(t, 7.0, accepted[0].Rate)

	_, err := f.suggestions.CastSuggestionVote(f.ctx, &votedto.CastVoteInput{SubjectID: s.ID, ContributorID: "late", VoteType: "up"})
	require.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, domain.AcceptedSuggestionReputationPoints, f.reputationOf("alice"))
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SuggestionsAcceptedTotal))

	pending, err := f.suggestions.ListPendingSuggestions(f.ctx, e.ID, "")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// The rate slot is free again once the suggestion left pending.
	again := f.propose(e.ID, "late", 7)
	assert.False(t, again.Consolidated)
	assert.NotEqual(t, s.ID, again.Suggestion.ID)
}

func TestSuggestionAcceptedThroughConsolidation(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice", "bob")
	e := f.createEntry("author", "PVR CINEMAS", 1)
	s := f.propose(e.ID, "alice", 10).Suggestion
	for _, v := range f.voters(4) {
		f.voteSuggestion(s.ID, v, domain.VoteUp)
	}

	res := f.propose(e.ID, "bob", 10)
	assert.True(t, res.Consolidated)
	assert.True(t, res.Accepted)
	assert.Equal(t, domain.SuggestionAccepted, res.Suggestion.Status)
	assert.Equal(t, 10.0, f.entry(e.ID).CashbackRate)
	assert.Equal(t, domain.AcceptedSuggestionReputationPoints, f.reputationOf("alice"))
	assert.Zero(t, f.reputationOf("bob"))
	assert.Len(t, f.publisher.ofType(domain.EventSuggestionAccepted), 1)
}

func TestSuggestionAcceptedWhenDownvoteIsRetracted(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice", "critic")
	e := f.createEntry("author", "BOOKMYSHOW", 1)
	s := f.propose(e.ID, "alice", 4).Suggestion

	f.voteSuggestion(s.ID, "critic", domain.VoteDown)
	for _, v := range f.voters(5) {
		res := f.voteSuggestion(s.ID, v, domain.VoteUp)
		assert.False(t, res.Accepted)
	}

	res := f.voteSuggestion(s.ID, "critic", domain.VoteDown)
	assert.Nil(t, res.UserVote)
	assert.True(t, res.Accepted)
	assert.Equal(t, 4.0, f.entry(e.ID).CashbackRate)
}

func TestCastSuggestionVotePreconditionOrder(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice", "bob")
	e := f.createEntry("author", "LENSKART", 1)
	pending := f.propose(e.ID, "alice", 2).Suggestion
	accepted := f.propose(e.ID, "bob", 3).Suggestion
	for _, v := range f.voters(5) {
		f.voteSuggestion(accepted.ID, v, domain.VoteUp)
	}

	_, err := f.suggestions.CastSuggestionVote(f.ctx, &votedto.CastVoteInput{SubjectID: "missing", ContributorID: "bob", VoteType: "bogus"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.suggestions.CastSuggestionVote(f.ctx, &votedto.CastVoteInput{SubjectID: accepted.ID, ContributorID: "bob", VoteType: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = f.suggestions.CastSuggestionVote(f.ctx, &votedto.CastVoteInput{SubjectID: pending.ID, ContributorID: "bob", VoteType: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReconcileSuggestionAcceptsOnRecount(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice")
	e := f.createEntry("author", "HAMLEYS", 1)
	s := f.propose(e.ID, "alice", 6).Suggestion
	for _, v := range f.voters(4) {
		f.voteSuggestion(s.ID, v, domain.VoteUp)
	}

	// A vote row that never reached the counters.
	f.sync("voter-5")
	require.NoError(t, f.store.Repositories().SuggestionVotes().InsertVote(f.ctx, s.ID, "voter-5", domain.VoteUp))

	report, err := f.suggestions.ReconcilePending(f.ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Checked)
	assert.Equal(t, 1, report.Repaired)

	got, err := f.suggestions.ReconcileSuggestion(f.ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SuggestionAccepted, got.Status)
	assert.Equal(t, int64(5), got.Upvotes)
	assert.Equal(t, 6.0, f.entry(e.ID).CashbackRate)
	assert.Equal(t, domain.AcceptedSuggestionReputationPoints, f.reputationOf("alice"))
}

func TestProposeRateMatchesFractionalRatesExactly(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice", "bob", "carol", "dave")
	e := f.createEntry("author", "SWIGGY INSTAMART", 1)

	first := f.propose(e.ID, "alice", 3.333)
	same := f.propose(e.ID, "bob", 3.333)
	assert.True(t, same.Consolidated)
	assert.Equal(t, first.Suggestion.ID, same.Suggestion.ID)
	assert.Equal(t, int64(1), same.Suggestion.Upvotes)

	below := f.propose(e.ID, "carol", 3.331)
	above := f.propose(e.ID, "dave", 3.334)
	assert.False(t, below.Consolidated)
	assert.False(t, above.Consolidated)
	assert.NotEqual(t, below.Suggestion.ID, above.Suggestion.ID)

	pending, err := f.suggestions.ListPendingSuggestions(f.ctx, e.ID, "")
	require.NoError(t, err)
	require.Len(t, pending, 3)
	rates := map[float64]bool{}
	for _, p := range pending {
		rates[p.Suggestion.ProposedRate] = true
	}
	assert.Equal(t, map[float64]bool{3.331: true, 3.333: true, 3.334: true}, rates)
}

func TestConcurrentSuggestionVotesAcceptOnce(t *testing.T) {
	f := newTestFixture(t)
	f.sync("author", "alice")
	e := f.createEntry("author", "ZEPTO", 1)
	s := f.propose(e.ID, "alice", 6.5).Suggestion
	voters := f.voters(12)

	type outcome struct {
		res *votedto.SuggestionVoteResult
		err error
	}
	results := make(chan outcome, len(voters))
	var wg sync.WaitGroup
	for _, v := range voters {
		wg.Add(1)
		go func(voter string) {
			defer wg.Done()
			res, err := f.suggestions.CastSuggestionVote(f.ctx, &votedto.CastVoteInput{SubjectID: s.ID, ContributorID: voter, VoteType: "up"})
			results <- outcome{res, err}
		}(v)
	}
	wg.Wait()
	close(results)

	var accepted, counted, rejected int
	for o := range results {
		if o.err != nil {
			require.ErrorIs(t, o.err, domain.ErrInvalidState)
			rejected++
			continue
		}
		counted++
		if o.res.Accepted {
			accepted++
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, domain.AcceptanceNetScore, counted)
	assert.Equal(t, len(voters)-domain.AcceptanceNetScore, rejected)

	assert.Equal(t, domain.AcceptedSuggestionReputationPoints, f.reputationOf("alice"))
	assert.Equal(t, 6.5, f.entry(e.ID).CashbackRate)
	assert.Len(t, f.publisher.ofType(domain.EventSuggestionAccepted), 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.SuggestionsAcceptedTotal))
}
