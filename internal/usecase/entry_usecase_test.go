package usecase

import (
	"testing"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/ratelimit"
	entrydto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/entry"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateEntry(t *testing.T) {
	f := newTestFixture(t)
	f.sync("alice")

	out, err := f.entries.CreateEntry(f.ctx, &entrydto.CreateEntryInput{
		CardID:        "card-1",
		ContributorID: "alice",
		StatementName: "SWIGGY BANGALORE",
		MerchantName:  "Swiggy",
		Category:      "food",
		MCC:           "5812",
		CashbackRate:  10,
		Notes:         "weekend order",
	})
	require.NoError(t, err)

	assert.True(t, out.MerchantCreated)
	assert.Equal(t, "Swiggy", out.Merchant.CanonicalName)
	assert.Equal(t, domain.EntryPending, out.Entry.Status)
	assert.Zero(t, out.Entry.UpvoteCount)
	assert.Zero(t, out.Entry.DownvoteCount)
	assert.Nil(t, out.Entry.LastVerifiedAt)
	assert.Equal(t, domain.EntryReputationPoints, f.reputationOf("alice"))

	view, err := f.entries.GetEntry(f.ctx, out.Entry.ID, "alice")
	require.NoError(t, err)
	assert.Equal(t, 10.0, view.Entry.CashbackRate)
	assert.Equal(t, out.Merchant.ID, view.Merchant.ID)
	assert.Nil(t, view.ViewerVote)

	created := f.publisher.ofType(domain.EventEntryCreated)
	require.Len(t, created, 1)
	assert.Equal(t, out.Entry.ID, created[0].EntryID)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.EntriesCreatedTotal))
}

func TestCreateEntrySecondStatementReusesMerchant(t *testing.T) {
	f := newTestFixture(t)
	f.sync("alice", "bob")

	a, err := f.entries.CreateEntry(f.ctx, &entrydto.CreateEntryInput{CardID: "card-1", ContributorID: "alice", StatementName: "AMAZON PAY INDIA", MerchantName: "Amazon", CashbackRate: 5})
	require.NoError(t, err)
	b, err := f.entries.CreateEntry(f.ctx, &entrydto.CreateEntryInput{CardID: "card-1", ContributorID: "bob", StatementName: "AMAZON PAY INDIA", CashbackRate: 2})
	require.NoError(t, err)

	assert.Equal(t, a.Merchant.ID, b.Merchant.ID)
	assert.False(t, b.MerchantCreated)
	assert.NotEqual(t, a.Entry.ID, b.Entry.ID)
}

func TestCreateEntryFailuresLeaveNothingBehind(t *testing.T) {
	f := newTestFixture(t)
	f.sync("alice")

	tests := []struct {
		name  string
		input entrydto.CreateEntryInput
		kind  error
	}{
		{"unknown card", entrydto.CreateEntryInput{CardID: "nope", StatementName: "GOOD NAME", CashbackRate: 1}, domain.ErrNotFound},
		{"missing statement", entrydto.CreateEntryInput{CardID: "card-1", CashbackRate: 1}, domain.ErrInvalidInput},
		{"rate above range", entrydto.CreateEntryInput{CardID: "card-1", StatementName: "GOOD NAME", CashbackRate: 100.5}, domain.ErrInvalidInput},
		{"negative rate", entrydto.CreateEntryInput{CardID: "card-1", StatementName: "GOOD NAME", CashbackRate: -1}, domain.ErrInvalidInput},
		{"junk merchant name", entrydto.CreateEntryInput{CardID: "card-1", StatementName: "GOOD NAME", MerchantName: "$$$", CashbackRate: 1}, domain.ErrInvalidInput},
		{"unknown contributor", entrydto.CreateEntryInput{CardID: "card-1", StatementName: "GOOD NAME", CashbackRate: 1, ContributorID: "ghost"}, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			if input.ContributorID == "" {
				input.ContributorID = "alice"
			}
			_, err := f.entries.CreateEntry(f.ctx, &input)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	m, err := f.store.Repositories().Merchants().GetMerchantByAlias(f.ctx, "GOOD NAME")
	require.NoError(t, err)
	assert.Nil(t, m)
	ids, err := f.store.Repositories().Entries().ListEntryIDs(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
	assert.Zero(t, f.reputationOf("alice"))
}

func TestCreateEntryIsThrottled(t *testing.T) {
	f := newFixture(t, ratelimit.NewInMemoryLimiter(time.Minute), config.RateLimits{EntriesPerWindow: 2})
	f.sync("alice", "bob")

	f.createEntry("alice", "SHOP ONE", 1)
	f.createEntry("alice", "SHOP TWO", 1)
	_, err := f.entries.CreateEntry(f.ctx, &entrydto.CreateEntryInput{CardID: "card-1", ContributorID: "alice", StatementName: "SHOP THREE", CashbackRate: 1})
	require.ErrorIs(t, err, domain.ErrRateLimited)

	f.createEntry("bob", "SHOP THREE", 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.ContributionsThrottledTotal.WithLabelValues("entry")))
}

func TestGetEntryNotFound(t *testing.T) {
	f := newTestFixture(t)
	_, err := f.entries.GetEntry(f.ctx, "missing", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
