package usecase

import (
	"context"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	entrydto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/entry"
	merchantdto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/merchant"
	"github.com/google/uuid"
)

type EntryUsecase interface {
	CreateEntry(ctx context.Context, input *entrydto.CreateEntryInput) (*entrydto.CreateEntryOutput, error)
	GetEntry(ctx context.Context, entryID, viewerID string) (*entrydto.EntryView, error)
	ListEntries(ctx context.Context, filter domain.EntryFilter, viewerID string) ([]*entrydto.EntryView, error)
	GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error)
}

type DefaultEntryUsecase struct {
	consensus
}

func NewDefaultEntryUsecase(deps Dependencies) *DefaultEntryUsecase {
	return &DefaultEntryUsecase{consensus: newConsensus(deps)}
}

// CreateEntry records a contribution: merchant resolution, the pending entry
// and the contributor's reputation credit commit together or not at all.
func (uc *DefaultEntryUsecase) CreateEntry(ctx context.Context, input *entrydto.CreateEntryInput) (*entrydto.CreateEntryOutput, error) {
	if err := requireID("contributor id", input.ContributorID); err != nil {
		return nil, err
	}
	if err := requireID("card id", input.CardID); err != nil {
		return nil, err
	}
	if err := requireID("statement name", input.StatementName); err != nil {
		return nil, err
	}
	if err := domain.ValidateCashbackRate(input.CashbackRate); err != nil {
		return nil, err
	}
	if err := uc.throttle(ctx, "entry", input.ContributorID, uc.limits.EntriesPerWindow); err != nil {
		return nil, err
	}

	var out *entrydto.CreateEntryOutput
	var resolution merchantdto.Resolution
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Cards().GetCardByID(ctx, input.CardID); err != nil {
			return err
		}
		if err := requireContributor(ctx, repos, input.ContributorID); err != nil {
			return err
		}

		resolved, err := resolveMerchant(ctx, repos.Merchants(), &merchantdto.ResolveMerchantInput{
			StatementText: input.StatementName,
			CanonicalName: input.MerchantName,
			Category:      input.Category,
			MCC:           input.MCC,
		}, uc.now)
		if err != nil {
			return err
		}

		now := uc.now()
		entry := &domain.CashbackEntry{
			ID:              uuid.New().String(),
			CardID:          input.CardID,
			MerchantID:      resolved.Merchant.ID,
			ContributorID:   input.ContributorID,
			StatementName:   input.StatementName,
			CashbackRate:    input.CashbackRate,
			MCC:             input.MCC,
			Notes:           input.Notes,
			TransactionDate: input.TransactionDate,
			Status:          domain.EntryPending,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repos.Entries().CreateEntry(ctx, entry); err != nil {
			return err
		}
		if err := repos.Contributors().AddReputation(ctx, input.ContributorID, domain.EntryReputationPoints); err != nil {
			return err
		}

		resolution = resolved.Resolution
		out = &entrydto.CreateEntryOutput{
			Entry:           entry,
			Merchant:        resolved.Merchant,
			MerchantCreated: resolved.Created,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordMerchantResolved(string(resolution))
	uc.metrics.RecordEntryCreated()
	uc.metrics.RecordReputation("entry", domain.EntryReputationPoints)
	uc.logger.Info("entry created",
		"entry_id", out.Entry.ID,
		"merchant_id", out.Merchant.ID,
		"contributor_id", input.ContributorID,
		"merchant_created", out.MerchantCreated,
	)
	uc.publish(ctx, domain.ConsensusEvent{
		Type:          domain.EventEntryCreated,
		EntryID:       out.Entry.ID,
		ContributorID: input.ContributorID,
		MerchantID:    out.Merchant.ID,
		NewStatus:     string(out.Entry.Status),
		Rate:          out.Entry.CashbackRate,
	})
	return out, nil
}

func (uc *DefaultEntryUsecase) GetEntry(ctx context.Context, entryID, viewerID string) (*entrydto.EntryView, error) {
	repos := uc.store.Repositories()
	entry, err := repos.Entries().GetEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	merchant, err := repos.Merchants().GetMerchantByID(ctx, entry.MerchantID)
	if err != nil {
		return nil, err
	}

	view := &entrydto.EntryView{Entry: entry, Merchant: merchant}
	if viewerID != "" {
		vote, err := repos.EntryVotes().GetVote(ctx, entryID, viewerID)
		if err != nil {
			return nil, err
		}
		view.ViewerVote = vote
	}
	return view, nil
}

// ListEntries returns one page of the feed with each entry's merchant and,
// when viewerID is set, the viewer's vote.
func (uc *DefaultEntryUsecase) ListEntries(ctx context.Context, filter domain.EntryFilter, viewerID string) ([]*entrydto.EntryView, error) {
	if err := filter.Normalize(); err != nil {
		return nil, err
	}
	repos := uc.store.Repositories()
	entries, err := repos.Entries().ListEntries(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return []*entrydto.EntryView{}, nil
	}

	entryIDs := make([]string, len(entries))
	merchantIDs := make([]string, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, e := range entries {
		entryIDs[i] = e.ID
		if !seen[e.MerchantID] {
			seen[e.MerchantID] = true
			merchantIDs = append(merchantIDs, e.MerchantID)
		}
	}
	merchants, err := repos.Merchants().GetMerchantsByIDs(ctx, merchantIDs)
	if err != nil {
		return nil, err
	}

	votes := map[string]domain.VoteType{}
	if viewerID != "" {
		votes, err = repos.EntryVotes().GetVotesByVoter(ctx, viewerID, entryIDs)
		if err != nil {
			return nil, err
		}
	}

	views := make([]*entrydto.EntryView, len(entries))
	for i, e := range entries {
		view := &entrydto.EntryView{Entry: e, Merchant: merchants[e.MerchantID]}
		if v, ok := votes[e.ID]; ok {
			view.ViewerVote = &v
		}
		views[i] = view
	}
	return views, nil
}

func (uc *DefaultEntryUsecase) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	return uc.store.Repositories().Entries().GetDashboardStats(ctx)
}
