package usecase

import (
	"context"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	votedto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/vote"
)

type VoteUsecase interface {
	CastEntryVote(ctx context.Context, input *votedto.CastVoteInput) (*votedto.EntryVoteResult, error)
	ReconcileEntry(ctx context.Context, entryID string) (*domain.CashbackEntry, error)
	ReconcileAll(ctx context.Context) (*votedto.ReconcileReport, error)
}

type DefaultVoteUsecase struct {
	consensus
}

func NewDefaultVoteUsecase(deps Dependencies) *DefaultVoteUsecase {
	return &DefaultVoteUsecase{consensus: newConsensus(deps)}
}

func (uc *DefaultVoteUsecase) CastEntryVote(ctx context.Context, input *votedto.CastVoteInput) (*votedto.EntryVoteResult, error) {
	if err := requireID("contributor id", input.ContributorID); err != nil {
		return nil, err
	}
	vote, err := domain.ParseVoteType(input.VoteType)
	if err != nil {
		return nil, err
	}

	var (
		result     *votedto.EntryVoteResult
		change     domain.BallotChange
		fromStatus domain.EntryStatus
	)
	err = uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		entry, err := repos.Entries().GetEntryForUpdate(ctx, input.SubjectID)
		if err != nil {
			return err
		}
		if err := requireContributor(ctx, repos, input.ContributorID); err != nil {
			return err
		}

		outcome, err := castBallot(ctx, repos.EntryVotes(), entry.ID, input.ContributorID, entry.Tally(), vote)
		if err != nil {
			return err
		}

		fromStatus = entry.Status
		applyTally(entry, outcome.Tally, uc.now())
		if err := repos.Entries().UpdateVoteState(ctx, entry); err != nil {
			return err
		}

		change = outcome.Change
		result = &votedto.EntryVoteResult{
			EntryID:        entry.ID,
			Upvotes:        entry.UpvoteCount,
			Downvotes:      entry.DownvoteCount,
			Status:         entry.Status,
			LastVerifiedAt: entry.LastVerifiedAt,
			UserVote:       outcome.Vote,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordVote("entry", ballotChangeLabel(change), string(vote))
	uc.entryStatusChanged(ctx, result.EntryID, input.ContributorID, fromStatus, result.Status)
	return result, nil
}

// ReconcileEntry recounts the entry's counters from its vote rows and re-runs
// the status machine over them.
func (uc *DefaultVoteUsecase) ReconcileEntry(ctx context.Context, entryID string) (*domain.CashbackEntry, error) {
	entry, _, err := uc.reconcileEntry(ctx, entryID)
	return entry, err
}

func (uc *DefaultVoteUsecase) ReconcileAll(ctx context.Context) (*votedto.ReconcileReport, error) {
	ids, err := uc.store.Repositories().Entries().ListEntryIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &votedto.ReconcileReport{}
	for _, id := range ids {
		_, repaired, err := uc.reconcileEntry(ctx, id)
		if err != nil {
			return report, err
		}
		report.Checked++
		if repaired {
			report.Repaired++
		}
	}
	uc.logger.Info("entries reconciled", "checked", report.Checked, "repaired", report.Repaired)
	return report, nil
}

func (uc *DefaultVoteUsecase) reconcileEntry(ctx context.Context, entryID string) (*domain.CashbackEntry, bool, error) {
	var (
		entry      *domain.CashbackEntry
		fromStatus domain.EntryStatus
		repaired   bool
	)
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		entry, err = repos.Entries().GetEntryForUpdate(ctx, entryID)
		if err != nil {
			return err
		}
		tally, err := repos.EntryVotes().CountVotes(ctx, entryID)
		if err != nil {
			return err
		}

		fromStatus = entry.Status
		before := entry.Tally()
		applyTally(entry, tally, uc.now())
		repaired = before != tally || fromStatus != entry.Status
		if !repaired {
			return nil
		}
		return repos.Entries().UpdateVoteState(ctx, entry)
	})
	if err != nil {
		return nil, false, err
	}

	if repaired {
		uc.logger.Warn("entry counters repaired",
			"entry_id", entry.ID,
			"upvotes", entry.UpvoteCount,
			"downvotes", entry.DownvoteCount,
			"status", string(entry.Status),
		)
		uc.entryStatusChanged(ctx, entry.ID, "", fromStatus, entry.Status)
	}
	return entry, repaired, nil
}

func (uc *DefaultVoteUsecase) entryStatusChanged(ctx context.Context, entryID, contributorID string, from, to domain.EntryStatus) {
	if from == to {
		return
	}
	uc.metrics.RecordEntryTransition(string(from), string(to))
	uc.logger.Info("entry status changed", "entry_id", entryID, "from", string(from), "to", string(to))
	uc.publish(ctx, domain.ConsensusEvent{
		Type:          domain.EventEntryStatusChanged,
		EntryID:       entryID,
		ContributorID: contributorID,
		OldStatus:     string(from),
		NewStatus:     string(to),
	})
}

// applyTally stores new counters on the entry and moves its status the way
// the counters dictate.
func applyTally(entry *domain.CashbackEntry, tally domain.Tally, now time.Time) {
	entry.UpvoteCount = tally.Up
	entry.DownvoteCount = tally.Down
	entry.UpdatedAt = now

	tr, ok := domain.NextEntryStatus(entry.Status, tally)
	if !ok {
		return
	}
	entry.Status = tr.To
	if tr.StampVerified {
		verifiedAt := now
		entry.LastVerifiedAt = &verifiedAt
	}
}
