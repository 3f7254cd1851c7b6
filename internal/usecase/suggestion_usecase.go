package usecase

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	suggestiondto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/suggestion"
	votedto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/vote"
	nanoid "github.com/jaevor/go-nanoid"
)

type SuggestionUsecase interface {
	ProposeRate(ctx context.Context, input *suggestiondto.ProposeRateInput) (*suggestiondto.ProposalResult, error)
	CastSuggestionVote(ctx context.Context, input *votedto.CastVoteInput) (*votedto.SuggestionVoteResult, error)
	ListPendingSuggestions(ctx context.Context, entryID, viewerID string) ([]*suggestiondto.SuggestionView, error)
	ReconcileSuggestion(ctx context.Context, suggestionID string) (*domain.RateSuggestion, error)
	ReconcilePending(ctx context.Context) (*votedto.ReconcileReport, error)
}

type DefaultSuggestionUsecase struct {
	consensus
	newID func() string
}

func NewDefaultSuggestionUsecase(deps Dependencies) (*DefaultSuggestionUsecase, error) {
	idGenerator, err := nanoid.Standard(21)
	if err != nil {
		return nil, fmt.Errorf("failed to init suggestion id generator: %w", err)
	}
	return &DefaultSuggestionUsecase{
		consensus: newConsensus(deps),
		newID:     idGenerator,
	}, nil
}

// suggestionBallot is what one vote did to a suggestion.
type suggestionBallot struct {
	outcome  domain.BallotOutcome
	accepted bool
}

// ProposeRate offers a replacement rate for an entry. A pending suggestion
// with the same rate absorbs the proposal as an upvote instead of a second
// suggestion being created.
func (uc *DefaultSuggestionUsecase) ProposeRate(ctx context.Context, input *suggestiondto.ProposeRateInput) (*suggestiondto.ProposalResult, error) {
	if err := requireID("contributor id", input.ContributorID); err != nil {
		return nil, err
	}
	if err := domain.ValidateCashbackRate(input.ProposedRate); err != nil {
		return nil, err
	}
	if err := uc.throttle(ctx, "suggestion", input.ContributorID, uc.limits.SuggestionsPerWindow); err != nil {
		return nil, err
	}

	var result *suggestiondto.ProposalResult
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		result = nil
		entry, err := repos.Entries().GetEntryForUpdate(ctx, input.EntryID)
		if err != nil {
			return err
		}
		if err := requireContributor(ctx, repos, input.ContributorID); err != nil {
			return err
		}

		same, err := repos.Suggestions().FindPendingByRate(ctx, entry.ID, input.ProposedRate)
		if err != nil {
			return err
		}
		if same != nil {
			if same.AuthorID == input.ContributorID {
				return domain.DuplicateContribution("you already suggested this rate")
			}
			prior, err := repos.SuggestionVotes().GetVote(ctx, same.ID, input.ContributorID)
			if err != nil {
				return err
			}
			if prior != nil {
				return domain.DuplicateContribution("you already supported this suggestion")
			}

			ballot, err := uc.voteOnSuggestion(ctx, repos, same, input.ContributorID, domain.VoteUp)
			if err != nil {
				return err
			}
			result = &suggestiondto.ProposalResult{
				Suggestion:   same,
				Consolidated: true,
				Accepted:     ballot.accepted,
			}
			return nil
		}

		mine, err := repos.Suggestions().FindPendingByAuthor(ctx, entry.ID, input.ContributorID)
		if err != nil {
			return err
		}
		if mine != nil {
			return domain.DuplicateContribution("you already have a pending suggestion for this entry")
		}

		suggestion := &domain.RateSuggestion{
			ID:           uc.newID(),
			EntryID:      entry.ID,
			AuthorID:     input.ContributorID,
			ProposedRate: input.ProposedRate,
			Reason:       input.Reason,
			Status:       domain.SuggestionPending,
			CreatedAt:    uc.now(),
		}
		if err := repos.Suggestions().CreateSuggestion(ctx, suggestion); err != nil {
			return err
		}
		result = &suggestiondto.ProposalResult{Suggestion: suggestion}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordSuggestionProposed(result.Consolidated)
	s := result.Suggestion
	if result.Consolidated {
		uc.metrics.RecordVote("suggestion", ballotChangeLabel(domain.BallotCast), string(domain.VoteUp))
		uc.logger.Info("proposal consolidated", "suggestion_id", s.ID, "entry_id", s.EntryID, "contributor_id", input.ContributorID)
	} else {
		uc.logger.Info("suggestion created", "suggestion_id", s.ID, "entry_id", s.EntryID, "rate", s.ProposedRate)
		uc.publish(ctx, domain.ConsensusEvent{
			Type:          domain.EventSuggestionCreated,
			EntryID:       s.EntryID,
			SuggestionID:  s.ID,
			ContributorID: s.AuthorID,
			Rate:          s.ProposedRate,
		})
	}
	if result.Accepted {
		uc.suggestionAccepted(ctx, s)
	}
	return result, nil
}

func (uc *DefaultSuggestionUsecase) CastSuggestionVote(ctx context.Context, input *votedto.CastVoteInput) (*votedto.SuggestionVoteResult, error) {
	if err := requireID("contributor id", input.ContributorID); err != nil {
		return nil, err
	}

	var (
		result     *votedto.SuggestionVoteResult
		suggestion *domain.RateSuggestion
		vote       domain.VoteType
		change     domain.BallotChange
	)
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		suggestion, err = uc.lockSuggestion(ctx, repos, input.SubjectID)
		if err != nil {
			return err
		}
		if suggestion.Status != domain.SuggestionPending {
			return domain.InvalidState("suggestion is not pending")
		}
		vote, err = domain.ParseVoteType(input.VoteType)
		if err != nil {
			return err
		}
		if err := requireContributor(ctx, repos, input.ContributorID); err != nil {
			return err
		}

		ballot, err := uc.voteOnSuggestion(ctx, repos, suggestion, input.ContributorID, vote)
		if err != nil {
			return err
		}

		change = ballot.outcome.Change
		result = &votedto.SuggestionVoteResult{
			SuggestionID: suggestion.ID,
			Upvotes:      suggestion.Upvotes,
			Downvotes:    suggestion.Downvotes,
			Score:        suggestion.Score(),
			Status:       suggestion.Status,
			Accepted:     ballot.accepted,
			UserVote:     ballot.outcome.Vote,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordVote("suggestion", ballotChangeLabel(change), string(vote))
	if result.Accepted {
		uc.suggestionAccepted(ctx, suggestion)
	}
	return result, nil
}

func (uc *DefaultSuggestionUsecase) ListPendingSuggestions(ctx context.Context, entryID, viewerID string) ([]*suggestiondto.SuggestionView, error) {
	repos := uc.store.Repositories()
	if _, err := repos.Entries().GetEntryByID(ctx, entryID); err != nil {
		return nil, err
	}
	suggestions, err := repos.Suggestions().ListPendingByEntryID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	votes := map[string]domain.VoteType{}
	if viewerID != "" && len(suggestions) > 0 {
		ids := make([]string, len(suggestions))
		for i, s := range suggestions {
			ids[i] = s.ID
		}
		votes, err = repos.SuggestionVotes().GetVotesByVoter(ctx, viewerID, ids)
		if err != nil {
			return nil, err
		}
	}

	views := make([]*suggestiondto.SuggestionView, len(suggestions))
	for i, s := range suggestions {
		view := &suggestiondto.SuggestionView{Suggestion: s, Score: s.Score()}
		if v, ok := votes[s.ID]; ok {
			view.ViewerVote = &v
		}
		views[i] = view
	}
	return views, nil
}

// ReconcileSuggestion recounts a pending suggestion's support from its vote
// rows, accepting it if the recount crosses the threshold.
func (uc *DefaultSuggestionUsecase) ReconcileSuggestion(ctx context.Context, suggestionID string) (*domain.RateSuggestion, error) {
	var (
		suggestion *domain.RateSuggestion
		accepted   bool
	)
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		var err error
		accepted = false
		suggestion, err = uc.lockSuggestion(ctx, repos, suggestionID)
		if err != nil {
			return err
		}
		if suggestion.Status != domain.SuggestionPending {
			return nil
		}

		tally, err := repos.SuggestionVotes().CountVotes(ctx, suggestion.ID)
		if err != nil {
			return err
		}
		if tally != suggestion.Tally() {
			uc.logger.Warn("suggestion counters repaired",
				"suggestion_id", suggestion.ID,
				"upvotes", tally.Up,
				"downvotes", tally.Down,
			)
			suggestion.Upvotes, suggestion.Downvotes = tally.Up, tally.Down
			if err := repos.Suggestions().UpdateVoteState(ctx, suggestion); err != nil {
				return err
			}
		}
		accepted, err = uc.acceptIfReady(ctx, repos, suggestion)
		return err
	})
	if err != nil {
		return nil, err
	}

	if accepted {
		uc.suggestionAccepted(ctx, suggestion)
	}
	return suggestion, nil
}

// ReconcilePending runs ReconcileSuggestion over every pending suggestion.
// Repaired counts the suggestions the recount accepted.
func (uc *DefaultSuggestionUsecase) ReconcilePending(ctx context.Context) (*votedto.ReconcileReport, error) {
	ids, err := uc.store.Repositories().Suggestions().ListPendingIDs(ctx)
	if err != nil {
		return nil, err
	}

	report := &votedto.ReconcileReport{}
	for _, id := range ids {
		s, err := uc.ReconcileSuggestion(ctx, id)
		if err != nil {
			return report, err
		}
		report.Checked++
		if s.Status == domain.SuggestionAccepted {
			report.Repaired++
		}
	}
	uc.logger.Info("pending suggestions reconciled", "checked", report.Checked, "accepted", report.Repaired)
	return report, nil
}

// lockSuggestion locks the suggestion's entry and then the suggestion, the
// same order every writer uses.
func (uc *DefaultSuggestionUsecase) lockSuggestion(ctx context.Context, repos domain.Repositories, suggestionID string) (*domain.RateSuggestion, error) {
	s, err := repos.Suggestions().GetSuggestionByID(ctx, suggestionID)
	if err != nil {
		return nil, err
	}
	if _, err := repos.Entries().GetEntryForUpdate(ctx, s.EntryID); err != nil {
		return nil, err
	}
	return repos.Suggestions().GetSuggestionForUpdate(ctx, suggestionID)
}

// voteOnSuggestion records one ballot on a pending suggestion the caller has
// locked, then checks acceptance whatever the ballot did.
func (uc *DefaultSuggestionUsecase) voteOnSuggestion(ctx context.Context, repos domain.Repositories, s *domain.RateSuggestion, voterID string, vote domain.VoteType) (suggestionBallot, error) {
	outcome, err := castBallot(ctx, repos.SuggestionVotes(), s.ID, voterID, s.Tally(), vote)
	if err != nil {
		return suggestionBallot{}, err
	}
	s.Upvotes, s.Downvotes = outcome.Tally.Up, outcome.Tally.Down
	if err := repos.Suggestions().UpdateVoteState(ctx, s); err != nil {
		return suggestionBallot{}, err
	}

	accepted, err := uc.acceptIfReady(ctx, repos, s)
	if err != nil {
		return suggestionBallot{}, err
	}
	return suggestionBallot{outcome: outcome, accepted: accepted}, nil
}

// acceptIfReady promotes the suggestion's rate onto its entry and pays the
// author. It fires at most once per suggestion since only pending
// suggestions qualify.
func (uc *DefaultSuggestionUsecase) acceptIfReady(ctx context.Context, repos domain.Repositories, s *domain.RateSuggestion) (bool, error) {
	if !s.ReadyForAcceptance() {
		return false, nil
	}
	if err := repos.Entries().ApplyRate(ctx, s.EntryID, s.ProposedRate, uc.now()); err != nil {
		return false, err
	}
	if err := repos.Suggestions().MarkAccepted(ctx, s.ID); err != nil {
		return false, err
	}
	if err := repos.Contributors().AddReputation(ctx, s.AuthorID, domain.AcceptedSuggestionReputationPoints); err != nil {
		return false, err
	}
	s.Status = domain.SuggestionAccepted
	return true, nil
}

func (uc *DefaultSuggestionUsecase) suggestionAccepted(ctx context.Context, s *domain.RateSuggestion) {
	uc.metrics.RecordSuggestionAccepted()
	uc.metrics.RecordReputation("accepted_suggestion", domain.AcceptedSuggestionReputationPoints)
	uc.logger.Info("suggestion accepted",
		"suggestion_id", s.ID,
		"entry_id", s.EntryID,
		"rate", s.ProposedRate,
		"author_id", s.AuthorID,
	)
	uc.publish(ctx, domain.ConsensusEvent{
		Type:          domain.EventSuggestionAccepted,
		EntryID:       s.EntryID,
		SuggestionID:  s.ID,
		ContributorID: s.AuthorID,
		Rate:          s.ProposedRate,
	})
}
