package usecase

import (
	"context"
	"strings"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	entrydto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/entry"
	"github.com/google/uuid"
)

type CommentUsecase interface {
	AddComment(ctx context.Context, input *entrydto.CommentInput) (*domain.EntryComment, error)
	ListComments(ctx context.Context, entryID string) ([]*domain.EntryComment, error)
}

type DefaultCommentUsecase struct {
	consensus
}

func NewDefaultCommentUsecase(deps Dependencies) *DefaultCommentUsecase {
	return &DefaultCommentUsecase{consensus: newConsensus(deps)}
}

func (uc *DefaultCommentUsecase) AddComment(ctx context.Context, input *entrydto.CommentInput) (*domain.EntryComment, error) {
	if err := requireID("contributor id", input.ContributorID); err != nil {
		return nil, err
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, domain.InvalidInput("comment content is required")
	}
	if err := uc.throttle(ctx, "comment", input.ContributorID, uc.limits.CommentsPerWindow); err != nil {
		return nil, err
	}

	var comment *domain.EntryComment
	err := uc.store.WithinTx(ctx, func(ctx context.Context, repos domain.Repositories) error {
		if _, err := repos.Entries().GetEntryByID(ctx, input.EntryID); err != nil {
			return err
		}
		if err := requireContributor(ctx, repos, input.ContributorID); err != nil {
			return err
		}

		comment = &domain.EntryComment{
			ID:        uuid.New().String(),
			EntryID:   input.EntryID,
			AuthorID:  input.ContributorID,
			Content:   content,
			CreatedAt: uc.now(),
		}
		if err := repos.Comments().CreateComment(ctx, comment); err != nil {
			return err
		}
		return repos.Contributors().AddReputation(ctx, input.ContributorID, domain.CommentReputationPoints)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordReputation("comment", domain.CommentReputationPoints)
	return comment, nil
}

func (uc *DefaultCommentUsecase) ListComments(ctx context.Context, entryID string) ([]*domain.EntryComment, error) {
	repos := uc.store.Repositories()
	if _, err := repos.Entries().GetEntryByID(ctx, entryID); err != nil {
		return nil, err
	}
	return repos.Comments().GetCommentsByEntryID(ctx, entryID)
}
