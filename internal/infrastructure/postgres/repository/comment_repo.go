package repository

import (
	"context"
	"fmt"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCommentRepository struct {
	db *gorm.DB
}

func NewDefaultCommentRepository(db *gorm.DB) *DefaultCommentRepository {
	return &DefaultCommentRepository{db: db}
}

func (r *DefaultCommentRepository) CreateComment(ctx context.Context, comment *domain.EntryComment) error {
	model := mappers.ToGORMComment(comment)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}
	comment.CreatedAt = model.CreatedAt
	return nil
}

func (r *DefaultCommentRepository) GetCommentsByEntryID(ctx context.Context, entryID string) ([]*domain.EntryComment, error) {
	var commentModels []models.EntryCommentModel
	if err := r.db.WithContext(ctx).
		Where("entry_id = ? AND is_deleted = ?", entryID, false).
		Order("created_at desc").
		Find(&commentModels).Error; err != nil {
		return nil, err
	}
	comments := make([]*domain.EntryComment, len(commentModels))
	for i := range commentModels {
		comments[i] = mappers.ToDomainComment(&commentModels[i])
	}
	return comments, nil
}
