package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DefaultContributorRepository struct {
	db *gorm.DB
}

func NewDefaultContributorRepository(db *gorm.DB) *DefaultContributorRepository {
	return &DefaultContributorRepository{db: db}
}

func (r *DefaultContributorRepository) CreateContributorIfAbsent(ctx context.Context, contributor *domain.Contributor) error {
	model := mappers.ToGORMContributor(contributor)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create contributor: %w", err)
	}
	return nil
}

func (r *DefaultContributorRepository) GetContributorByID(ctx context.Context, contributorID string) (*domain.Contributor, error) {
	return r.getContributor(r.db.WithContext(ctx), contributorID)
}

func (r *DefaultContributorRepository) GetContributorForUpdate(ctx context.Context, contributorID string) (*domain.Contributor, error) {
	return r.getContributor(forUpdate(r.db.WithContext(ctx)), contributorID)
}

func (r *DefaultContributorRepository) getContributor(db *gorm.DB, contributorID string) (*domain.Contributor, error) {
	var model models.ContributorModel
	if err := db.Where("id = ?", contributorID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("contributor %s not found", contributorID)
		}
		return nil, err
	}
	return mappers.ToDomainContributor(&model), nil
}

func (r *DefaultContributorRepository) ListContributorIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.ContributorModel{}).Order("created_at asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *DefaultContributorRepository) AddReputation(ctx context.Context, contributorID string, points int64) error {
	res := r.db.WithContext(ctx).Model(&models.ContributorModel{}).
		Where("id = ?", contributorID).
		Update("reputation_score", gorm.Expr("reputation_score + ?", points))
	if res.Error != nil {
		return fmt.Errorf("failed to credit reputation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("contributor %s not found", contributorID)
	}
	return nil
}

func (r *DefaultContributorRepository) SetReputation(ctx context.Context, contributorID string, score int64) error {
	res := r.db.WithContext(ctx).Model(&models.ContributorModel{}).
		Where("id = ?", contributorID).
		Update("reputation_score", score)
	if res.Error != nil {
		return fmt.Errorf("failed to set reputation: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("contributor %s not found", contributorID)
	}
	return nil
}

func (r *DefaultContributorRepository) GetContributionHistory(ctx context.Context, contributorID string) (*domain.ContributionHistory, error) {
	var history domain.ContributionHistory
	db := r.db.WithContext(ctx)

	if err := db.Model(&models.CashbackEntryModel{}).
		Where("contributor_id = ?", contributorID).
		Count(&history.Entries).Error; err != nil {
		return nil, fmt.Errorf("count entries failed: %w", err)
	}
	if err := db.Model(&models.EntryCommentModel{}).
		Where("author_id = ?", contributorID).
		Count(&history.Comments).Error; err != nil {
		return nil, fmt.Errorf("count comments failed: %w", err)
	}
	if err := db.Model(&models.RateSuggestionModel{}).
		Where("user_id = ? AND status = ?", contributorID, string(domain.SuggestionAccepted)).
		Count(&history.AcceptedSuggestions).Error; err != nil {
		return nil, fmt.Errorf("count accepted suggestions failed: %w", err)
	}

	return &history, nil
}
