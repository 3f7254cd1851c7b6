package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultSuggestionRepository struct {
	db *gorm.DB
}

func NewDefaultSuggestionRepository(db *gorm.DB) *DefaultSuggestionRepository {
	return &DefaultSuggestionRepository{db: db}
}

func (r *DefaultSuggestionRepository) CreateSuggestion(ctx context.Context, suggestion *domain.RateSuggestion) error {
	model := mappers.ToGORMSuggestion(suggestion)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return raced(fmt.Errorf("failed to create suggestion: %w", err))
	}
	suggestion.CreatedAt = model.CreatedAt
	return nil
}

func (r *DefaultSuggestionRepository) GetSuggestionByID(ctx context.Context, suggestionID string) (*domain.RateSuggestion, error) {
	return r.getSuggestion(r.db.WithContext(ctx), suggestionID)
}

func (r *DefaultSuggestionRepository) GetSuggestionForUpdate(ctx context.Context, suggestionID string) (*domain.RateSuggestion, error) {
	return r.getSuggestion(forUpdate(r.db.WithContext(ctx)), suggestionID)
}

func (r *DefaultSuggestionRepository) getSuggestion(db *gorm.DB, suggestionID string) (*domain.RateSuggestion, error) {
	var model models.RateSuggestionModel
	if err := db.Where("id = ?", suggestionID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("suggestion %s not found", suggestionID)
		}
		return nil, err
	}
	return mappers.ToDomainSuggestion(&model), nil
}

// FindPendingByRate returns nil, nil when no pending suggestion has the rate.
func (r *DefaultSuggestionRepository) FindPendingByRate(ctx context.Context, entryID string, rate float64) (*domain.RateSuggestion, error) {
	return r.findPending(forUpdate(r.db.WithContext(ctx)).Where("proposed_rate = ?", rate), entryID)
}

// FindPendingByAuthor returns nil, nil when the author has nothing pending.
func (r *DefaultSuggestionRepository) FindPendingByAuthor(ctx context.Context, entryID, authorID string) (*domain.RateSuggestion, error) {
	return r.findPending(r.db.WithContext(ctx).Where("user_id = ?", authorID), entryID)
}

func (r *DefaultSuggestionRepository) findPending(db *gorm.DB, entryID string) (*domain.RateSuggestion, error) {
	var model models.RateSuggestionModel
	err := db.Where("entry_id = ? AND status = ?", entryID, string(domain.SuggestionPending)).
		Order("created_at asc").
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("pending suggestion lookup failed: %w", err)
	}
	return mappers.ToDomainSuggestion(&model), nil
}

func (r *DefaultSuggestionRepository) ListPendingByEntryID(ctx context.Context, entryID string) ([]*domain.RateSuggestion, error) {
	var suggestionModels []models.RateSuggestionModel
	if err := r.db.WithContext(ctx).
		Where("entry_id = ? AND status = ?", entryID, string(domain.SuggestionPending)).
		Order("upvotes desc").
		Order("created_at asc").
		Find(&suggestionModels).Error; err != nil {
		return nil, err
	}
	suggestions := make([]*domain.RateSuggestion, len(suggestionModels))
	for i := range suggestionModels {
		suggestions[i] = mappers.ToDomainSuggestion(&suggestionModels[i])
	}
	return suggestions, nil
}

func (r *DefaultSuggestionRepository) ListPendingIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.RateSuggestionModel{}).
		Where("status = ?", string(domain.SuggestionPending)).
		Order("created_at asc").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *DefaultSuggestionRepository) UpdateVoteState(ctx context.Context, suggestion *domain.RateSuggestion) error {
	res := r.db.WithContext(ctx).Model(&models.RateSuggestionModel{}).
		Where("id = ?", suggestion.ID).
		Updates(map[string]any{
			"upvotes":   suggestion.Upvotes,
			"downvotes": suggestion.Downvotes,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update suggestion vote state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("suggestion %s not found", suggestion.ID)
	}
	return nil
}

// MarkAccepted moves a pending suggestion to accepted. Anything else is
// immutable and reported as InvalidState.
func (r *DefaultSuggestionRepository) MarkAccepted(ctx context.Context, suggestionID string) error {
	res := r.db.WithContext(ctx).Model(&models.RateSuggestionModel{}).
		Where("id = ? AND status = ?", suggestionID, string(domain.SuggestionPending)).
		Update("status", string(domain.SuggestionAccepted))
	if res.Error != nil {
		return fmt.Errorf("failed to accept suggestion: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.InvalidState("suggestion %s is not pending", suggestionID)
	}
	return nil
}
