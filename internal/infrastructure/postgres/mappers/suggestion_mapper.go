package mappers

import (
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
)

func ToDomainSuggestion(model *models.RateSuggestionModel) *domain.RateSuggestion {
	return &domain.RateSuggestion{
		ID:           model.ID,
		EntryID:      model.EntryID,
		AuthorID:     model.UserID,
		ProposedRate: model.ProposedRate,
		Reason:       model.Reason,
		Status:       domain.SuggestionStatus(model.Status),
		Upvotes:      model.Upvotes,
		Downvotes:    model.Downvotes,
		CreatedAt:    model.CreatedAt,
	}
}

func ToGORMSuggestion(suggestion *domain.RateSuggestion) *models.RateSuggestionModel {
	return &models.RateSuggestionModel{
		ID:           suggestion.ID,
		EntryID:      suggestion.EntryID,
		UserID:       suggestion.AuthorID,
		ProposedRate: suggestion.ProposedRate,
		Reason:       suggestion.Reason,
		Status:       string(suggestion.Status),
		Upvotes:      suggestion.Upvotes,
		Downvotes:    suggestion.Downvotes,
		CreatedAt:    suggestion.CreatedAt,
	}
}
