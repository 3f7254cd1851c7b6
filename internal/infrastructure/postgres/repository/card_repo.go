package repository

import (
	"context"
	"errors"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultCardRepository struct {
	db *gorm.DB
}

func NewDefaultCardRepository(db *gorm.DB) *DefaultCardRepository {
	return &DefaultCardRepository{db: db}
}

func (r *DefaultCardRepository) CreateCard(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Create(mappers.ToGORMCard(card)).Error
}

func (r *DefaultCardRepository) GetCardByID(ctx context.Context, cardID string) (*domain.Card, error) {
	var model models.CardModel
	if err := r.db.WithContext(ctx).Where("id = ?", cardID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("card %s not found", cardID)
		}
		return nil, err
	}
	return mappers.ToDomainCard(&model), nil
}

func (r *DefaultCardRepository) ListCards(ctx context.Context) ([]*domain.Card, error) {
	var cardModels []models.CardModel
	if err := r.db.WithContext(ctx).Order("name asc").Find(&cardModels).Error; err != nil {
		return nil, err
	}
	cards := make([]*domain.Card, len(cardModels))
	for i := range cardModels {
		cards[i] = mappers.ToDomainCard(&cardModels[i])
	}
	return cards, nil
}
