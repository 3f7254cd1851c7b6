package mappers

import (
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
)

func ToDomainCard(model *models.CardModel) *domain.Card {
	return &domain.Card{
		ID:              model.ID,
		Slug:            model.Slug,
		Name:            model.Name,
		Issuer:          model.Issuer,
		Network:         model.Network,
		MaxCashbackRate: model.MaxCashbackRate,
		Active:          model.Active,
		CreatedAt:       model.CreatedAt,
	}
}

func ToGORMCard(card *domain.Card) *models.CardModel {
	return &models.CardModel{
		ID:              card.ID,
		Slug:            card.Slug,
		Name:            card.Name,
		Issuer:          card.Issuer,
		Network:         card.Network,
		MaxCashbackRate: card.MaxCashbackRate,
		Active:          card.Active,
		CreatedAt:       card.CreatedAt,
	}
}
