package mappers

import (
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
)

func ToDomainContributor(model *models.ContributorModel) *domain.Contributor {
	return &domain.Contributor{
		ID:              model.ID,
		Email:           model.Email,
		DisplayName:     model.DisplayName,
		Role:            domain.Role(model.Role),
		ReputationScore: model.ReputationScore,
		CreatedAt:       model.CreatedAt,
	}
}

func ToGORMContributor(contributor *domain.Contributor) *models.ContributorModel {
	return &models.ContributorModel{
		ID:              contributor.ID,
		Email:           contributor.Email,
		DisplayName:     contributor.DisplayName,
		Role:            string(contributor.Role),
		ReputationScore: contributor.ReputationScore,
		CreatedAt:       contributor.CreatedAt,
	}
}
