package mappers

import (
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
)

func ToDomainMerchant(model *models.MerchantModel) *domain.Merchant {
	return &domain.Merchant{
		ID:            model.ID,
		CanonicalName: model.CanonicalName,
		Category:      model.Category,
		DefaultMCC:    model.DefaultMCC,
		CreatedAt:     model.CreatedAt,
	}
}

func ToGORMMerchant(merchant *domain.Merchant) *models.MerchantModel {
	return &models.MerchantModel{
		ID:            merchant.ID,
		CanonicalName: merchant.CanonicalName,
		Category:      merchant.Category,
		DefaultMCC:    merchant.DefaultMCC,
		CreatedAt:     merchant.CreatedAt,
	}
}

func ToDomainMerchantAlias(model *models.MerchantAliasModel) *domain.MerchantAlias {
	return &domain.MerchantAlias{
		ID:         model.ID,
		MerchantID: model.MerchantID,
		AliasText:  model.AliasText,
		CreatedAt:  model.CreatedAt,
	}
}

func ToGORMMerchantAlias(alias *domain.MerchantAlias) *models.MerchantAliasModel {
	return &models.MerchantAliasModel{
		ID:         alias.ID,
		MerchantID: alias.MerchantID,
		AliasText:  alias.AliasText,
		CreatedAt:  alias.CreatedAt,
	}
}
