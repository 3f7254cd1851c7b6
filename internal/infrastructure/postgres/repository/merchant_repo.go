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

type DefaultMerchantRepository struct {
	db *gorm.DB
}

func NewDefaultMerchantRepository(db *gorm.DB) *DefaultMerchantRepository {
	return &DefaultMerchantRepository{db: db}
}

// GetMerchantByAlias returns nil, nil when the alias is unknown.
func (r *DefaultMerchantRepository) GetMerchantByAlias(ctx context.Context, aliasText string) (*domain.Merchant, error) {
	var alias models.MerchantAliasModel
	err := r.db.WithContext(ctx).
		Preload("Merchant").
		Where("alias_text = ?", aliasText).
		First(&alias).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("alias lookup failed: %w", err)
	}
	return mappers.ToDomainMerchant(&alias.Merchant), nil
}

// GetMerchantByCanonicalName returns nil, nil when no merchant has the name.
func (r *DefaultMerchantRepository) GetMerchantByCanonicalName(ctx context.Context, name string) (*domain.Merchant, error) {
	var model models.MerchantModel
	if err := r.db.WithContext(ctx).Where("canonical_name = ?", name).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("merchant lookup failed: %w", err)
	}
	return mappers.ToDomainMerchant(&model), nil
}

func (r *DefaultMerchantRepository) GetMerchantByID(ctx context.Context, merchantID string) (*domain.Merchant, error) {
	var model models.MerchantModel
	if err := r.db.WithContext(ctx).Where("id = ?", merchantID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("merchant %s not found", merchantID)
		}
		return nil, err
	}
	return mappers.ToDomainMerchant(&model), nil
}

func (r *DefaultMerchantRepository) GetMerchantsByIDs(ctx context.Context, merchantIDs []string) (map[string]*domain.Merchant, error) {
	merchants := make(map[string]*domain.Merchant, len(merchantIDs))
	if len(merchantIDs) == 0 {
		return merchants, nil
	}
	var merchantModels []models.MerchantModel
	if err := r.db.WithContext(ctx).Where("id IN ?", merchantIDs).Find(&merchantModels).Error; err != nil {
		return nil, fmt.Errorf("merchant lookup failed: %w", err)
	}
	for i := range merchantModels {
		merchants[merchantModels[i].ID] = mappers.ToDomainMerchant(&merchantModels[i])
	}
	return merchants, nil
}

func (r *DefaultMerchantRepository) CreateMerchant(ctx context.Context, merchant *domain.Merchant) error {
	if err := r.db.WithContext(ctx).Create(mappers.ToGORMMerchant(merchant)).Error; err != nil {
		return raced(fmt.Errorf("failed to create merchant: %w", err))
	}
	return nil
}

func (r *DefaultMerchantRepository) CreateAlias(ctx context.Context, alias *domain.MerchantAlias) error {
	if err := r.db.WithContext(ctx).Omit("Merchant").Create(mappers.ToGORMMerchantAlias(alias)).Error; err != nil {
		return raced(fmt.Errorf("failed to create merchant alias: %w", err))
	}
	return nil
}

func (r *DefaultMerchantRepository) GetAliasesByMerchantID(ctx context.Context, merchantID string) ([]*domain.MerchantAlias, error) {
	var aliasModels []models.MerchantAliasModel
	if err := r.db.WithContext(ctx).
		Where("merchant_id = ?", merchantID).
		Order("created_at asc").
		Find(&aliasModels).Error; err != nil {
		return nil, err
	}
	aliases := make([]*domain.MerchantAlias, len(aliasModels))
	for i := range aliasModels {
		aliases[i] = mappers.ToDomainMerchantAlias(&aliasModels[i])
	}
	return aliases, nil
}
