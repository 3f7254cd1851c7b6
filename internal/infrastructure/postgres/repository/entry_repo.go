package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/mappers"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
	"gorm.io/gorm"
)

type DefaultEntryRepository struct {
	db *gorm.DB
}

func NewDefaultEntryRepository(db *gorm.DB) *DefaultEntryRepository {
	return &DefaultEntryRepository{db: db}
}

func (r *DefaultEntryRepository) CreateEntry(ctx context.Context, entry *domain.CashbackEntry) error {
	model := mappers.ToGORMEntry(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create entry: %w", err)
	}
	entry.CreatedAt = model.CreatedAt
	entry.UpdatedAt = model.UpdatedAt
	return nil
}

func (r *DefaultEntryRepository) GetEntryByID(ctx context.Context, entryID string) (*domain.CashbackEntry, error) {
	return r.getEntry(r.db.WithContext(ctx), entryID)
}

func (r *DefaultEntryRepository) GetEntryForUpdate(ctx context.Context, entryID string) (*domain.CashbackEntry, error) {
	return r.getEntry(forUpdate(r.db.WithContext(ctx)), entryID)
}

func (r *DefaultEntryRepository) getEntry(db *gorm.DB, entryID string) (*domain.CashbackEntry, error) {
	var model models.CashbackEntryModel
	if err := db.Where("id = ?", entryID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NotFound("entry %s not found", entryID)
		}
		return nil, err
	}
	return mappers.ToDomainEntry(&model), nil
}

// UpdateVoteState writes counters, status and last_verified_at.
func (r *DefaultEntryRepository) UpdateVoteState(ctx context.Context, entry *domain.CashbackEntry) error {
	entry.UpdatedAt = time.Now().UTC()
	res := r.db.WithContext(ctx).Model(&models.CashbackEntryModel{}).
		Where("id = ?", entry.ID).
		Updates(map[string]any{
			"upvote_count":     entry.UpvoteCount,
			"downvote_count":   entry.DownvoteCount,
			"status":           string(entry.Status),
			"last_verified_at": entry.LastVerifiedAt,
			"updated_at":       entry.UpdatedAt,
		})
	if res.Error != nil {
		return fmt.Errorf("failed to update entry vote state: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("entry %s not found", entry.ID)
	}
	return nil
}

// ApplyRate replaces the entry's rate and stamps verification; status is
// left alone.
func (r *DefaultEntryRepository) ApplyRate(ctx context.Context, entryID string, rate float64, verifiedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&models.CashbackEntryModel{}).
		Where("id = ?", entryID).
		Updates(map[string]any{
			"reported_cashback_rate": rate,
			"last_verified_at":       verifiedAt,
			"updated_at":             time.Now().UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("failed to apply rate: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.NotFound("entry %s not found", entryID)
	}
	return nil
}

func (r *DefaultEntryRepository) ListEntryIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.CashbackEntryModel{}).Order("created_at asc").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

var feedOrder = map[domain.EntrySort]string{
	domain.SortMerchant:     "merchants.canonical_name ASC",
	domain.SortCashbackHigh: "cashback_entries.reported_cashback_rate DESC, cashback_entries.updated_at DESC",
	domain.SortCashbackLow:  "cashback_entries.reported_cashback_rate ASC, cashback_entries.updated_at DESC",
	domain.SortVerified:     "cashback_entries.last_verified_at IS NULL, cashback_entries.last_verified_at DESC",
	domain.SortNewest:       "cashback_entries.created_at DESC",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *DefaultEntryRepository) ListEntries(ctx context.Context, filter domain.EntryFilter) ([]*domain.CashbackEntry, error) {
	query := r.db.WithContext(ctx).Model(&models.CashbackEntryModel{}).
		Select("cashback_entries.*").
		Joins("JOIN merchants ON merchants.id = cashback_entries.merchant_id")

	if filter.CardID != "" {
		query = query.Where("cashback_entries.card_id = ?", filter.CardID)
	}
	if filter.MerchantID != "" {
		query = query.Where("cashback_entries.merchant_id = ?", filter.MerchantID)
	}
	if filter.Search != "" {
		// matched through a subquery so an entry with several matching
		// aliases is listed once
		pattern := "%" + likeEscaper.Replace(strings.ToLower(filter.Search)) + "%"
		matching := r.db.WithContext(ctx).Table("cashback_entries").
			Select("cashback_entries.id").
			Joins("JOIN merchants ON merchants.id = cashback_entries.merchant_id").
			Joins("LEFT JOIN merchant_aliases ON merchant_aliases.merchant_id = merchants.id").
			Where(`LOWER(merchants.canonical_name) LIKE ? ESCAPE '\' OR LOWER(cashback_entries.statement_name) LIKE ? ESCAPE '\' OR LOWER(merchant_aliases.alias_text) LIKE ? ESCAPE '\'`,
				pattern, pattern, pattern)
		query = query.Where("cashback_entries.id IN (?)", matching)
	}

	order, ok := feedOrder[filter.Sort]
	if !ok {
		order = feedOrder[domain.SortMerchant]
	}
	query = query.Order(order + ", cashback_entries.id ASC")
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	var entryModels []models.CashbackEntryModel
	if err := query.Find(&entryModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	entries := make([]*domain.CashbackEntry, len(entryModels))
	for i := range entryModels {
		entries[i] = mappers.ToDomainEntry(&entryModels[i])
	}
	return entries, nil
}

// GetDashboardStats counts cards, merchants and contributors with entries.
func (r *DefaultEntryRepository) GetDashboardStats(ctx context.Context) (*domain.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &domain.DashboardStats{}
	if err := db.Model(&models.CardModel{}).Count(&stats.TotalCards).Error; err != nil {
		return nil, fmt.Errorf("count cards failed: %w", err)
	}
	if err := db.Model(&models.MerchantModel{}).Count(&stats.TotalMerchants).Error; err != nil {
		return nil, fmt.Errorf("count merchants failed: %w", err)
	}
	if err := db.Model(&models.CashbackEntryModel{}).Distinct("contributor_id").Count(&stats.TotalContributors).Error; err != nil {
		return nil, fmt.Errorf("count contributors failed: %w", err)
	}

	var latest []time.Time
	if err := db.Model(&models.CashbackEntryModel{}).Order("updated_at DESC").Limit(1).Pluck("updated_at", &latest).Error; err != nil {
		return nil, fmt.Errorf("last update lookup failed: %w", err)
	}
	if len(latest) > 0 {
		stats.LastUpdated = &latest[0]
	}
	return stats, nil
}
