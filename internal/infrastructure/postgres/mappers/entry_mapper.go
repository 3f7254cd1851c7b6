package mappers

import (
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/postgres/models"
)

func ToDomainEntry(model *models.CashbackEntryModel) *domain.CashbackEntry {
	return &domain.CashbackEntry{
		ID:              model.ID,
		CardID:          model.CardID,
		MerchantID:      model.MerchantID,
		ContributorID:   model.ContributorID,
		StatementName:   model.StatementName,
		CashbackRate:    model.ReportedCashbackRate,
		MCC:             model.MCC,
		Notes:           model.Notes,
		TransactionDate: model.TransactionDate,
		Status:          domain.EntryStatus(model.Status),
		UpvoteCount:     model.UpvoteCount,
		DownvoteCount:   model.DownvoteCount,
		LastVerifiedAt:  model.LastVerifiedAt,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func ToGORMEntry(entry *domain.CashbackEntry) *models.CashbackEntryModel {
	return &models.CashbackEntryModel{
		ID:                   entry.ID,
		CardID:               entry.CardID,
		MerchantID:           entry.MerchantID,
		ContributorID:        entry.ContributorID,
		StatementName:        entry.StatementName,
		ReportedCashbackRate: entry.CashbackRate,
		MCC:                  entry.MCC,
		Notes:                entry.Notes,
		TransactionDate:      entry.TransactionDate,
		Status:               string(entry.Status),
		UpvoteCount:          entry.UpvoteCount,
		DownvoteCount:        entry.DownvoteCount,
		LastVerifiedAt:       entry.LastVerifiedAt,
		CreatedAt:            entry.CreatedAt,
		UpdatedAt:            entry.UpdatedAt,
	}
}

func ToDomainComment(model *models.EntryCommentModel) *domain.EntryComment {
	return &domain.EntryComment{
		ID:        model.ID,
		EntryID:   model.EntryID,
		AuthorID:  model.AuthorID,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}
}

func ToGORMComment(comment *domain.EntryComment) *models.EntryCommentModel {
	return &models.EntryCommentModel{
		ID:        comment.ID,
		EntryID:   comment.EntryID,
		AuthorID:  comment.AuthorID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}
