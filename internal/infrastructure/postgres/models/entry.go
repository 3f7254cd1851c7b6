package models

import "time"

type CashbackEntryModel struct {
	ID                   string `gorm:"primaryKey"`
	CardID               string `gorm:"index;not null"`
	MerchantID           string `gorm:"index;not null"`
	ContributorID        string `gorm:"index;not null"`
	StatementName        string `gorm:"index;not null"`
	ReportedCashbackRate float64
	MCC                  string
	Notes                string
	TransactionDate      *time.Time
	Status               string `gorm:"not null;default:pending"`
	UpvoteCount          int64  `gorm:"not null;default:0"`
	DownvoteCount        int64  `gorm:"not null;default:0"`
	LastVerifiedAt       *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func (CashbackEntryModel) TableName() string { return "cashback_entries" }

type EntryVoteModel struct {
	EntryID   string `gorm:"primaryKey"`
	UserID    string `gorm:"primaryKey"`
	VoteType  string `gorm:"not null"`
	CreatedAt time.Time
}

func (EntryVoteModel) TableName() string { return "entry_votes" }

type EntryCommentModel struct {
	ID        string `gorm:"primaryKey"`
	EntryID   string `gorm:"index;not null"`
	AuthorID  string `gorm:"index;not null"`
	Content   string `gorm:"not null"`
	IsDeleted bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
}

func (EntryCommentModel) TableName() string { return "entry_comments" }
