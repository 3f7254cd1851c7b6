package models

import "time"

type RateSuggestionModel struct {
	ID           string `gorm:"primaryKey"`
	EntryID      string `gorm:"index;not null"`
	UserID       string `gorm:"index;not null"`
	ProposedRate float64
	Reason       string
	Status       string `gorm:"not null;default:pending"`
	Upvotes      int64  `gorm:"not null;default:0"`
	Downvotes    int64  `gorm:"not null;default:0"`
	CreatedAt    time.Time
}

func (RateSuggestionModel) TableName() string { return "rate_suggestions" }

type RateSuggestionVoteModel struct {
	SuggestionID string `gorm:"primaryKey"`
	UserID       string `gorm:"primaryKey"`
	VoteType     string `gorm:"not null"`
	CreatedAt    time.Time
}

func (RateSuggestionVoteModel) TableName() string { return "rate_suggestion_votes" }
