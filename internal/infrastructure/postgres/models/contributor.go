package models

import "time"

type ContributorModel struct {
	ID              string `gorm:"primaryKey"`
	Email           string
	DisplayName     string
	Role            string `gorm:"default:user"`
	ReputationScore int64  `gorm:"not null;default:0"`
	CreatedAt       time.Time
}

func (ContributorModel) TableName() string { return "contributors" }
