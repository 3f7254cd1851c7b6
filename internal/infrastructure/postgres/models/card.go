package models

import "time"

type CardModel struct {
	ID              string `gorm:"primaryKey"`
	Slug            string `gorm:"uniqueIndex"`
	Name            string
	Issuer          string
	Network         string
	MaxCashbackRate float64
	Active          bool
	CreatedAt       time.Time
}

func (CardModel) TableName() string { return "cards" }
