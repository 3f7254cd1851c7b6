package models

import "time"

type MerchantModel struct {
	ID            string `gorm:"primaryKey"`
	CanonicalName string `gorm:"uniqueIndex;not null"`
	Category      string
	DefaultMCC    string
	CreatedAt     time.Time
}

func (MerchantModel) TableName() string { return "merchants" }

type MerchantAliasModel struct {
	ID         string        `gorm:"primaryKey"`
	MerchantID string        `gorm:"index;not null"`
	AliasText  string        `gorm:"uniqueIndex;not null"`
	Merchant   MerchantModel `gorm:"foreignKey:MerchantID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	CreatedAt  time.Time
}

func (MerchantAliasModel) TableName() string { return "merchant_aliases" }
