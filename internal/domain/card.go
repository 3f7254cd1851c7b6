package domain

import (
	"context"
	"time"
)

// Card is issuer reference data; the consensus core only reads it.
type Card struct {
	ID              string
	Slug            string
	Name            string
	Issuer          string
	Network         string
	MaxCashbackRate float64
	Active          bool
	CreatedAt       time.Time
}

type CardRepository interface {
	CreateCard(ctx context.Context, card *Card) error
	GetCardByID(ctx context.Context, cardID string) (*Card, error)
	ListCards(ctx context.Context) ([]*Card, error)
}
