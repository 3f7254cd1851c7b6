package domain

import (
	"context"
	"math"
	"time"
)

type EntryStatus string

const (
	EntryPending  EntryStatus = "pending"
	EntryVerified EntryStatus = "verified"
	EntryDisputed EntryStatus = "disputed"
	EntryRejected EntryStatus = "rejected"
)

const (
	MinCashbackRate = 0.0
	MaxCashbackRate = 100.0
)

type CashbackEntry struct {
	ID              string
	CardID          string
	MerchantID      string
	ContributorID   string
	StatementName   string
	CashbackRate    float64
	MCC             string
	Notes           string
	TransactionDate *time.Time
	Status          EntryStatus
	UpvoteCount     int64
	DownvoteCount   int64
	LastVerifiedAt  *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (e *CashbackEntry) Tally() Tally {
	return Tally{Up: e.UpvoteCount, Down: e.DownvoteCount}
}

func ValidateCashbackRate(rate float64) error {
	if math.IsNaN(rate) || rate < MinCashbackRate || rate > MaxCashbackRate {
		return InvalidInput("cashback rate must be between %g and %g", MinCashbackRate, MaxCashbackRate)
	}
	return nil
}

type EntryRepository interface {
	CreateEntry(ctx context.Context, entry *CashbackEntry) error
	GetEntryByID(ctx context.Context, entryID string) (*CashbackEntry, error)
	// GetEntryForUpdate reads the entry and holds its row lock until the
	// surrounding transaction ends.
	GetEntryForUpdate(ctx context.Context, entryID string) (*CashbackEntry, error)
	UpdateVoteState(ctx context.Context, entry *CashbackEntry) error
	ApplyRate(ctx context.Context, entryID string, rate float64, verifiedAt time.Time) error
	ListEntryIDs(ctx context.Context) ([]string, error)
	// ListEntries returns one page of the feed. The filter must already be
	// normalized.
	ListEntries(ctx context.Context, filter EntryFilter) ([]*CashbackEntry, error)
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}
