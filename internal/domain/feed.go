package domain

import (
	"strings"
	"time"
)

// EntrySort orders the entry feed.
type EntrySort string

const (
	SortMerchant     EntrySort = "merchant"
	SortCashbackHigh EntrySort = "cashback-high"
	SortCashbackLow  EntrySort = "cashback-low"
	SortVerified     EntrySort = "verified"
	SortNewest       EntrySort = "newest"
)

const (
	DefaultFeedLimit = 20
	MaxFeedLimit     = 100
)

// EntryFilter selects one page of the entry feed. Empty fields do not
// filter; Search matches merchant names, statement names and aliases
// case-insensitively.
type EntryFilter struct {
	CardID     string
	MerchantID string
	Search     string
	Sort       EntrySort
	Offset     int
	Limit      int
}

// Normalize applies defaults and rejects out-of-range paging. Unknown sort
// modes fall back to SortMerchant.
func (f *EntryFilter) Normalize() error {
	f.Search = strings.TrimSpace(f.Search)
	switch f.Sort {
	case SortMerchant, SortCashbackHigh, SortCashbackLow, SortVerified, SortNewest:
	default:
		f.Sort = SortMerchant
	}
	if f.Offset < 0 {
		return InvalidInput("offset must not be negative")
	}
	if f.Limit < 0 || f.Limit > MaxFeedLimit {
		return InvalidInput("limit must be between 1 and %d", MaxFeedLimit)
	}
	if f.Limit == 0 {
		f.Limit = DefaultFeedLimit
	}
	return nil
}

// DashboardStats summarizes the catalogue.
type DashboardStats struct {
	TotalCards     int64
	TotalMerchants int64
	// TotalContributors counts contributors with at least one entry.
	TotalContributors int64
	// LastUpdated is the newest entry change, nil on an empty catalogue.
	LastUpdated *time.Time
}
