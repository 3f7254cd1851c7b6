package entrydto

import "time"

type CreateEntryInput struct {
	CardID        string
	ContributorID string
	StatementName string
	CashbackRate  float64
	// MerchantName, Category and MCC describe the merchant when the
	// statement name has never been seen.
	MerchantName    string
	Category        string
	MCC             string
	Notes           string
	TransactionDate *time.Time
}
