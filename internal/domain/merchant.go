package domain

import (
	"context"
	"regexp"
	"time"
	"unicode/utf8"
)

const (
	MinMerchantNameLength = 3
	MaxMerchantNameLength = 100
)

var merchantNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s\-&.']+$`)

// Merchant is the canonical identity many statement strings resolve to.
type Merchant struct {
	ID            string
	CanonicalName string
	Category      string
	DefaultMCC    string
	CreatedAt     time.Time
}

// MerchantAlias binds one exact statement string to one merchant, forever.
type MerchantAlias struct {
	ID         string
	MerchantID string
	AliasText  string
	CreatedAt  time.Time
}

// ValidateMerchantName applies the junk-prevention policy to a candidate
// canonical name.
func ValidateMerchantName(name string) error {
	n := utf8.RuneCountInString(name)
	if n < MinMerchantNameLength {
		return InvalidInput("merchant name must be at least %d characters", MinMerchantNameLength)
	}
	if n > MaxMerchantNameLength {
		return InvalidInput("merchant name must be at most %d characters", MaxMerchantNameLength)
	}
	if !merchantNamePattern.MatchString(name) {
		return InvalidInput("merchant name contains invalid characters, only letters, numbers, spaces and &-.' are allowed")
	}
	return nil
}

type MerchantRepository interface {
	GetMerchantByAlias(ctx context.Context, aliasText string) (*Merchant, error)
	GetMerchantByCanonicalName(ctx context.Context, name string) (*Merchant, error)
	GetMerchantByID(ctx context.Context, merchantID string) (*Merchant, error)
	// GetMerchantsByIDs skips ids that do not exist.
	GetMerchantsByIDs(ctx context.Context, merchantIDs []string) (map[string]*Merchant, error)
	CreateMerchant(ctx context.Context, merchant *Merchant) error
	CreateAlias(ctx context.Context, alias *MerchantAlias) error
	GetAliasesByMerchantID(ctx context.Context, merchantID string) ([]*MerchantAlias, error)
}
