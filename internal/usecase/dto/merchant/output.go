package merchantdto

import "github.com/LavaJover/shvark-cashback-service/internal/domain"

// Resolution says how a statement text was matched.
type Resolution string

const (
	ResolvedByAlias     Resolution = "alias"
	ResolvedByCanonical Resolution = "canonical"
	ResolvedByCreation  Resolution = "created"
)

type ResolveMerchantOutput struct {
	Merchant   *domain.Merchant
	Created    bool
	Resolution Resolution
}

type MerchantView struct {
	Merchant *domain.Merchant
	Aliases  []*domain.MerchantAlias
}
