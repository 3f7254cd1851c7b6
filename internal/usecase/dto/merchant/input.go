package merchantdto

type ResolveMerchantInput struct {
	// StatementText is matched exactly against known aliases.
	StatementText string
	// CanonicalName overrides the name used for a new merchant. Empty means
	// the statement text itself.
	CanonicalName string
	Category      string
	MCC           string
}
