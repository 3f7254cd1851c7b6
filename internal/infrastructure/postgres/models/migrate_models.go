package models

// MigrateModels is the AutoMigrate set used when no SQL migrations run.
var MigrateModels = []any{
	&ContributorModel{},
	&CardModel{},
	&MerchantModel{},
	&MerchantAliasModel{},
	&CashbackEntryModel{},
	&EntryVoteModel{},
	&EntryCommentModel{},
	&RateSuggestionModel{},
	&RateSuggestionVoteModel{},
}

// PartialIndexes mirror the pending-suggestion indexes from the SQL
// migrations; gorm tags cannot express a WHERE clause.
var PartialIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_rate_suggestions_pending_rate ON rate_suggestions (entry_id, proposed_rate) WHERE status = 'pending'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_rate_suggestions_pending_author ON rate_suggestions (entry_id, user_id) WHERE status = 'pending'`,
}
