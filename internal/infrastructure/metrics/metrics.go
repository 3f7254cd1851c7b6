package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ConsensusMetrics counts consensus decisions and the storage races behind them.
type ConsensusMetrics struct {
	// Ballots
	VotesCastTotal *prometheus.CounterVec

	// Entry status machine
	EntryTransitionsTotal *prometheus.CounterVec
	EntriesCreatedTotal   prometheus.Counter

	// Suggestions
	SuggestionsProposedTotal *prometheus.CounterVec
	SuggestionsAcceptedTotal prometheus.Counter

	// Merchant resolution
	MerchantsResolvedTotal *prometheus.CounterVec

	// Reputation
	ReputationCreditedTotal *prometheus.CounterVec

	// Storage
	TxConflictsTotal prometheus.Counter

	// Throttling
	ContributionsThrottledTotal *prometheus.CounterVec
}

// NewConsensusMetrics registers the metrics with reg. A nil reg uses the
// default registerer.
func NewConsensusMetrics(reg prometheus.Registerer) *ConsensusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &ConsensusMetrics{
		VotesCastTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashback_votes_cast_total",
				Help: "Ballots recorded, by subject and outcome",
			},
			[]string{"subject", "change", "vote_type"},
		),
		EntryTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashback_entry_transitions_total",
				Help: "Entry status transitions",
			},
			[]string{"from", "to"},
		),
		EntriesCreatedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashback_entries_created_total",
				Help: "Cashback entries contributed",
			},
		),
		SuggestionsProposedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashback_suggestions_proposed_total",
				Help: "Rate proposals, split into new suggestions and consolidations",
			},
			[]string{"outcome"},
		),
		SuggestionsAcceptedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashback_suggestions_accepted_total",
				Help: "Rate suggestions accepted by consensus",
			},
		),
		MerchantsResolvedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashback_merchants_resolved_total",
				Help: "Statement text resolutions, by how the merchant was found",
			},
			[]string{"result"},
		),
		ReputationCreditedTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashback_reputation_points_total",
				Help: "Reputation points credited, by reason",
			},
			[]string{"reason"},
		),
		TxConflictsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "cashback_tx_conflicts_total",
				Help: "Transactions rolled back and retried after losing a race",
			},
		),
		ContributionsThrottledTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cashback_contributions_throttled_total",
				Help: "Contributions rejected by the rate limiter",
			},
			[]string{"kind"},
		),
	}
}

func (m *ConsensusMetrics) RecordVote(subject, change, voteType string) {
	if m == nil {
		return
	}
	m.VotesCastTotal.WithLabelValues(subject, change, voteType).Inc()
}

func (m *ConsensusMetrics) RecordEntryTransition(from, to string) {
	if m == nil {
		return
	}
	m.EntryTransitionsTotal.WithLabelValues(from, to).Inc()
}

func (m *ConsensusMetrics) RecordEntryCreated() {
	if m == nil {
		return
	}
	m.EntriesCreatedTotal.Inc()
}

func (m *ConsensusMetrics) RecordSuggestionProposed(consolidated bool) {
	if m == nil {
		return
	}
	outcome := "created"
	if consolidated {
		outcome = "consolidated"
	}
	m.SuggestionsProposedTotal.WithLabelValues(outcome).Inc()
}

func (m *ConsensusMetrics) RecordSuggestionAccepted() {
	if m == nil {
		return
	}
	m.SuggestionsAcceptedTotal.Inc()
}

// RecordMerchantResolved takes alias, canonical or created.
func (m *ConsensusMetrics) RecordMerchantResolved(result string) {
	if m == nil {
		return
	}
	m.MerchantsResolvedTotal.WithLabelValues(result).Inc()
}

func (m *ConsensusMetrics) RecordReputation(reason string, points int64) {
	if m == nil {
		return
	}
	m.ReputationCreditedTotal.WithLabelValues(reason).Add(float64(points))
}

func (m *ConsensusMetrics) RecordTxConflict(int, error) {
	if m == nil {
		return
	}
	m.TxConflictsTotal.Inc()
}

func (m *ConsensusMetrics) RecordThrottled(kind string) {
	if m == nil {
		return
	}
	m.ContributionsThrottledTotal.WithLabelValues(kind).Inc()
}
