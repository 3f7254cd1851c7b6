package usecase

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/metrics"
)

// Dependencies is what every consensus usecase is built from. Only Store is
// required.
type Dependencies struct {
	Store     domain.Transactor
	Publisher domain.EventPublisher
	Limiter   domain.ContributionLimiter
	Limits    config.RateLimits
	Metrics   *metrics.ConsensusMetrics
	Logger    *slog.Logger
}

type consensus struct {
	store     domain.Transactor
	publisher domain.EventPublisher
	limiter   domain.ContributionLimiter
	limits    config.RateLimits
	metrics   *metrics.ConsensusMetrics
	logger    *slog.Logger
	now       func() time.Time
}

func newConsensus(deps Dependencies) consensus {
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return consensus{
		store:     deps.Store,
		publisher: deps.Publisher,
		limiter:   deps.Limiter,
		limits:    deps.Limits,
		metrics:   deps.Metrics,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// throttle checks the contributor's budget for one kind of contribution.
func (c *consensus) throttle(ctx context.Context, kind, contributorID string, limit int) error {
	if c.limiter == nil || limit <= 0 {
		return nil
	}
	ok, err := c.limiter.Allow(ctx, kind+":"+contributorID, limit)
	if err != nil {
		return err
	}
	if !ok {
		c.metrics.RecordThrottled(kind)
		return domain.RateLimited("too many %s contributions, try again later", kind)
	}
	return nil
}

// publish delivers committed events. Failures are logged only: the decision
// they describe is already durable.
func (c *consensus) publish(ctx context.Context, events ...domain.ConsensusEvent) {
	if c.publisher == nil {
		return
	}
	for _, event := range events {
		if event.OccurredAt.IsZero() {
			event.OccurredAt = c.now()
		}
		if err := c.publisher.PublishConsensusEvent(ctx, event); err != nil {
			c.logger.Error("failed to publish consensus event",
				"type", string(event.Type),
				"entry_id", event.EntryID,
				"error", err.Error(),
			)
		}
	}
}

func requireID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return domain.InvalidInput("%s is required", name)
	}
	return nil
}

func requireContributor(ctx context.Context, repos domain.Repositories, contributorID string) error {
	_, err := repos.Contributors().GetContributorByID(ctx, contributorID)
	return err
}

// castBallot applies one vote to a subject's ballot box and returns the
// resulting counters. The caller holds the subject's row lock and persists
// the counters.
func castBallot(ctx context.Context, box domain.BallotBox, subjectID, voterID string, tally domain.Tally, vote domain.VoteType) (domain.BallotOutcome, error) {
	existing, err := box.GetVote(ctx, subjectID, voterID)
	if err != nil {
		return domain.BallotOutcome{}, err
	}

	outcome := domain.Ballot(tally, existing, vote)
	switch outcome.Change {
	case domain.BallotCast:
		err = box.InsertVote(ctx, subjectID, voterID, vote)
	case domain.BallotRetracted:
		err = box.DeleteVote(ctx, subjectID, voterID)
	case domain.BallotSwitched:
		err = box.UpdateVote(ctx, subjectID, voterID, vote)
	}
	if err != nil {
		return domain.BallotOutcome{}, err
	}
	return outcome, nil
}

func ballotChangeLabel(change domain.BallotChange) string {
	switch change {
	case domain.BallotRetracted:
		return "retracted"
	case domain.BallotSwitched:
		return "switched"
	default:
		return "cast"
	}
}
