package background

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/usecase"
)

// BackgroundTasks periodically repairs derived state: vote counters, pending
// suggestion support and reputation scores.
type BackgroundTasks struct {
	VoteUsecase       usecase.VoteUsecase
	SuggestionUsecase usecase.SuggestionUsecase
	ReputationUsecase usecase.ReputationUsecase
	Logger            *slog.Logger

	ReconcileInterval  time.Duration
	ReputationInterval time.Duration
}

func NewBackgroundTasks(voteUC usecase.VoteUsecase, suggestionUC usecase.SuggestionUsecase, reputationUC usecase.ReputationUsecase, logger *slog.Logger) *BackgroundTasks {
	return &BackgroundTasks{
		VoteUsecase:        voteUC,
		SuggestionUsecase:  suggestionUC,
		ReputationUsecase:  reputationUC,
		Logger:             logger,
		ReconcileInterval:  10 * time.Minute,
		ReputationInterval: time.Hour,
	}
}

// StartAll runs every task until ctx is cancelled and returns once they
// have all stopped.
func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		bt.every(ctx, bt.ReconcileInterval, bt.reconcileVotes)
	}()
	go func() {
		defer wg.Done()
		bt.every(ctx, bt.ReputationInterval, bt.recomputeReputation)
	}()
	wg.Wait()
}

func (bt *BackgroundTasks) every(ctx context.Context, interval time.Duration, task func(context.Context)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			task(ctx)
		}
	}
}

func (bt *BackgroundTasks) reconcileVotes(ctx context.Context) {
	if _, err := bt.VoteUsecase.ReconcileAll(ctx); err != nil {
		bt.Logger.Error("entry reconciliation failed", "error", err.Error())
	}
	if _, err := bt.SuggestionUsecase.ReconcilePending(ctx); err != nil {
		bt.Logger.Error("suggestion reconciliation failed", "error", err.Error())
	}
}

func (bt *BackgroundTasks) recomputeReputation(ctx context.Context) {
	if _, err := bt.ReputationUsecase.RecomputeAll(ctx); err != nil {
		bt.Logger.Error("reputation recompute failed", "error", err.Error())
	}
}
