package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/app/background"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

func maintainCmd() *cobra.Command {
	var (
		metricsAddr        string
		reconcileInterval  time.Duration
		reputationInterval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "maintain",
		Short: "Run periodic reconciliation and serve prometheus metrics until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.DefaultRegisterer)
			if err != nil {
				return err
			}
			defer svc.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := svc.deps.Logger
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			srv := &http.Server{Addr: metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server failed", "error", err.Error())
				}
			}()

			uc := svc.usecases
			tasks := background.NewBackgroundTasks(uc.VoteUsecase, uc.SuggestionUsecase, uc.ReputationUsecase, log)
			tasks.ReconcileInterval = reconcileInterval
			tasks.ReputationInterval = reputationInterval

			log.Info("maintenance started", "metrics_addr", metricsAddr)
			tasks.StartAll(ctx)

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			log.Info("maintenance stopped")
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", ":9090", "address for the /metrics endpoint")
	cmd.Flags().DurationVar(&reconcileInterval, "reconcile-interval", 10*time.Minute, "how often vote counters are reconciled")
	cmd.Flags().DurationVar(&reputationInterval, "reputation-interval", time.Hour, "how often reputation is recomputed")
	return cmd
}
