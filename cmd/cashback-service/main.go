package main

import (
	"fmt"
	"log"
	"os"

	"github.com/LavaJover/shvark-cashback-service/internal/app/setup"
	"github.com/LavaJover/shvark-cashback-service/internal/config"
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/logger"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var configPath string

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "cashback-service",
		Short:         "Operations for the cashback consensus store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", os.Getenv(config.ConfigPathEnv), "path to the YAML config")

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(merchantsCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(suggestionsCmd())
	rootCmd.AddCommand(reputationCmd())
	rootCmd.AddCommand(maintainCmd())
	rootCmd.AddCommand(statsCmd())
	return rootCmd
}

// service is everything a subcommand needs, opened from the config flag.
type service struct {
	deps     *setup.Dependencies
	usecases *setup.UseCases
}

// openService wires the store and usecases. One-shot commands pass a private
// registry; only maintain exposes metrics.
func openService(reg prometheus.Registerer) (*service, error) {
	if configPath == "" {
		return nil, fmt.Errorf("no config given: pass --config or set %s", config.ConfigPathEnv)
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	deps, err := setup.InitializeDependencies(cfg, logger.New(cfg.LogConfig), reg)
	if err != nil {
		return nil, err
	}
	usecases, err := setup.InitializeUseCases(deps)
	if err != nil {
		_ = deps.Close()
		return nil, err
	}
	return &service{deps: deps, usecases: usecases}, nil
}

func (s *service) Close() {
	if err := s.deps.Close(); err != nil {
		s.deps.Logger.Error("shutdown failed", "error", err.Error())
	}
}
