package main

import (
	"github.com/LavaJover/shvark-cashback-service/internal/infrastructure/migrate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	var down int
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending postgres schema migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer svc.Close()

			cfg := svc.deps.Config
			if down > 0 {
				return migrate.RollbackMigrations(svc.deps.DB, cfg.Database.MigrationsPath, down, svc.deps.Logger)
			}
			return migrate.RunMigrations(svc.deps.DB, cfg.Database.MigrationsPath, svc.deps.Logger)
		},
	}
	cmd.Flags().IntVar(&down, "down", 0, "roll back this many migrations instead of applying")
	return cmd
}
