package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func entriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Cashback entry maintenance",
	}

	var all bool
	reconcile := &cobra.Command{
		Use:   "reconcile [entry-id]",
		Short: "Recount entry vote counters from vote rows and re-run the status machine",
		Args:  oneIDOrAll(&all),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer svc.Close()

			uc := svc.usecases.VoteUsecase
			if all {
				report, err := uc.ReconcileAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "checked %d entries, repaired %d\n", report.Checked, report.Repaired)
				return nil
			}

			entry, err := uc.ReconcileEntry(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tup=%d\tdown=%d\t%s\n", entry.ID, entry.UpvoteCount, entry.DownvoteCount, entry.Status)
			return nil
		},
	}
	reconcile.Flags().BoolVar(&all, "all", false, "reconcile every entry")
	cmd.AddCommand(reconcile, listEntriesCmd())
	return cmd
}

func suggestionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "suggestions",
		Short: "Rate suggestion maintenance",
	}

	var all bool
	reconcile := &cobra.Command{
		Use:   "reconcile [suggestion-id]",
		Short: "Recount pending suggestion support and accept any that crossed the threshold",
		Args:  oneIDOrAll(&all),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer svc.Close()

			uc := svc.usecases.SuggestionUsecase
			if all {
				report, err := uc.ReconcilePending(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "checked %d suggestions, accepted %d\n", report.Checked, report.Repaired)
				return nil
			}

			s, err := uc.ReconcileSuggestion(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tup=%d\tdown=%d\t%s\n", s.ID, s.Upvotes, s.Downvotes, s.Status)
			return nil
		},
	}
	reconcile.Flags().BoolVar(&all, "all", false, "reconcile every pending suggestion")
	cmd.AddCommand(reconcile)
	return cmd
}

func reputationCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reputation",
		Short: "Reputation maintenance",
	}

	var all bool
	recompute := &cobra.Command{
		Use:   "recompute [contributor-id]",
		Short: "Recompute reputation from contribution history",
		Args:  oneIDOrAll(&all),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer svc.Close()

			uc := svc.usecases.ReputationUsecase
			if all {
				report, err := uc.RecomputeAll(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "checked %d contributors, adjusted %d\n", report.Checked, report.Adjusted)
				return nil
			}

			score, err := uc.Recompute(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", args[0], score)
			return nil
		},
	}
	recompute.Flags().BoolVar(&all, "all", false, "recompute every contributor")
	cmd.AddCommand(recompute)
	return cmd
}

// oneIDOrAll accepts exactly one id, or none when --all is set.
func oneIDOrAll(all *bool) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if *all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	}
}
