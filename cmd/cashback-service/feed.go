package main

import (
	"fmt"
	"time"

	"github.com/LavaJover/shvark-cashback-service/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func listEntriesCmd() *cobra.Command {
	var (
		filter domain.EntryFilter
		sort   string
		viewer string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of the entry feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer svc.Close()

			filter.Sort = domain.EntrySort(sort)
			views, err := svc.usecases.EntryUsecase.ListEntries(cmd.Context(), filter, viewer)
			if err != nil {
				return err
			}
			for _, v := range views {
				merchant := ""
				if v.Merchant != nil {
					merchant = v.Merchant.CanonicalName
				}
				vote := "-"
				if v.ViewerVote != nil {
					vote = string(*v.ViewerVote)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%g\t%s\t%s\n", v.Entry.ID, merchant, v.Entry.CashbackRate, v.Entry.Status, vote)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.CardID, "card", "", "only entries for this card")
	cmd.Flags().StringVar(&filter.MerchantID, "merchant", "", "only entries for this merchant")
	cmd.Flags().StringVar(&filter.Search, "search", "", "match merchant names, statement names and aliases")
	cmd.Flags().StringVar(&sort, "sort", string(domain.SortMerchant), "merchant, cashback-high, cashback-low, verified or newest")
	cmd.Flags().IntVar(&filter.Offset, "offset", 0, "entries to skip")
	cmd.Flags().IntVar(&filter.Limit, "limit", domain.DefaultFeedLimit, fmt.Sprintf("page size, at most %d", domain.MaxFeedLimit))
	cmd.Flags().StringVar(&viewer, "viewer", "", "contributor whose votes are shown")
	return cmd
}

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print catalogue totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer svc.Close()

			stats, err := svc.usecases.EntryUsecase.GetDashboardStats(cmd.Context())
			if err != nil {
				return err
			}
			lastUpdated := "never"
			if stats.LastUpdated != nil {
				lastUpdated = stats.LastUpdated.UTC().Format(time.RFC3339)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cards=%d merchants=%d contributors=%d last_updated=%s\n",
				stats.TotalCards, stats.TotalMerchants, stats.TotalContributors, lastUpdated)
			return nil
		},
	}
}
