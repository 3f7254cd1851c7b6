package main

import (
	"fmt"

	merchantdto "github.com/LavaJover/shvark-cashback-service/internal/usecase/dto/merchant"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func merchantsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "Merchant identity resolution",
	}
	cmd.AddCommand(resolveMerchantCmd())
	return cmd
}

func resolveMerchantCmd() *cobra.Command {
	var input merchantdto.ResolveMerchantInput

	cmd := &cobra.Command{
		Use:   "resolve <statement text>",
		Short: "Resolve a statement text to its canonical merchant, creating it if unseen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := openService(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			defer svc.Close()

			input.StatementText = args[0]
			out, err := svc.usecases.MerchantUsecase.ResolveMerchant(cmd.Context(), &input)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", out.Merchant.ID, out.Merchant.CanonicalName, out.Resolution)
			return nil
		},
	}

	cmd.Flags().StringVar(&input.CanonicalName, "name", "", "canonical name for a new merchant (defaults to the statement text)")
	cmd.Flags().StringVar(&input.Category, "category", "", "merchant category")
	cmd.Flags().StringVar(&input.MCC, "mcc", "", "default merchant category code")
	return cmd
}
