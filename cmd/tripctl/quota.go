package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newQuotaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quota",
		Short: "Show the server-side daily quota for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := newOrchestrator()
			if err != nil {
				return err
			}

			usage, err := o.Quota(cmd.Context(), userID)
			if err != nil {
				return describeError(err)
			}

			fmt.Printf("Daily quota: %d/%d used, %d remaining\n",
				usage.Used, usage.Limit, usage.Remaining)
			return nil
		},
	}
}
