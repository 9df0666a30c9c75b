package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tripweave-app/tripweave/internal/tracker"
)

func newUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show local usage tracking (no network call)",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := tracker.DefaultFileStore()
			if err != nil {
				return err
			}
			stats := tracker.New(store).Stats()

			fmt.Printf("Today:       %d/%d used (%d%%), resets %s\n",
				stats.Daily.Used, stats.Daily.Limit, stats.Daily.Percent,
				stats.NextDailyReset.Format("Mon 15:04"))
			fmt.Printf("Last minute: %d/%d used (%d%%)\n",
				stats.Minute.Used, stats.Minute.Limit, stats.Minute.Percent)
			return nil
		},
	}
}

func newResetUsageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset-usage",
		Short: "Clear local usage tracking",
		Long:  "Clears the locally stored usage window. The server-side quota is unaffected.",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := tracker.DefaultFileStore()
			if err != nil {
				return err
			}
			if err := tracker.New(store).Reset(); err != nil {
				return err
			}
			fmt.Println("Local usage cleared.")
			return nil
		},
	}
}
