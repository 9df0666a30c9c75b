// tripctl is a small terminal client for the suggestion API. It keeps the
// same local usage tracking the web client does, so quota feedback is
// instant even before the server answers.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tripweave-app/tripweave/internal/client"
	"github.com/tripweave-app/tripweave/internal/tracker"
)

var (
	serverURL string
	userID    string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Trip suggestion client",
		Long:          "tripctl generates AI trip suggestions against a tripweave server and tracks your local usage quota.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "tripweave API base URL")
	root.PersistentFlags().StringVar(&userID, "user", os.Getenv("TRIPWEAVE_USER"), "user id (defaults to $TRIPWEAVE_USER)")

	root.AddCommand(newSuggestCmd())
	root.AddCommand(newQuotaCmd())
	root.AddCommand(newUsageCmd())
	root.AddCommand(newResetUsageCmd())

	return root
}

func newOrchestrator() (*client.Orchestrator, error) {
	store, err := tracker.DefaultFileStore()
	if err != nil {
		return nil, err
	}
	return client.New(serverURL, tracker.New(store)), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
